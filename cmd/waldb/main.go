// Command waldb runs the durable single-node key-value server: it
// recovers the write-ahead log at startup and then serves the TCP line
// protocol over it.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/leengari/waldb/internal/database"
	"github.com/leengari/waldb/internal/logging"
	"github.com/leengari/waldb/internal/network"
)

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", envOr("WALDB_ADDR", "0.0.0.0:5555"), "TCP address to listen on")
	walPath := flag.String("wal", envOr("WALDB_WAL_PATH", "./waldb.wal"), "path to the write-ahead log")
	flag.Parse()

	logger, closeFn := logging.SetupLogger()
	defer closeFn()
	slog.SetDefault(logger)

	slog.Info("starting waldb", "wal_path", *walPath, "addr", *addr)

	db, err := database.Open(*walPath)
	if err != nil {
		slog.Error("recovery failed, refusing to start", "error", err)
		return 1
	}
	defer db.Close()

	slog.Info("recovery complete")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- network.Serve(*addr, db)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("server failed", "addr", *addr, "error", err)
			return 2
		}
		return 0
	case <-ctx.Done():
		slog.Info("shutting down")
		return 0
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
