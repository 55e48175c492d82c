// Package network implements the TCP adapter: one connection, one
// transaction, driven by the four-command line protocol.
package network

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/leengari/waldb/internal/command"
	"github.com/leengari/waldb/internal/database"
)

// Serve binds addr and accepts connections until the listener is closed;
// any other Accept error is logged and the loop keeps accepting. It
// returns an error only when binding addr fails. Connections are handled one
// at a time, in the accept loop itself rather than on a spawned
// goroutine: the core's single-transaction-at-a-time model (spec §5,
// "the server accepts one TCP connection at a time") depends on it —
// Writer.Append only mutexes one append, not a whole commit's sequence
// of WRITE…WRITE,COMMIT appends, so two transactions committing
// concurrently could interleave their records on disk.
func Serve(addr string, db *database.Database) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("network: bind %s: %w", addr, err)
	}
	defer listener.Close()

	slog.Info("listening", "addr", addr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.Error("accept failed", "error", err)
			continue
		}
		handleConnection(conn, db)
	}
}

// handleConnection owns exactly one transaction for the lifetime of the
// connection: it begins one on accept, drives commands against it line
// by line, and ends the connection as soon as commit or rollback closes
// that transaction out.
func handleConnection(conn net.Conn, db *database.Database) {
	defer conn.Close()

	tx := db.Begin()
	slog.Debug("transaction begun", "remote_addr", conn.RemoteAddr(), "txn_id", tx.ID(), "session_id", tx.SessionID())

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		cmd, err := command.Parse(line)
		if err != nil {
			writeLine(conn, fmt.Sprintf("ERROR: %v", err))
			continue
		}

		switch cmd.Kind {
		case command.Read:
			value, ok := tx.Read(cmd.Key)
			if !ok {
				writeLine(conn, "NOT_FOUND")
				continue
			}
			writeLine(conn, fmt.Sprintf("OK %s", value))

		case command.Write:
			if err := tx.Write(cmd.Key, cmd.Value); err != nil {
				writeLine(conn, fmt.Sprintf("ERROR: %v", err))
				continue
			}
			writeLine(conn, "OK")

		case command.Commit:
			if err := tx.Commit(); err != nil {
				slog.Error("commit failed", "txn_id", tx.ID(), "error", err)
				writeLine(conn, fmt.Sprintf("ERROR: %v", err))
			} else {
				writeLine(conn, "OK")
			}
			return

		case command.Rollback:
			if err := tx.Rollback(); err != nil {
				writeLine(conn, fmt.Sprintf("ERROR: %v", err))
			} else {
				writeLine(conn, "OK")
			}
			return
		}
	}

	if err := scanner.Err(); err != nil {
		slog.Error("connection error", "remote_addr", conn.RemoteAddr(), "error", err)
	}
}

func writeLine(w io.Writer, s string) {
	io.WriteString(w, s+"\n")
}
