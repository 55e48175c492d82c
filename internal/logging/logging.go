package logging

import (
	"context"
	"log/slog"
	"os"
	"time"

	slogseq "github.com/sokkalf/slog-seq"
)

// multiHandler forwards log records to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	// Enable if any handler is enabled for this level
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// levelFromEnv reads WALDB_LOG_LEVEL (debug, info, warn, error), defaulting
// to info.
func levelFromEnv() slog.Level {
	switch os.Getenv("WALDB_LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogger builds the process logger and returns it with a cleanup
// function. It does not install the logger as the slog default; the caller
// does that.
func SetupLogger() (*slog.Logger, func()) {
	level := levelFromEnv()

	// Console handler
	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	})

	// Seq handler
	_, seqHandler := slogseq.NewLogger(
		"http://localhost:5341",
		slogseq.WithBatchSize(1),
		slogseq.WithFlushInterval(500*time.Millisecond),
		slogseq.WithHandlerOptions(&slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		}),
	)

	// If Seq is not available, use console only
	if seqHandler == nil {
		console := slog.New(consoleHandler)
		return console, func() {}
	}

	// Combine both handlers
	multi := &multiHandler{
		handlers: []slog.Handler{consoleHandler, seqHandler},
	}

	logger := slog.New(multi)

	closeFn := func() {
		seqHandler.Close()
	}

	return logger, closeFn
}
