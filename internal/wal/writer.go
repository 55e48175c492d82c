package wal

import (
	"fmt"
	"os"
	"sync"
)

// Writer appends framed records to a WAL file and fsyncs after every
// append, so a successful Append return is a durability guarantee, not
// just a buffering one. It never reads; Reader owns the independent file
// handle recovery and replay use.
type Writer struct {
	mu   sync.Mutex
	file *os.File
}

// OpenWriter opens path for appending, creating it if absent.
func OpenWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("wal: open writer: %w", err)
	}
	return &Writer{file: f}, nil
}

// Append encodes cmd and writes it to the log, syncing before returning.
// Go's os.File.Sync calls fsync, which also flushes file metadata; the
// standard library exposes no portable data-only sync, so this is the
// closest equivalent to the data-sync barrier the format calls for — the
// same tradeoff the teacher repo makes around its own commit records.
func (w *Writer) Append(cmd Command) error {
	buf, err := Encode(cmd)
	if err != nil {
		return fmt.Errorf("wal: encode: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.file.Write(buf); err != nil {
		return fmt.Errorf("wal: append: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("wal: sync: %w", err)
	}
	return nil
}

// Close releases the underlying file handle.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
