// Package database wires the WAL subsystem together into the single
// facade adapters use: open a log, recover it, and hand out one
// transaction at a time over the result.
package database

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/leengari/waldb/internal/kv"
	"github.com/leengari/waldb/internal/txn"
	"github.com/leengari/waldb/internal/wal"
)

// Database owns the durable log and the committed map it recovers into.
type Database struct {
	writer    *wal.Writer
	reader    *wal.Reader
	committed *kv.Map
	nextTxID  uint64
}

// Open opens or creates the WAL at path, replays it to build the
// committed map, truncates any torn or uncommitted tail, and only then
// opens the log for new appends. No connection should be accepted until
// Open returns successfully; a failure here means the log may be
// unreadable and the process should refuse to start rather than serve
// against unknown state.
func Open(path string) (*Database, error) {
	if err := createEmpty(path); err != nil {
		return nil, fmt.Errorf("database: create log: %w", err)
	}

	reader, err := wal.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("database: open reader: %w", err)
	}

	result, err := wal.Recover(reader)
	if err != nil {
		reader.Close()
		return nil, fmt.Errorf("database: recovery: %w", err)
	}

	if err := reader.Truncate(result.TruncateTo); err != nil {
		reader.Close()
		return nil, fmt.Errorf("database: truncate tail: %w", err)
	}

	writer, err := wal.OpenWriter(path)
	if err != nil {
		reader.Close()
		return nil, fmt.Errorf("database: open writer: %w", err)
	}

	committed := kv.New()
	for k, v := range result.Writes {
		committed.Put(k, v)
	}

	return &Database{
		writer:    writer,
		reader:    reader,
		committed: committed,
	}, nil
}

// Begin starts a new transaction over the shared committed map and log
// writer. The core does not itself enforce single-flight — it relies on
// the adapter layer (one TCP connection at a time owns a transaction) to
// maintain the no-concurrent-transactions invariant.
func (d *Database) Begin() *txn.Transaction {
	id := atomic.AddUint64(&d.nextTxID, 1)
	return txn.New(id, uuid.New().String(), d.writer, d.committed)
}

// Read is a point lookup against the committed map, for adapters that
// want to peek outside of any transaction. Reads inside a transaction
// should go through Transaction.Read instead, so they see uncommitted
// writes.
func (d *Database) Read(key string) (string, bool) {
	return d.committed.Get(key)
}

// Close releases both file handles the Database holds open.
func (d *Database) Close() error {
	werr := d.writer.Close()
	rerr := d.reader.Close()
	if werr != nil {
		return werr
	}
	return rerr
}

// createEmpty creates path if it does not already exist, so a fresh
// database has something for Open's reader to attach to.
func createEmpty(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}
