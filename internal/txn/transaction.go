// Package txn implements the single-transaction state machine: a
// session stages writes in a volatile overlay, then commits or rolls
// back exactly once before becoming inert.
package txn

import (
	"fmt"

	"github.com/leengari/waldb/internal/kv"
	"github.com/leengari/waldb/internal/wal"
)

// state is the transaction's place in its Active → {Committed, Doomed,
// RolledBack} machine. Every terminal state is final: once left,
// Active is never re-entered.
type state uint8

const (
	stateActive state = iota
	stateCommitted
	stateDoomed
	stateRolledBack
)

func (s state) String() string {
	switch s {
	case stateActive:
		return "active"
	case stateCommitted:
		return "committed"
	case stateDoomed:
		return "doomed"
	case stateRolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// overlayEntry is one write() call. The overlay keeps every call in
// order, duplicates included, because commit logs one WRITE record per
// call made, not one per distinct key — two writes to the same key
// inside one transaction produce two WRITE records on disk.
type overlayEntry struct {
	key   string
	value string
}

// Transaction is one session's view of the database: a sequence of
// staged writes over a shared committed map, logged and applied
// atomically on Commit.
type Transaction struct {
	id        uint64
	sessionID string
	writer    *wal.Writer
	committed *kv.Map
	overlay   []overlayEntry
	state     state
}

// New constructs a Transaction in the Active state. Callers get one from
// database.Database.Begin rather than calling this directly.
func New(id uint64, sessionID string, writer *wal.Writer, committed *kv.Map) *Transaction {
	return &Transaction{
		id:        id,
		sessionID: sessionID,
		writer:    writer,
		committed: committed,
		state:     stateActive,
	}
}

// ID returns the process-local numeric transaction id.
func (t *Transaction) ID() uint64 { return t.id }

// SessionID returns the transaction's UUID, used for log correlation
// only — it is never persisted to the WAL.
func (t *Transaction) SessionID() string { return t.sessionID }

// Read resolves key against the overlay first (most recent write to key
// wins), falling back to the committed map. Reading does not require the
// transaction to be Active; a Doomed or RolledBack transaction still
// answers reads consistently, it just can no longer accept writes or
// commit.
func (t *Transaction) Read(key string) (string, bool) {
	for i := len(t.overlay) - 1; i >= 0; i-- {
		if t.overlay[i].key == key {
			return t.overlay[i].value, true
		}
	}
	return t.committed.Get(key)
}

// Write stages a key/value pair in the overlay. It fails if the
// transaction has already left the Active state.
func (t *Transaction) Write(key, value string) error {
	if t.state != stateActive {
		return fmt.Errorf("txn: cannot write, transaction is %s", t.state)
	}
	t.overlay = append(t.overlay, overlayEntry{key: key, value: value})
	return nil
}

// Commit logs every staged write followed by a commit record, fsyncing
// as it goes, then applies the overlay to the committed map in the same
// order it was logged. If any append fails the transaction becomes
// Doomed: whatever prefix of writes made it to disk without a trailing
// commit record will be discarded by the next recovery, so the
// in-memory map is never touched.
func (t *Transaction) Commit() error {
	if t.state != stateActive {
		return fmt.Errorf("txn: cannot commit, transaction is %s", t.state)
	}

	for _, e := range t.overlay {
		if err := t.writer.Append(wal.WriteCommand{Key: e.key, Value: e.value}); err != nil {
			t.state = stateDoomed
			return fmt.Errorf("txn: log write: %w", err)
		}
	}
	if err := t.writer.Append(wal.CommitCommand{}); err != nil {
		t.state = stateDoomed
		return fmt.Errorf("txn: log commit: %w", err)
	}

	for _, e := range t.overlay {
		t.committed.Put(e.key, e.value)
	}

	t.overlay = nil
	t.state = stateCommitted
	return nil
}

// Rollback discards the overlay without writing anything to the log.
// The committed map is never touched; a rolled-back transaction leaves
// no trace on disk.
func (t *Transaction) Rollback() error {
	if t.state != stateActive {
		return fmt.Errorf("txn: cannot rollback, transaction is %s", t.state)
	}
	t.overlay = nil
	t.state = stateRolledBack
	return nil
}
