// Package kv holds the committed key-value map: the durable, in-memory
// state a database reaches after replaying its log. It never touches the
// WAL itself — wal.Recover hands it a plain map to seed from, and a
// txn.Transaction is the only writer it sees after that.
package kv

import (
	"sync"

	"github.com/google/btree"
)

// degree controls the branching factor of the underlying B-tree; 32 is
// the value google/btree's own benchmarks settle on for string-keyed
// workloads of this size.
const degree = 32

type entry struct {
	key   string
	value string
}

func (e entry) Less(than btree.Item) bool {
	return e.key < than.(entry).key
}

// Map is an ordered, point-addressable map from key to value. Ordering
// is by byte value of the key, giving deterministic iteration
// independent of insertion order.
type Map struct {
	mu   sync.Mutex
	tree *btree.BTree
}

// New returns an empty Map.
func New() *Map {
	return &Map{tree: btree.New(degree)}
}

// Get returns the value for key and whether it was present.
func (m *Map) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := m.tree.Get(entry{key: key})
	if item == nil {
		return "", false
	}
	return item.(entry).value, true
}

// Put inserts or overwrites the value for key.
func (m *Map) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tree.ReplaceOrInsert(entry{key: key, value: value})
}

// Delete removes key, if present.
func (m *Map) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tree.Delete(entry{key: key})
}

// Clear removes every entry.
func (m *Map) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tree = btree.New(degree)
}

// Len reports the number of entries.
func (m *Map) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.tree.Len()
}

// ForEach visits every key in ascending order, stopping early if fn
// returns false.
func (m *Map) ForEach(fn func(key, value string) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tree.Ascend(func(i btree.Item) bool {
		e := i.(entry)
		return fn(e.key, e.value)
	})
}
