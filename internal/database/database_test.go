package database_test

import (
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/waldb/internal/database"
)

func TestOpenOnFreshPathStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wal")
	db, err := database.Open(path)
	assert.NilError(t, err)
	defer db.Close()

	_, ok := db.Read("a")
	assert.Equal(t, ok, false)
}

func TestCommitIsVisibleAfterReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wal")

	db, err := database.Open(path)
	assert.NilError(t, err)
	tx := db.Begin()
	assert.NilError(t, tx.Write("a", "1"))
	assert.NilError(t, tx.Commit())
	assert.NilError(t, db.Close())

	db2, err := database.Open(path)
	assert.NilError(t, err)
	defer db2.Close()

	v, ok := db2.Read("a")
	assert.Assert(t, ok)
	assert.Equal(t, v, "1")
}

func TestRollbackLeavesNoTraceAfterReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wal")

	db, err := database.Open(path)
	assert.NilError(t, err)
	tx := db.Begin()
	assert.NilError(t, tx.Write("a", "1"))
	assert.NilError(t, tx.Rollback())
	assert.NilError(t, db.Close())

	db2, err := database.Open(path)
	assert.NilError(t, err)
	defer db2.Close()

	_, ok := db2.Read("a")
	assert.Equal(t, ok, false)
}

func TestSequentialTransactionsAccumulate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wal")

	db, err := database.Open(path)
	assert.NilError(t, err)
	defer db.Close()

	tx1 := db.Begin()
	assert.NilError(t, tx1.Write("a", "1"))
	assert.NilError(t, tx1.Commit())

	tx2 := db.Begin()
	assert.NilError(t, tx2.Write("b", "2"))
	assert.NilError(t, tx2.Commit())

	v, ok := db.Read("a")
	assert.Assert(t, ok)
	assert.Equal(t, v, "1")
	v, ok = db.Read("b")
	assert.Assert(t, ok)
	assert.Equal(t, v, "2")
}

func TestBeginAssignsIncreasingTransactionIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wal")
	db, err := database.Open(path)
	assert.NilError(t, err)
	defer db.Close()

	tx1 := db.Begin()
	tx2 := db.Begin()
	assert.Assert(t, tx2.ID() > tx1.ID())
}
