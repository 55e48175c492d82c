package network_test

import (
	"bufio"
	"net"
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/leengari/waldb/internal/database"
	"github.com/leengari/waldb/internal/network"
)

func startServer(t *testing.T) (addr string, db *database.Database) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.wal")

	db, err := database.Open(path)
	assert.NilError(t, err)
	t.Cleanup(func() { db.Close() })

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NilError(t, err)
	addr = listener.Addr().String()
	listener.Close()

	go network.Serve(addr, db)
	// Give the listener a moment to rebind the now-free port.
	time.Sleep(20 * time.Millisecond)
	return addr, db
}

func dial(t *testing.T, addr string) (net.Conn, *bufio.Scanner) {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, time.Second)
	assert.NilError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, bufio.NewScanner(conn)
}

func sendLine(t *testing.T, conn net.Conn, scanner *bufio.Scanner, line string) string {
	t.Helper()
	_, err := conn.Write([]byte(line + "\n"))
	assert.NilError(t, err)
	assert.Assert(t, scanner.Scan())
	return scanner.Text()
}

func TestWriteThenReadInSameTransaction(t *testing.T) {
	addr, _ := startServer(t)
	conn, scanner := dial(t, addr)

	assert.Equal(t, sendLine(t, conn, scanner, "write a 1"), "OK")
	assert.Equal(t, sendLine(t, conn, scanner, "read a"), "OK 1")
	assert.Equal(t, sendLine(t, conn, scanner, "commit"), "OK")
}

func TestReadMissingKeyIsNotFound(t *testing.T) {
	addr, _ := startServer(t)
	conn, scanner := dial(t, addr)

	assert.Equal(t, sendLine(t, conn, scanner, "read missing"), "NOT_FOUND")
	assert.Equal(t, sendLine(t, conn, scanner, "commit"), "OK")
}

func TestRollbackDiscardsWrites(t *testing.T) {
	addr, db := startServer(t)
	conn, scanner := dial(t, addr)

	assert.Equal(t, sendLine(t, conn, scanner, "write a 1"), "OK")
	assert.Equal(t, sendLine(t, conn, scanner, "rollback"), "OK")

	_, ok := db.Read("a")
	assert.Equal(t, ok, false)
}

func TestCommitPersistsAcrossConnections(t *testing.T) {
	addr, db := startServer(t)
	conn, scanner := dial(t, addr)

	assert.Equal(t, sendLine(t, conn, scanner, "write a 1"), "OK")
	assert.Equal(t, sendLine(t, conn, scanner, "commit"), "OK")

	v, ok := db.Read("a")
	assert.Assert(t, ok)
	assert.Equal(t, v, "1")

	// A later connection's transaction sees the committed value.
	conn2, scanner2 := dial(t, addr)
	assert.Equal(t, sendLine(t, conn2, scanner2, "read a"), "OK 1")
	assert.Equal(t, sendLine(t, conn2, scanner2, "rollback"), "OK")
}

func TestMalformedLineReturnsError(t *testing.T) {
	addr, _ := startServer(t)
	conn, scanner := dial(t, addr)

	got := sendLine(t, conn, scanner, "write onlyonearg")
	assert.Assert(t, len(got) > len("ERROR:"))
	assert.Equal(t, got[:6], "ERROR:")
}
