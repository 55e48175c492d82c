package wal

import (
	"fmt"
	"os"
)

// Reader sequentially scans a WAL file, classifying tail damage as it
// reads rather than treating it as a fatal error. It holds its own file
// handle, independent of any Writer open on the same path.
type Reader struct {
	file *os.File
	pos  int64
}

// OpenReader opens path for reading starting at offset 0. path must
// already exist; OpenReader does not create it (database.Open creates an
// empty log before opening a Reader on it).
func OpenReader(path string) (*Reader, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("wal: open reader: %w", err)
	}
	return &Reader{file: f}, nil
}

// Read decodes the next record and returns the reader's position
// immediately after it. On ErrEndOfLog, ErrTorn, or ErrBroken the
// position returned is wherever the reader stood before the failed
// attempt — callers recover by truncating to the last known-good commit
// boundary, not to this position.
func (r *Reader) Read() (Command, int64, error) {
	cmd, n, err := Decode(r.file)
	if err != nil {
		return nil, r.pos, err
	}
	r.pos += n
	return cmd, r.pos, nil
}

// Truncate cuts the underlying file to length, discarding any tail bytes
// recovery decided were torn or broken.
func (r *Reader) Truncate(length int64) error {
	if err := r.file.Truncate(length); err != nil {
		return fmt.Errorf("wal: truncate: %w", err)
	}
	return nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.file.Close()
}
