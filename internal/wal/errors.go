package wal

import "errors"

// Sentinel errors for the codec/reader taxonomy (spec §7): a tagged
// variant, not a class hierarchy. Callers compare with errors.Is.
var (
	// ErrEndOfLog marks a clean end of stream. Not an error at the
	// reader surface — it's the normal way recovery terminates.
	ErrEndOfLog = errors.New("wal: end of log")

	// ErrTorn marks an incomplete or CRC-failing record at the tail.
	// Recoverable by truncating back to the last commit boundary.
	ErrTorn = errors.New("wal: torn record")

	// ErrBroken marks a structurally invalid payload (protobuf schema
	// mismatch). Recoverable the same way as ErrTorn under this
	// implementation's policy (truncate rather than fail-stop).
	ErrBroken = errors.New("wal: broken record")
)
