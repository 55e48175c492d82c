package wal

import (
	"errors"
	"fmt"
)

// RecoveryResult is the outcome of replaying a log from the start: the
// committed key/value state folded across every complete commit group,
// and the byte offset the log should be truncated to before new writes
// are accepted.
type RecoveryResult struct {
	Writes     map[string]string
	TruncateTo int64
}

// Recover replays r from its current position (a freshly opened Reader
// starts at 0) to the end, applying WRITE records into a staging area
// and folding that staging area into the committed result only when the
// matching COMMIT record is reached. Any damage at the tail — clean EOF,
// a torn record, or a structurally broken one — ends replay there rather
// than failing the whole open; the log is recovered up to the last
// complete commit group and the rest is discarded by the caller via
// TruncateTo. An I/O error other than those three classifications is
// fail-stop: Recover propagates it so callers refuse to start against
// possibly-unreadable storage.
func Recover(r *Reader) (*RecoveryResult, error) {
	staging := make(map[string]string)
	committed := make(map[string]string)
	var lastCommitEnd int64

	for {
		cmd, pos, err := r.Read()
		if err != nil {
			if errors.Is(err, ErrEndOfLog) || errors.Is(err, ErrTorn) || errors.Is(err, ErrBroken) {
				return &RecoveryResult{Writes: committed, TruncateTo: lastCommitEnd}, nil
			}
			return nil, fmt.Errorf("wal: recovery read failed: %w", err)
		}

		switch c := cmd.(type) {
		case WriteCommand:
			staging[c.Key] = c.Value
		case CommitCommand:
			for k, v := range staging {
				committed[k] = v
			}
			staging = make(map[string]string)
			lastCommitEnd = pos
		}
	}
}
