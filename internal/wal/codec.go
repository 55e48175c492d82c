package wal

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/leengari/waldb/internal/walpb"
)

// Command is one unit the log can durably record. READ and ROLLBACK
// never reach disk, so the only implementors are WriteCommand and
// CommitCommand — the type system rules out a decoded record ever being
// anything else.
type Command interface {
	isCommand()
}

// WriteCommand stages a key/value pair inside the enclosing commit group.
type WriteCommand struct {
	Key   string
	Value string
}

func (WriteCommand) isCommand() {}

// CommitCommand closes a commit group.
type CommitCommand struct{}

func (CommitCommand) isCommand() {}

// Encode frames cmd as len:u32 BE ‖ payload ‖ crc64:u64 BE, where the
// checksum covers the length prefix and payload bytes together.
func Encode(cmd Command) ([]byte, error) {
	rec := &walpb.WalRecord{}
	switch c := cmd.(type) {
	case WriteCommand:
		rec.Write = &walpb.WriteCommand{Key: c.Key, Value: c.Value}
	case CommitCommand:
		rec.Commit = &walpb.CommitCommand{}
	default:
		return nil, fmt.Errorf("wal: cannot encode command of type %T", cmd)
	}

	payload, err := rec.Marshal()
	if err != nil {
		return nil, fmt.Errorf("wal: marshal record: %w", err)
	}

	buf := make([]byte, 4+len(payload)+8)
	binary.BigEndian.PutUint32(buf[0:4], uint32(len(payload)))
	copy(buf[4:4+len(payload)], payload)

	sum := crc64Sum(buf[:4], payload)
	binary.BigEndian.PutUint64(buf[4+len(payload):], sum)

	return buf, nil
}

// Decode reads exactly one framed record from r and reports how many
// bytes it consumed. Outcomes follow the reader's classification table:
// a clean EOF before any byte of a new record yields ErrEndOfLog; a short
// read or checksum mismatch anywhere in the frame yields ErrTorn; a
// length-prefixed payload that fails to parse as a WalRecord yields
// ErrBroken wrapping the parse error. Any other I/O error propagates
// unwrapped.
func Decode(r io.Reader) (Command, int64, error) {
	lenBuf := make([]byte, 4)
	if _, err := io.ReadFull(r, lenBuf); err != nil {
		if err == io.EOF {
			return nil, 0, ErrEndOfLog
		}
		if err == io.ErrUnexpectedEOF {
			return nil, 0, ErrTorn
		}
		return nil, 0, err
	}
	length := binary.BigEndian.Uint32(lenBuf)

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, 0, ErrTorn
		}
		return nil, 0, err
	}

	crcBuf := make([]byte, 8)
	if _, err := io.ReadFull(r, crcBuf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, 0, ErrTorn
		}
		return nil, 0, err
	}
	wantSum := binary.BigEndian.Uint64(crcBuf)

	gotSum := crc64Sum(lenBuf, payload)
	if gotSum != wantSum {
		return nil, 0, ErrTorn
	}

	rec := &walpb.WalRecord{}
	if err := rec.Unmarshal(payload); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrBroken, err)
	}

	consumed := int64(4 + len(payload) + 8)
	switch {
	case rec.Write != nil:
		return WriteCommand{Key: rec.Write.Key, Value: rec.Write.Value}, consumed, nil
	case rec.Commit != nil:
		return CommitCommand{}, consumed, nil
	default:
		return nil, 0, ErrBroken
	}
}
