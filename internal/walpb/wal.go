// Package walpb defines the wire schema for one WAL record payload.
//
// The shape mirrors what protoc-gen-go would emit for wal.proto (see that
// file alongside this one), but is hand-written against
// google.golang.org/protobuf/encoding/protowire directly: no protoc
// toolchain runs as part of building this module, and protowire is that
// same module's public, documented API for encoding/decoding the wire
// form of a message by hand. For a two-message oneof this small, the
// wire bytes it produces are identical to what the generated
// marshal/unmarshal code would produce.
package walpb

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers, fixed forever: the wire format must stay bit-compatible
// across releases (spec: "a log produced by one implementation is
// readable by another").
const (
	fieldWalRecordWrite  = 1
	fieldWalRecordCommit = 2

	fieldWriteCommandKey   = 1
	fieldWriteCommandValue = 2
)

// WriteCommand stages a key/value pair.
type WriteCommand struct {
	Key   string
	Value string
}

// CommitCommand closes a commit group. It carries no fields.
type CommitCommand struct{}

// WalRecord is a oneof over {WriteCommand, CommitCommand}. Exactly one of
// Write or Commit is non-nil on any value produced by Marshal/Unmarshal.
type WalRecord struct {
	Write  *WriteCommand
	Commit *CommitCommand
}

// Marshal serializes r to its protobuf wire form.
func (r *WalRecord) Marshal() ([]byte, error) {
	switch {
	case r.Write != nil && r.Commit != nil:
		return nil, fmt.Errorf("walpb: WalRecord has both write and commit set")
	case r.Write != nil:
		inner, err := r.Write.marshal()
		if err != nil {
			return nil, err
		}
		var b []byte
		b = protowire.AppendTag(b, fieldWalRecordWrite, protowire.BytesType)
		b = protowire.AppendBytes(b, inner)
		return b, nil
	case r.Commit != nil:
		var b []byte
		b = protowire.AppendTag(b, fieldWalRecordCommit, protowire.BytesType)
		b = protowire.AppendBytes(b, nil) // CommitCommand has no fields
		return b, nil
	default:
		return nil, fmt.Errorf("walpb: WalRecord has neither write nor commit set")
	}
}

// Unmarshal parses b into r. b must be exactly one complete WalRecord
// message; trailing or malformed bytes are reported as errors rather than
// silently ignored, matching the codec's "Corrupt" classification.
func (r *WalRecord) Unmarshal(b []byte) error {
	*r = WalRecord{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("walpb: invalid tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		if typ != protowire.BytesType {
			return fmt.Errorf("walpb: unexpected wire type %v for field %d", typ, num)
		}
		inner, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return fmt.Errorf("walpb: invalid length-delimited field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]

		switch num {
		case fieldWalRecordWrite:
			wc := &WriteCommand{}
			if err := wc.unmarshal(inner); err != nil {
				return fmt.Errorf("walpb: write command: %w", err)
			}
			r.Write = wc
			r.Commit = nil
		case fieldWalRecordCommit:
			r.Commit = &CommitCommand{}
			r.Write = nil
		default:
			return fmt.Errorf("walpb: unknown WalRecord field %d", num)
		}
	}

	if r.Write == nil && r.Commit == nil {
		return fmt.Errorf("walpb: WalRecord has neither write nor commit set")
	}
	return nil
}

func (c *WriteCommand) marshal() ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, fieldWriteCommandKey, protowire.BytesType)
	b = protowire.AppendString(b, c.Key)
	b = protowire.AppendTag(b, fieldWriteCommandValue, protowire.BytesType)
	b = protowire.AppendString(b, c.Value)
	return b, nil
}

func (c *WriteCommand) unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("invalid tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		if typ != protowire.BytesType {
			return fmt.Errorf("unexpected wire type %v for field %d", typ, num)
		}
		s, n := protowire.ConsumeString(b)
		if n < 0 {
			return fmt.Errorf("invalid string field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]

		switch num {
		case fieldWriteCommandKey:
			c.Key = s
		case fieldWriteCommandValue:
			c.Value = s
		default:
			return fmt.Errorf("unknown WriteCommand field %d", num)
		}
	}
	return nil
}
