package command_test

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/waldb/internal/command"
)

func TestParseRead(t *testing.T) {
	cmd, err := command.Parse("read foo")
	assert.NilError(t, err)
	assert.Equal(t, cmd, command.Command{Kind: command.Read, Key: "foo"})
}

func TestParseWrite(t *testing.T) {
	cmd, err := command.Parse("write foo bar")
	assert.NilError(t, err)
	assert.Equal(t, cmd, command.Command{Kind: command.Write, Key: "foo", Value: "bar"})
}

func TestParseCommit(t *testing.T) {
	cmd, err := command.Parse("commit")
	assert.NilError(t, err)
	assert.Equal(t, cmd, command.Command{Kind: command.Commit})
}

func TestParseRollback(t *testing.T) {
	cmd, err := command.Parse("rollback")
	assert.NilError(t, err)
	assert.Equal(t, cmd, command.Command{Kind: command.Rollback})
}

func TestParseEmptyLineIsError(t *testing.T) {
	_, err := command.Parse("")
	assert.ErrorContains(t, err, "missing")
}

func TestParseReadWithoutKeyIsError(t *testing.T) {
	_, err := command.Parse("read")
	assert.ErrorContains(t, err, "read")
}

func TestParseReadWithExtraArgumentIsError(t *testing.T) {
	_, err := command.Parse("read foo bar")
	assert.ErrorContains(t, err, "read")
}

func TestParseWriteWithMissingValueIsError(t *testing.T) {
	_, err := command.Parse("write foo")
	assert.ErrorContains(t, err, "write")
}

func TestParseCommitWithArgumentIsError(t *testing.T) {
	_, err := command.Parse("commit now")
	assert.ErrorContains(t, err, "commit")
}

func TestParseUnknownCommandIsError(t *testing.T) {
	_, err := command.Parse("delete foo")
	assert.ErrorContains(t, err, "unknown command")
}
