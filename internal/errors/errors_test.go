package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrConfigNotFound(t *testing.T) {
	err := &ErrConfigNotFound{Path: "/home/user/.claude/ccline/config.yaml"}
	assert.Contains(t, err.Error(), "config file not found")
	assert.Contains(t, err.Error(), "/home/user/.claude/ccline/config.yaml")
}

func TestErrConfigParseUnwrap(t *testing.T) {
	inner := stderrors.New("yaml: line 3: mapping values are not allowed")
	err := &ErrConfigParse{Err: inner}
	require.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestErrOptionInvalid(t *testing.T) {
	err := &ErrOptionInvalid{Key: "cache_duration", Reason: "must be a non-negative integer"}
	assert.Contains(t, err.Error(), `"cache_duration"`)
	assert.Contains(t, err.Error(), "non-negative integer")
}

func TestErrDatabaseQueryUnwrap(t *testing.T) {
	inner := stderrors.New("no such table")
	err := &ErrDatabaseQuery{Operation: "recent_snapshots", Err: inner}
	require.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "recent_snapshots")
}

func TestErrDirectoryCreateUnwrap(t *testing.T) {
	inner := stderrors.New("permission denied")
	err := &ErrDirectoryCreate{Path: "/etc/ccline", Err: inner}
	require.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "/etc/ccline")
}
