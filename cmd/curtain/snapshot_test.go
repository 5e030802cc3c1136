package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSnapshotCommand(t *testing.T) {
	out, err := execute(t, "snapshot", "--cols", "8", "--rows", "2", "--", "printf", "hi")
	require.NoError(t, err)
	assert.Equal(t, "╭────────╮\n│hi      │\n│        │\n╰────────╯\n", out)
}

func TestSnapshotWaitFor(t *testing.T) {
	out, err := execute(t, "snapshot", "--cols", "20", "--rows", "3",
		"--wait-for", "ready", "--", "/bin/sh", "-c", "echo ready; sleep 10")
	require.NoError(t, err)
	assert.Contains(t, out, "│ready")
}

func TestSnapshotWaitForTimeout(t *testing.T) {
	start := time.Now()
	_, err := execute(t, "snapshot", "--cols", "20", "--rows", "3",
		"--wait-for", "never", "--timeout", "200ms", "--", "/bin/sh", "-c", "sleep 10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `text "never" to be visible`)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSnapshotScrollback(t *testing.T) {
	out, err := execute(t, "snapshot", "--cols", "10", "--rows", "2", "--scrollback",
		"--", "/bin/sh", "-c", "echo one; echo two; echo three")
	require.NoError(t, err)
	assert.Contains(t, out, "one\ntwo\nthree")
}

func TestSnapshotSuppressStderr(t *testing.T) {
	out, err := execute(t, "snapshot", "--cols", "20", "--rows", "3", "--suppress-stderr",
		"--", "/bin/sh", "-c", "echo noisy >&2; echo quiet")
	require.NoError(t, err)
	assert.Contains(t, out, "quiet")
	assert.NotContains(t, out, "noisy")
}

func TestSnapshotSpawnFailure(t *testing.T) {
	_, err := execute(t, "snapshot", "--", "definitely-not-a-real-command-xyz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely-not-a-real-command-xyz")
}

func TestSnapshotInvalidSize(t *testing.T) {
	_, err := execute(t, "snapshot", "--cols", "0", "--", "true")
	assert.ErrorContains(t, err, "invalid size")
}
