package curtain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRender(t *testing.T) {
	term := fedTerminal(6, 3, "hi\r\n  x   ")

	want := "╭──────╮\n" +
		"│hi    │\n" +
		"│  x   │\n" +
		"│      │\n" +
		"╰──────╯"
	assert.Equal(t, want, term.Snapshot())
}

func TestSnapshotDeterministic(t *testing.T) {
	term := fedTerminal(10, 3, "\x1b[31mcolor\x1b[0m")
	assert.Equal(t, term.Snapshot(), term.Snapshot())
}

func TestSnapshotChangesWithContentAndSize(t *testing.T) {
	term := fedTerminal(10, 3, "one")
	before := term.Snapshot()

	feedTerminal(term, " two")
	afterContent := term.Snapshot()
	assert.NotEqual(t, before, afterContent)

	require.NoError(t, term.Resize(12, 3))
	assert.NotEqual(t, afterContent, term.Snapshot())
}

func TestSnapshotExcludesScrollback(t *testing.T) {
	term := fedTerminal(5, 2, "old\r\nmid\r\nnew")
	snap := term.Snapshot()

	assert.NotContains(t, snap, "old")
	assert.Contains(t, snap, "│mid  │")
	assert.Contains(t, snap, "│new  │")
}

func TestSnapshotWideCharacters(t *testing.T) {
	term := fedTerminal(6, 1, "中文")
	assert.Equal(t, "╭──────╮\n│中文  │\n╰──────╯", term.Snapshot())
}

func TestMatchSnapshotGoldenFiles(t *testing.T) {
	t.Chdir(t.TempDir())
	term := fedTerminal(8, 2, "golden")

	t.Setenv(updateEnv, "1")
	ExpectTerminal(t, term).MatchSnapshot("first screen")

	path := filepath.Join(snapshotDir(t), "first_screen.txt")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, term.Snapshot()+"\n", string(data))

	t.Setenv(updateEnv, "")
	ft := newFakeTB(t)
	term.Screen().MatchSnapshot(ft, "first screen")
	assert.False(t, ft.Failed(), ft.Message())

	feedTerminal(term, "\r\nchanged")
	term.Screen().MatchSnapshot(ft, "first screen")
	require.True(t, ft.Failed())
	msg := ft.Message()
	assert.Contains(t, msg, "curtain: snapshot: mismatch")
	assert.Contains(t, msg, "--- golden")
	assert.Contains(t, msg, "+++ actual")
	assert.Contains(t, msg, "+│changed │")
}

func TestMatchSnapshotMissingGolden(t *testing.T) {
	t.Chdir(t.TempDir())
	term := fedTerminal(8, 1, "x")
	ft := newFakeTB(t)

	term.Screen().MatchSnapshot(ft, "missing")
	require.True(t, ft.Failed())
	assert.Equal(t, 1, ft.Failures(), "a missing golden file should be reported once")
	assert.Contains(t, ft.Message(), "golden file not found")
	assert.Contains(t, ft.Message(), "CURTAIN_UPDATE=1")
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"TestFoo/sub case": "TestFoo_sub_case",
		"a..b":             "a..b",
		"///":              "snapshot",
		"ready-screen":     "ready-screen",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeName(in), in)
	}
}
