package curtain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeySequences(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{Up, "\x1b[A"},
		{Down, "\x1b[B"},
		{Right, "\x1b[C"},
		{Left, "\x1b[D"},
		{Enter, "\r"},
		{Backspace, "\x7f"},
		{Delete, "\x1b[3~"},
		{Tab, "\t"},
		{Escape, "\x1b"},
		{CtrlC, "\x03"},
		{CtrlD, "\x04"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(tt.key))
	}
}

func TestCtrl(t *testing.T) {
	assert.Equal(t, CtrlC, Ctrl('c'))
	assert.Equal(t, CtrlD, Ctrl('D'))
	assert.Equal(t, Escape, Ctrl('['))
	assert.Equal(t, Key("\x00"), Ctrl('@'))
	assert.Equal(t, Key("\x7f"), Ctrl('?'))
	assert.Equal(t, Key("1"), Ctrl('1'))
}

func TestAlt(t *testing.T) {
	assert.Equal(t, Key("\x1bx"), Alt('x'))
}
