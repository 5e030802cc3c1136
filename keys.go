package curtain

// Key is the byte sequence a terminal sends for a key press.
type Key string

// Key sequences, as sent by xterm in normal cursor mode.
const (
	Enter     Key = "\r"
	Escape    Key = "\x1b"
	Tab       Key = "\t"
	Backspace Key = "\x7f"
	Delete    Key = "\x1b[3~"
	Space     Key = " "

	Up    Key = "\x1b[A"
	Down  Key = "\x1b[B"
	Right Key = "\x1b[C"
	Left  Key = "\x1b[D"

	Home     Key = "\x1b[H"
	End      Key = "\x1b[F"
	Insert   Key = "\x1b[2~"
	PageUp   Key = "\x1b[5~"
	PageDown Key = "\x1b[6~"

	// Interrupt (Ctrl+C) and EOF (Ctrl+D).
	CtrlC Key = "\x03"
	CtrlD Key = "\x04"

	F1  Key = "\x1bOP"
	F2  Key = "\x1bOQ"
	F3  Key = "\x1bOR"
	F4  Key = "\x1bOS"
	F5  Key = "\x1b[15~"
	F6  Key = "\x1b[17~"
	F7  Key = "\x1b[18~"
	F8  Key = "\x1b[19~"
	F9  Key = "\x1b[20~"
	F10 Key = "\x1b[21~"
	F11 Key = "\x1b[23~"
	F12 Key = "\x1b[24~"
)

// Ctrl returns the control character for Ctrl+<c>. Letters are case
// insensitive; '@', '[', '\\', ']', '^', '_' and '?' map to their ASCII
// controls. Other characters are returned unchanged.
func Ctrl(c byte) Key {
	switch {
	case c >= 'a' && c <= 'z':
		return Key([]byte{c - 'a' + 1})
	case c >= '@' && c <= '_':
		return Key([]byte{c - '@'})
	case c == '?':
		return Key([]byte{0x7f})
	}
	return Key([]byte{c})
}

// Alt returns the sequence for Alt+<c>: ESC followed by the character.
func Alt(c byte) Key {
	return Key([]byte{0x1b, c})
}
