package curtain

import (
	"fmt"
	"strings"

	"github.com/cboone/curtain/internal/vt"
)

// Screen is an immutable capture of terminal content.
type Screen struct {
	lines  []string
	raw    string
	width  int
	height int
	cursor Position
}

// newScreen captures rows as text, dropping trailing whitespace from each
// row.
func newScreen(rows []Row, width, height int) *Screen {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = r.TrimmedString()
	}
	return &Screen{
		lines:  lines,
		raw:    strings.Join(lines, "\n"),
		width:  width,
		height: height,
		cursor: Position{Row: -1, Col: -1},
	}
}

// String returns the full screen content as a string.
func (s *Screen) String() string {
	return s.raw
}

// Lines returns a copy of the screen content as a slice of strings, one per row.
// The returned slice is a shallow copy; callers may modify it without affecting
// the Screen.
func (s *Screen) Lines() []string {
	cp := make([]string, len(s.lines))
	copy(cp, s.lines)
	return cp
}

// Line returns the content of a single row (0-indexed).
// Panics if n is out of range.
func (s *Screen) Line(n int) string {
	return s.lines[n]
}

// Contains reports whether the screen contains the substring.
func (s *Screen) Contains(substr string) bool {
	return strings.Contains(s.raw, substr)
}

// Size returns the width and height.
func (s *Screen) Size() (width, height int) {
	return s.width, s.height
}

// Cursor returns the cursor position at capture time.
func (s *Screen) Cursor() Position {
	return s.cursor
}

// Render draws the capture as a bordered block, one line per row, each
// row padded to the screen width so the borders align.
func (s *Screen) Render() string {
	var b strings.Builder
	border := strings.Repeat("\u2500", s.width)

	fmt.Fprintf(&b, "\u256d%s\u256e\n", border)
	for _, line := range s.lines {
		fmt.Fprintf(&b, "\u2502%s\u2502\n", vt.FillRight(line, s.width))
	}
	fmt.Fprintf(&b, "\u2570%s\u256f", border)
	return b.String()
}

func appendRecentScreens(screens []*Screen, scr *Screen, max int) []*Screen {
	if scr == nil {
		return screens
	}
	screens = append(screens, scr)
	if len(screens) > max {
		screens = screens[len(screens)-max:]
	}
	return screens
}

func formatRecentScreens(screens []*Screen) string {
	if len(screens) == 0 {
		return "    (no screen captured)"
	}

	var b strings.Builder
	for i, scr := range screens {
		fmt.Fprintf(&b, "    capture %d/%d:\n%s", i+1, len(screens), formatScreenBox(scr.lines, scr.width))
		if i < len(screens)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// formatTextBox boxes a multi-line dump for error messages.
func formatTextBox(text string) string {
	lines := strings.Split(text, "\n")
	width := 0
	for _, l := range lines {
		width = max(width, vt.StringWidth(l))
	}
	return formatScreenBox(lines, width)
}

// formatScreenBox formats lines with a box border for error messages.
func formatScreenBox(lines []string, width int) string {
	if width == 0 {
		width = defaultWidth
	}

	var b strings.Builder
	border := strings.Repeat("\u2500", width)

	fmt.Fprintf(&b, "    \u250c%s\u2510\n", border)
	for _, line := range lines {
		fmt.Fprintf(&b, "    \u2502%s\u2502\n", vt.FillRight(line, width))
	}
	fmt.Fprintf(&b, "    \u2514%s\u2518", border)

	return b.String()
}
