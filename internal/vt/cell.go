package vt

import (
	"strings"
	"unicode"
)

// Style is the rendition applied to written cells.
type Style struct {
	FG        Color
	BG        Color
	Bold      bool
	Italic    bool
	Underline bool
	Reverse   bool
}

// DefaultStyle is the rendition after SGR 0.
func DefaultStyle() Style {
	return Style{FG: DefaultColor, BG: DefaultColor}
}

// Cell is a single grid position. A Char of 0 marks the right half of a
// wide character. Comb holds zero-width runes, such as combining accents,
// printed after Char.
type Cell struct {
	Char rune
	Comb string
	Style
}

// Text returns the character and any combining runes.
func (c Cell) Text() string {
	if c.Comb == "" {
		return string(c.Char)
	}
	return string(c.Char) + c.Comb
}

// Blank returns an empty cell carrying only the given background.
func Blank(bg Color) Cell {
	return Cell{Char: ' ', Style: Style{FG: DefaultColor, BG: bg}}
}

// Continuation reports whether the cell is the trailing half of a wide
// character.
func (c Cell) Continuation() bool {
	return c.Char == 0
}

// Row is one line of the grid. Every row holds exactly as many cells as
// the screen has columns.
type Row []Cell

func blankRow(cols int, bg Color) Row {
	r := make(Row, cols)
	for i := range r {
		r[i] = Blank(bg)
	}
	return r
}

// Clone returns a copy that shares no storage with r.
func (r Row) Clone() Row {
	cp := make(Row, len(r))
	copy(cp, r)
	return cp
}

// resized truncates or pads r to cols cells. A wide character cut in half
// at the new edge is blanked.
func (r Row) resized(cols int) Row {
	if len(r) == cols {
		return r
	}
	if len(r) > cols {
		out := r[:cols:cols]
		if cols > 0 && cols < len(r) && r[cols].Continuation() {
			out[cols-1] = Blank(out[cols-1].BG)
		}
		return out
	}
	out := make(Row, cols)
	copy(out, r)
	for i := len(r); i < cols; i++ {
		out[i] = Blank(DefaultColor)
	}
	return out
}

// Runes returns the characters of the row with continuation cells
// omitted, alongside the column of the cell each rune belongs to.
// Combining runes share the column of the character they follow.
func (r Row) Runes() (runes []rune, cols []int) {
	runes = make([]rune, 0, len(r))
	cols = make([]int, 0, len(r))
	for i, c := range r {
		if c.Continuation() {
			continue
		}
		runes = append(runes, c.Char)
		cols = append(cols, i)
		for _, comb := range c.Comb {
			runes = append(runes, comb)
			cols = append(cols, i)
		}
	}
	return runes, cols
}

// String returns the row text at full width.
func (r Row) String() string {
	runes, _ := r.Runes()
	return string(runes)
}

// TrimmedString returns the row text without trailing whitespace.
func (r Row) TrimmedString() string {
	return strings.TrimRightFunc(r.String(), unicode.IsSpace)
}

// FillRight pads s with spaces to w display columns, measuring with the
// same widths the screen uses when printing.
func FillRight(s string, w int) string {
	return widths.FillRight(s, w)
}

// StringWidth returns the display width of s.
func StringWidth(s string) int {
	return widths.StringWidth(s)
}
