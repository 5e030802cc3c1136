// Package vt implements the terminal state model: a cell grid with
// scrollback, cursor and rendition state, driven by a byte-stream decoder
// for the common VT100/xterm subset used by command-line programs.
//
// A Screen is not safe for concurrent use; callers serialize access.
package vt

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// widths measures characters independently of the host locale, so
// ambiguous-width runes always occupy one cell.
var widths = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// Screen is the emulated terminal.
type Screen struct {
	rows, cols int

	grid    []Row
	history *history

	cx, cy   int
	wrapNext bool
	pen      Style

	savedX, savedY int
	savedPen       Style

	top, bottom int
	tabStops    []bool

	autowrap      bool
	cursorVisible bool

	parser  parser
	replies []byte
}

// New returns a blank screen with the given geometry and scrollback
// capacity. Non-positive dimensions are raised to 1.
func New(rows, cols, historyLimit int) *Screen {
	rows, cols = clampSize(rows, cols)
	s := &Screen{
		rows:          rows,
		cols:          cols,
		history:       newHistory(historyLimit),
		pen:           DefaultStyle(),
		savedPen:      DefaultStyle(),
		autowrap:      true,
		cursorVisible: true,
	}
	s.grid = make([]Row, rows)
	for i := range s.grid {
		s.grid[i] = blankRow(cols, DefaultColor)
	}
	s.top, s.bottom = 0, rows-1
	s.resetTabStops()
	return s
}

func clampSize(rows, cols int) (int, int) {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return rows, cols
}

// Size returns the viewport geometry.
func (s *Screen) Size() (rows, cols int) {
	return s.rows, s.cols
}

// Cursor returns the cursor column and row within the viewport.
func (s *Screen) Cursor() (x, y int) {
	return s.cx, s.cy
}

// CursorVisible reports the DECTCEM state.
func (s *Screen) CursorVisible() bool {
	return s.cursorVisible
}

// Pen returns the rendition applied to the next written character.
func (s *Screen) Pen() Style {
	return s.pen
}

// HistoryLen returns the number of rows held in scrollback.
func (s *Screen) HistoryLen() int {
	return s.history.len()
}

// HistoryLimit returns the scrollback capacity.
func (s *Screen) HistoryLimit() int {
	return s.history.capacity()
}

// Viewport returns a copy of the visible rows, top to bottom.
func (s *Screen) Viewport() []Row {
	out := make([]Row, len(s.grid))
	for i, r := range s.grid {
		out[i] = r.Clone()
	}
	return out
}

// History returns a copy of the scrollback rows, oldest first.
func (s *Screen) History() []Row {
	out := make([]Row, s.history.len())
	for i := range out {
		out[i] = s.history.at(i).Clone()
	}
	return out
}

// Buffer returns a copy of the combined buffer: scrollback oldest to
// newest, then the viewport top to bottom.
func (s *Screen) Buffer() []Row {
	out := make([]Row, 0, s.history.len()+len(s.grid))
	for i := 0; i < s.history.len(); i++ {
		out = append(out, s.history.at(i).Clone())
	}
	for _, r := range s.grid {
		out = append(out, r.Clone())
	}
	return out
}

// Cell returns the cell at row, col of the combined buffer.
func (s *Screen) Cell(row, col int) (Cell, bool) {
	if row < 0 || col < 0 || col >= s.cols {
		return Cell{}, false
	}
	n := s.history.len()
	if row < n {
		return s.history.at(row)[col], true
	}
	row -= n
	if row >= len(s.grid) {
		return Cell{}, false
	}
	return s.grid[row][col], true
}

// Text returns the combined buffer as text, one line per row with
// trailing whitespace removed.
func (s *Screen) Text() string {
	var b strings.Builder
	for i := 0; i < s.history.len(); i++ {
		b.WriteString(s.history.at(i).TrimmedString())
		b.WriteByte('\n')
	}
	for i, r := range s.grid {
		b.WriteString(r.TrimmedString())
		if i < len(s.grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// TakeReplies returns and clears the bytes the screen wants written back
// to the program, such as cursor position reports.
func (s *Screen) TakeReplies() []byte {
	if len(s.replies) == 0 {
		return nil
	}
	out := s.replies
	s.replies = nil
	return out
}

// Resize changes the viewport geometry. Every row, including scrollback,
// is truncated or padded to the new width. When rows are removed, rows
// below the cursor go first and the rest move into scrollback; new rows
// are blank. Resizing to the current geometry is a no-op.
func (s *Screen) Resize(rows, cols int) {
	rows, cols = clampSize(rows, cols)
	if rows == s.rows && cols == s.cols {
		return
	}

	if cols != s.cols {
		for i := range s.grid {
			s.grid[i] = s.grid[i].resized(cols)
		}
		for i := 0; i < s.history.len(); i++ {
			s.history.set(i, s.history.at(i).resized(cols))
		}
	}

	switch {
	case rows < len(s.grid):
		excess := len(s.grid) - rows
		below := len(s.grid) - 1 - s.cy
		drop := min(excess, below)
		s.grid = s.grid[:len(s.grid)-drop]
		for excess -= drop; excess > 0; excess-- {
			s.history.push(s.grid[0])
			s.grid = s.grid[1:]
			s.cy--
		}
		s.grid = append([]Row(nil), s.grid...)
	case rows > len(s.grid):
		for len(s.grid) < rows {
			s.grid = append(s.grid, blankRow(cols, DefaultColor))
		}
	}

	s.rows, s.cols = rows, cols
	s.top, s.bottom = 0, rows-1
	s.resetTabStops()
	s.wrapNext = false
	s.cx = clamp(s.cx, 0, cols-1)
	s.cy = clamp(s.cy, 0, rows-1)
	s.savedX = clamp(s.savedX, 0, cols-1)
	s.savedY = clamp(s.savedY, 0, rows-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *Screen) resetTabStops() {
	s.tabStops = make([]bool, s.cols)
	for i := 0; i < s.cols; i += 8 {
		s.tabStops[i] = true
	}
}

// print writes r at the cursor and advances it, wrapping onto the next
// line when the previous character filled the last column.
func (s *Screen) print(r rune) {
	w := widths.RuneWidth(r)
	if w == 0 {
		s.combine(r)
		return
	}
	if w > 1 && s.cols < 2 {
		w = 1
	}

	if s.wrapNext {
		s.wrapNext = false
		s.cx = 0
		s.lineFeed()
	}
	if w == 2 && s.cx == s.cols-1 {
		if !s.autowrap {
			return
		}
		s.grid[s.cy][s.cx] = Blank(s.pen.BG)
		s.cx = 0
		s.lineFeed()
	}

	row := s.grid[s.cy]
	s.clearWideAt(row, s.cx)
	if w == 2 {
		s.clearWideAt(row, s.cx+1)
	}
	row[s.cx] = Cell{Char: r, Style: s.pen}
	if w == 2 {
		row[s.cx+1] = Cell{Char: 0, Style: s.pen}
	}

	if s.cx+w >= s.cols {
		s.cx = s.cols - 1
		s.wrapNext = s.autowrap
	} else {
		s.cx += w
	}
}

// combine attaches a zero-width rune to the character before the cursor.
// With nothing before the cursor on the line, the rune is dropped.
func (s *Screen) combine(r rune) {
	col := s.cx - 1
	if s.wrapNext {
		col = s.cx
	}
	row := s.grid[s.cy]
	if col > 0 && row[col].Continuation() {
		col--
	}
	if col < 0 || row[col].Continuation() {
		return
	}
	row[col].Comb += string(r)
}

// clearWideAt blanks the other half of a wide character occupying col.
func (s *Screen) clearWideAt(row Row, col int) {
	if col >= len(row) {
		return
	}
	if row[col].Continuation() && col > 0 {
		row[col-1] = Blank(row[col-1].BG)
	}
	if col+1 < len(row) && row[col+1].Continuation() {
		row[col+1] = Blank(row[col+1].BG)
	}
}

func (s *Screen) carriageReturn() {
	s.cx = 0
	s.wrapNext = false
}

func (s *Screen) backspace() {
	if s.cx > 0 {
		s.cx--
	}
	s.wrapNext = false
}

func (s *Screen) tab() {
	x := s.cx + 1
	for x < s.cols-1 && !s.tabStops[x] {
		x++
	}
	s.cx = min(x, s.cols-1)
}

// lineFeed moves down one row, scrolling the region when the cursor sits
// on its bottom margin.
func (s *Screen) lineFeed() {
	s.wrapNext = false
	s.index()
}

func (s *Screen) index() {
	if s.cy == s.bottom {
		s.scrollUp(1)
		return
	}
	if s.cy < s.rows-1 {
		s.cy++
	}
}

func (s *Screen) reverseIndex() {
	s.wrapNext = false
	if s.cy == s.top {
		s.scrollDown(1)
		return
	}
	if s.cy > 0 {
		s.cy--
	}
}

// scrollUp shifts the scroll region up by n rows. Rows leaving the top of
// the screen are appended to scrollback exactly once.
func (s *Screen) scrollUp(n int) {
	height := s.bottom - s.top + 1
	n = min(n, height)
	for ; n > 0; n-- {
		evicted := s.grid[s.top]
		copy(s.grid[s.top:s.bottom], s.grid[s.top+1:s.bottom+1])
		s.grid[s.bottom] = blankRow(s.cols, s.pen.BG)
		if s.top == 0 {
			s.history.push(evicted)
		}
	}
}

func (s *Screen) scrollDown(n int) {
	height := s.bottom - s.top + 1
	n = min(n, height)
	for ; n > 0; n-- {
		copy(s.grid[s.top+1:s.bottom+1], s.grid[s.top:s.bottom])
		s.grid[s.top] = blankRow(s.cols, s.pen.BG)
	}
}

func (s *Screen) saveCursor() {
	s.savedX, s.savedY = s.cx, s.cy
	s.savedPen = s.pen
}

func (s *Screen) restoreCursor() {
	s.cx = clamp(s.savedX, 0, s.cols-1)
	s.cy = clamp(s.savedY, 0, s.rows-1)
	s.pen = s.savedPen
	s.wrapNext = false
}

func (s *Screen) moveTo(x, y int) {
	s.cx = clamp(x, 0, s.cols-1)
	s.cy = clamp(y, 0, s.rows-1)
	s.wrapNext = false
}

// reset performs RIS. Scrollback is kept.
func (s *Screen) reset() {
	for i := range s.grid {
		s.grid[i] = blankRow(s.cols, DefaultColor)
	}
	s.cx, s.cy = 0, 0
	s.wrapNext = false
	s.pen = DefaultStyle()
	s.savedX, s.savedY = 0, 0
	s.savedPen = DefaultStyle()
	s.top, s.bottom = 0, s.rows-1
	s.autowrap = true
	s.cursorVisible = true
	s.resetTabStops()
}

// alignmentTest fills the screen with 'E' (DECALN).
func (s *Screen) alignmentTest() {
	for _, row := range s.grid {
		for i := range row {
			row[i] = Cell{Char: 'E', Style: DefaultStyle()}
		}
	}
	s.moveTo(0, 0)
}
