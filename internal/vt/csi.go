package vt

import "strconv"

func (s *Screen) dispatchCSI(final byte, params []int, private byte, inter []byte) {
	if len(inter) > 0 {
		return
	}
	if private != 0 {
		if private == '?' && (final == 'h' || final == 'l') {
			s.setPrivateModes(params, final == 'h')
		}
		return
	}

	switch final {
	case '@':
		s.insertChars(param(params, 0, 1))
	case 'A':
		s.moveTo(s.cx, max(s.cy-param(params, 0, 1), s.upperBound()))
	case 'B', 'e':
		s.moveTo(s.cx, min(s.cy+param(params, 0, 1), s.lowerBound()))
	case 'C', 'a':
		s.moveTo(s.cx+param(params, 0, 1), s.cy)
	case 'D':
		s.moveTo(s.cx-param(params, 0, 1), s.cy)
	case 'E':
		s.moveTo(0, min(s.cy+param(params, 0, 1), s.lowerBound()))
	case 'F':
		s.moveTo(0, max(s.cy-param(params, 0, 1), s.upperBound()))
	case 'G', '`':
		s.moveTo(param(params, 0, 1)-1, s.cy)
	case 'H', 'f':
		s.moveTo(param(params, 1, 1)-1, param(params, 0, 1)-1)
	case 'd':
		s.moveTo(s.cx, param(params, 0, 1)-1)
	case 'J':
		s.eraseInDisplay(param(params, 0, 0))
	case 'K':
		s.eraseInLine(param(params, 0, 0))
	case 'L':
		s.insertLines(param(params, 0, 1))
	case 'M':
		s.deleteLines(param(params, 0, 1))
	case 'P':
		s.deleteChars(param(params, 0, 1))
	case 'S':
		s.scrollUp(param(params, 0, 1))
	case 'T':
		s.scrollDown(param(params, 0, 1))
	case 'X':
		s.eraseChars(param(params, 0, 1))
	case 'g':
		s.clearTabStops(param(params, 0, 0))
	case 'm':
		s.selectGraphicRendition(params)
	case 'n':
		s.deviceStatus(param(params, 0, 0))
	case 'c':
		if param(params, 0, 0) == 0 {
			s.replies = append(s.replies, "\x1b[?1;2c"...)
		}
	case 'r':
		s.setScrollRegion(param(params, 0, 1)-1, param(params, 1, s.rows)-1)
	case 's':
		s.saveCursor()
	case 'u':
		s.restoreCursor()
	}
}

// upperBound and lowerBound keep vertical cursor motion inside the scroll
// region when the cursor starts inside it.
func (s *Screen) upperBound() int {
	if s.cy >= s.top {
		return s.top
	}
	return 0
}

func (s *Screen) lowerBound() int {
	if s.cy <= s.bottom {
		return s.bottom
	}
	return s.rows - 1
}

func (s *Screen) setPrivateModes(params []int, on bool) {
	for _, p := range params {
		switch p {
		case 7:
			s.autowrap = on
			if !on {
				s.wrapNext = false
			}
		case 25:
			s.cursorVisible = on
		}
	}
}

func (s *Screen) deviceStatus(n int) {
	switch n {
	case 5:
		s.replies = append(s.replies, "\x1b[0n"...)
	case 6:
		s.replies = append(s.replies, "\x1b["...)
		s.replies = strconv.AppendInt(s.replies, int64(s.cy+1), 10)
		s.replies = append(s.replies, ';')
		s.replies = strconv.AppendInt(s.replies, int64(s.cx+1), 10)
		s.replies = append(s.replies, 'R')
	}
}

func (s *Screen) setScrollRegion(top, bottom int) {
	bottom = min(bottom, s.rows-1)
	if top < 0 || top >= bottom {
		return
	}
	s.top, s.bottom = top, bottom
	s.moveTo(0, 0)
}

// eraseCells blanks [from, to) of row, also blanking any wide character
// cut by either edge.
func (s *Screen) eraseCells(row Row, from, to int) {
	from = clamp(from, 0, len(row))
	to = clamp(to, 0, len(row))
	if from >= to {
		return
	}
	if row[from].Continuation() && from > 0 {
		row[from-1] = Blank(s.pen.BG)
	}
	if to < len(row) && row[to].Continuation() {
		row[to] = Blank(s.pen.BG)
	}
	for i := from; i < to; i++ {
		row[i] = Blank(s.pen.BG)
	}
}

func (s *Screen) eraseInLine(mode int) {
	row := s.grid[s.cy]
	switch mode {
	case 0:
		s.eraseCells(row, s.cx, s.cols)
	case 1:
		s.eraseCells(row, 0, s.cx+1)
	case 2:
		s.eraseCells(row, 0, s.cols)
	}
	s.wrapNext = false
}

func (s *Screen) eraseInDisplay(mode int) {
	switch mode {
	case 0:
		s.eraseCells(s.grid[s.cy], s.cx, s.cols)
		for y := s.cy + 1; y < s.rows; y++ {
			s.eraseCells(s.grid[y], 0, s.cols)
		}
	case 1:
		for y := 0; y < s.cy; y++ {
			s.eraseCells(s.grid[y], 0, s.cols)
		}
		s.eraseCells(s.grid[s.cy], 0, s.cx+1)
	case 2:
		for y := range s.grid {
			s.eraseCells(s.grid[y], 0, s.cols)
		}
	case 3:
		s.history.clear()
	}
	s.wrapNext = false
}

func (s *Screen) eraseChars(n int) {
	s.eraseCells(s.grid[s.cy], s.cx, s.cx+n)
	s.wrapNext = false
}

func (s *Screen) insertChars(n int) {
	row := s.grid[s.cy]
	n = min(n, s.cols-s.cx)
	s.clearWideAt(row, s.cx)
	copy(row[s.cx+n:], row[s.cx:s.cols-n])
	for i := s.cx; i < s.cx+n; i++ {
		row[i] = Blank(s.pen.BG)
	}
	// A wide character pushed against the edge has lost its right half.
	if last := s.cols - 1; widths.RuneWidth(row[last].Char) == 2 {
		row[last] = Blank(s.pen.BG)
	}
	s.wrapNext = false
}

func (s *Screen) deleteChars(n int) {
	row := s.grid[s.cy]
	n = min(n, s.cols-s.cx)
	s.clearWideAt(row, s.cx)
	if s.cx+n < s.cols && row[s.cx+n].Continuation() {
		row[s.cx+n] = Blank(s.pen.BG)
	}
	copy(row[s.cx:], row[s.cx+n:])
	for i := s.cols - n; i < s.cols; i++ {
		row[i] = Blank(s.pen.BG)
	}
	s.wrapNext = false
}

func (s *Screen) insertLines(n int) {
	if s.cy < s.top || s.cy > s.bottom {
		return
	}
	n = min(n, s.bottom-s.cy+1)
	copy(s.grid[s.cy+n:s.bottom+1], s.grid[s.cy:s.bottom+1-n])
	for y := s.cy; y < s.cy+n; y++ {
		s.grid[y] = blankRow(s.cols, s.pen.BG)
	}
	s.cx = 0
	s.wrapNext = false
}

func (s *Screen) deleteLines(n int) {
	if s.cy < s.top || s.cy > s.bottom {
		return
	}
	n = min(n, s.bottom-s.cy+1)
	copy(s.grid[s.cy:s.bottom+1-n], s.grid[s.cy+n:s.bottom+1])
	for y := s.bottom + 1 - n; y <= s.bottom; y++ {
		s.grid[y] = blankRow(s.cols, s.pen.BG)
	}
	s.cx = 0
	s.wrapNext = false
}

func (s *Screen) clearTabStops(mode int) {
	switch mode {
	case 0:
		s.tabStops[s.cx] = false
	case 3:
		for i := range s.tabStops {
			s.tabStops[i] = false
		}
	}
}
