package vt

// history is a bounded ring of rows scrolled off the top of the viewport.
// When full, the oldest row is dropped first.
type history struct {
	rows  []Row
	start int
	n     int
}

func newHistory(capacity int) *history {
	if capacity < 0 {
		capacity = 0
	}
	return &history{rows: make([]Row, capacity)}
}

func (h *history) capacity() int { return len(h.rows) }

func (h *history) len() int { return h.n }

// push takes ownership of r.
func (h *history) push(r Row) {
	if len(h.rows) == 0 {
		return
	}
	if h.n < len(h.rows) {
		h.rows[(h.start+h.n)%len(h.rows)] = r
		h.n++
		return
	}
	h.rows[h.start] = r
	h.start = (h.start + 1) % len(h.rows)
}

// at returns the i-th row, oldest first.
func (h *history) at(i int) Row {
	return h.rows[(h.start+i)%len(h.rows)]
}

func (h *history) set(i int, r Row) {
	h.rows[(h.start+i)%len(h.rows)] = r
}

func (h *history) clear() {
	for i := range h.rows {
		h.rows[i] = nil
	}
	h.start, h.n = 0, 0
}
