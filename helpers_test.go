package curtain

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeTB records fatal failures instead of stopping the test, so failure
// messages can be inspected.
type fakeTB struct {
	testing.TB

	mu     sync.Mutex
	failed bool
	msgs   []string
}

func newFakeTB(t *testing.T) *fakeTB {
	return &fakeTB{TB: t}
}

func (f *fakeTB) Helper() {}

func (f *fakeTB) Fatalf(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = true
	f.msgs = append(f.msgs, fmt.Sprintf(format, args...))
}

func (f *fakeTB) Failed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failed
}

func (f *fakeTB) Failures() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

func (f *fakeTB) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.msgs) == 0 {
		return ""
	}
	return f.msgs[len(f.msgs)-1]
}

// fedTerminal returns an unstarted terminal whose screen has been fed
// chunks as if a program had printed them.
func fedTerminal(width, height int, chunks ...string) *Terminal {
	term := New("unused",
		WithSize(width, height),
		WithTimeout(200*time.Millisecond),
		WithPollInterval(10*time.Millisecond),
	)
	feedTerminal(term, chunks...)
	return term
}

func feedTerminal(term *Terminal, chunks ...string) {
	for _, c := range chunks {
		term.handleOutput([]byte(c))
	}
}
