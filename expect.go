package curtain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cboone/curtain/internal/vt"
)

const failureCaptureHistory = 3

// poll evaluates check until it succeeds or the timeout elapses. The
// deadline is fixed on the monotonic clock when poll is called, and check
// always runs at least once. A check may return a detail describing why it
// last failed. When dump is set, the failure carries the combined screen
// text.
func (term *Terminal) poll(op, expectation string, wopts []WaitOption, dump bool, check func() (bool, string)) error {
	timeout, interval, err := term.opts.resolve(wopts)
	if err != nil {
		return fmt.Errorf("curtain: %s: %w", op, err)
	}

	deadline := time.Now().Add(timeout)
	for {
		ok, detail := check()
		if ok {
			return nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			aerr := &AssertionError{Op: op, Expectation: expectation, Timeout: timeout}
			if detail != "" {
				aerr.Expectation += " (" + detail + ")"
			}
			if dump {
				aerr.Screen = term.Text()
			}
			return aerr
		}
		time.Sleep(min(interval, remaining))
	}
}

// LocatorAssertions are auto-waiting assertions about a Locator. Each
// assertion polls until it holds or its timeout elapses, then fails the
// test with the current screen.
type LocatorAssertions struct {
	t   testing.TB
	loc *Locator
}

// Expect starts assertions about loc.
func Expect(t testing.TB, loc *Locator) *LocatorAssertions {
	t.Helper()
	a := &LocatorAssertions{t: t, loc: loc}
	a.valid()
	return a
}

func (a *LocatorAssertions) valid() bool {
	a.t.Helper()
	if a.loc == nil || a.loc.term == nil {
		a.t.Fatalf("curtain: expect: %v: want a locator from Terminal.GetByText or Terminal.GetByRegexp", ErrInvalidTarget)
		return false
	}
	return true
}

func (a *LocatorAssertions) run(op, expectation string, wopts []WaitOption, check func() (bool, string)) {
	a.t.Helper()
	if !a.valid() {
		return
	}
	if err := a.loc.term.poll(op, expectation, wopts, true, check); err != nil {
		a.t.Fatalf("%v", err)
	}
}

// ToBeVisible waits until the locator matches somewhere in the combined
// buffer.
func (a *LocatorAssertions) ToBeVisible(wopts ...WaitOption) {
	a.t.Helper()
	a.run("to-be-visible", fmt.Sprintf("%v to be visible", a.loc), wopts, func() (bool, string) {
		return a.loc.IsVisible(), ""
	})
}

// NotToBeVisible waits until the locator matches nowhere.
func (a *LocatorAssertions) NotToBeVisible(wopts ...WaitOption) {
	a.t.Helper()
	a.run("not-to-be-visible", fmt.Sprintf("%v not to be visible", a.loc), wopts, func() (bool, string) {
		return !a.loc.IsVisible(), ""
	})
}

// ToHaveFgColor waits until the locator matches and every matched cell
// has the given foreground color. Color names ignore case and whitespace
// and accept aliases such as "dark red"; hex values match 256-color and
// true-color cells.
func (a *LocatorAssertions) ToHaveFgColor(color string, wopts ...WaitOption) {
	a.t.Helper()
	a.run("to-have-fg-color", fmt.Sprintf("%v to have foreground %q", a.loc, color), wopts, func() (bool, string) {
		return a.checkColor(color, func(c Cell) Color { return c.FG })
	})
}

// ToHaveBgColor is ToHaveFgColor for the background color.
func (a *LocatorAssertions) ToHaveBgColor(color string, wopts ...WaitOption) {
	a.t.Helper()
	a.run("to-have-bg-color", fmt.Sprintf("%v to have background %q", a.loc, color), wopts, func() (bool, string) {
		return a.checkColor(color, func(c Cell) Color { return c.BG })
	})
}

func (a *LocatorAssertions) checkColor(color string, attr func(Cell) Color) (bool, string) {
	buf := a.loc.term.Buffer()
	cells := a.loc.cellsIn(buf)
	if len(cells) == 0 {
		return false, "no matching cells"
	}
	for _, m := range cells {
		if got := attr(buf[m.Row][m.Col]); !vt.Matches(got, color) {
			return false, fmt.Sprintf("cell at row=%d, col=%d is %q", m.Row, m.Col, got)
		}
	}
	return true, ""
}

// ToContainText waits until the locator's resolved text contains text.
func (a *LocatorAssertions) ToContainText(text string, wopts ...WaitOption) {
	a.t.Helper()
	a.run("to-contain-text", fmt.Sprintf("%v to contain %q", a.loc, text), wopts, func() (bool, string) {
		got := a.loc.Text()
		return strings.Contains(got, text), fmt.Sprintf("resolved text %q", got)
	})
}

// TerminalAssertions are assertions about a whole Terminal.
type TerminalAssertions struct {
	t    testing.TB
	term *Terminal
}

// ExpectTerminal starts assertions about term.
func ExpectTerminal(t testing.TB, term *Terminal) *TerminalAssertions {
	t.Helper()
	a := &TerminalAssertions{t: t, term: term}
	a.valid()
	return a
}

func (a *TerminalAssertions) valid() bool {
	a.t.Helper()
	if a.term == nil {
		a.t.Fatalf("curtain: expect: %v: want a terminal", ErrInvalidTarget)
		return false
	}
	return true
}

// ToHaveExited waits until the process is no longer running. The failure
// message does not include the screen.
func (a *TerminalAssertions) ToHaveExited(wopts ...WaitOption) {
	a.t.Helper()
	if !a.valid() {
		return
	}
	if a.term.State() == StateCreated {
		a.t.Fatalf("curtain: to-have-exited: %v", ErrNotStarted)
		return
	}
	err := a.term.poll("to-have-exited", "process to exit", wopts, false, func() (bool, string) {
		return !a.term.IsAlive(), ""
	})
	var aerr *AssertionError
	if errors.As(err, &aerr) {
		aerr.Reason = fmt.Sprintf("process did not exit within %v", aerr.Timeout)
	}
	if err != nil {
		a.t.Fatalf("%v", err)
	}
}

// ToHaveExitCode waits until the process exits with code.
func (a *TerminalAssertions) ToHaveExitCode(code int, wopts ...WaitOption) {
	a.t.Helper()
	a.ToHaveExited(wopts...)
	if got, ok := a.term.ExitCode(); ok && got != code {
		a.t.Fatalf("curtain: to-have-exit-code: process exited with %d, want %d", got, code)
	}
}

// ToMatchSnapshot returns the rendered viewport for comparison. It does
// not wait.
func (a *TerminalAssertions) ToMatchSnapshot() string {
	a.t.Helper()
	if !a.valid() {
		return ""
	}
	return a.term.Snapshot()
}

// MatchSnapshot compares the rendered viewport against a golden file. See
// Screen.MatchSnapshot.
func (a *TerminalAssertions) MatchSnapshot(name string) {
	a.t.Helper()
	if !a.valid() {
		return
	}
	a.term.Screen().MatchSnapshot(a.t, name)
}

// WaitFor polls the viewport until the matcher succeeds, returning the
// matching Screen. It fails early if the process exits without the
// matcher succeeding.
func (a *TerminalAssertions) WaitFor(m Matcher, wopts ...WaitOption) *Screen {
	a.t.Helper()
	if !a.valid() {
		return nil
	}
	scr, err := a.term.WaitFor(m, wopts...)
	if err != nil {
		a.t.Fatalf("%v", err)
	}
	return scr
}

// WaitFor polls the viewport until the matcher succeeds or the timeout
// expires. Failures list the most recent captures.
func (term *Terminal) WaitFor(m Matcher, wopts ...WaitOption) (*Screen, error) {
	timeout, interval, err := term.opts.resolve(wopts)
	if err != nil {
		return nil, fmt.Errorf("curtain: wait-for: %w", err)
	}
	if term.State() == StateCreated {
		return nil, fmt.Errorf("curtain: wait-for: %w", ErrNotStarted)
	}

	deadline := time.Now().Add(timeout)
	lastDesc := "matcher condition"
	recentScreens := make([]*Screen, 0, failureCaptureHistory)

	for {
		alive := term.IsAlive()
		if !alive {
			// Let the reader deliver any trailing output first.
			_, _ = term.Wait(time.Second)
		}

		scr := term.Screen()
		recentScreens = appendRecentScreens(recentScreens, scr, failureCaptureHistory)
		ok, desc := m(scr)
		lastDesc = desc
		if ok {
			return scr, nil
		}

		if !alive {
			code, _ := term.ExitCode()
			return nil, fmt.Errorf("curtain: wait-for: process exited unexpectedly (status %d)\n    waiting for: %s\n    recent screen captures (oldest to newest):\n%s",
				code, lastDesc, formatRecentScreens(recentScreens))
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("curtain: wait-for: %w after %v\n    waiting for: %s\n    recent screen captures (oldest to newest):\n%s",
				ErrAssertionTimeout, timeout, lastDesc, formatRecentScreens(recentScreens))
		}
		time.Sleep(min(interval, remaining))
	}
}
