package curtain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBeVisibleImmediate(t *testing.T) {
	term := fedTerminal(20, 3, "hello")
	ft := newFakeTB(t)

	Expect(ft, term.GetByText("hello")).ToBeVisible()
	assert.False(t, ft.Failed())
}

func TestToBeVisibleTimeoutDumpsScreen(t *testing.T) {
	term := fedTerminal(20, 3, "hello\r\nworld")
	ft := newFakeTB(t)

	start := time.Now()
	Expect(ft, term.GetByText("nope")).ToBeVisible(WithinTimeout(60 * time.Millisecond))
	elapsed := time.Since(start)

	require.True(t, ft.Failed())
	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
	msg := ft.Message()
	assert.Contains(t, msg, "curtain: to-be-visible: timed out after 60ms")
	assert.Contains(t, msg, `waiting for: text "nope" to be visible`)
	assert.Contains(t, msg, "│hello│")
	assert.Contains(t, msg, "│world│")
}

func TestToBeVisibleWaitsForOutput(t *testing.T) {
	term := fedTerminal(20, 3)
	ft := newFakeTB(t)

	go func() {
		time.Sleep(50 * time.Millisecond)
		feedTerminal(term, "arrived")
	}()
	Expect(ft, term.GetByText("arrived")).ToBeVisible(WithinTimeout(2 * time.Second))
	assert.False(t, ft.Failed(), ft.Message())
}

func TestNotToBeVisible(t *testing.T) {
	term := fedTerminal(20, 3, "loading")
	ft := newFakeTB(t)

	go func() {
		time.Sleep(30 * time.Millisecond)
		feedTerminal(term, "\r\x1b[Kdone")
	}()
	Expect(ft, term.GetByText("loading")).NotToBeVisible(WithinTimeout(2 * time.Second))
	assert.False(t, ft.Failed(), ft.Message())

	Expect(ft, term.GetByText("done")).NotToBeVisible(WithinTimeout(30 * time.Millisecond))
	require.True(t, ft.Failed())
	assert.Contains(t, ft.Message(), "curtain: not-to-be-visible: timed out")
}

func TestToHaveFgColor(t *testing.T) {
	term := fedTerminal(30, 2, "\x1b[31mred\x1b[0m \x1b[34mblue\x1b[0m \x1b[38;5;208morange\x1b[0m")

	tests := []struct {
		name    string
		text    string
		color   string
		wantErr bool
	}{
		{"canonical", "red", "red", false},
		{"alias", "red", "Dark Red", false},
		{"case", "blue", "BLUE", false},
		{"hex", "orange", "#FF8700", false},
		{"wrong color", "red", "green", true},
		{"bright is distinct", "red", "bright red", true},
		{"not on screen", "purple", "red", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := newFakeTB(t)
			Expect(ft, term.GetByText(tt.text)).ToHaveFgColor(tt.color, WithinTimeout(20*time.Millisecond))
			assert.Equal(t, tt.wantErr, ft.Failed(), ft.Message())
		})
	}
}

func TestToHaveFgColorFailureDetail(t *testing.T) {
	term := fedTerminal(20, 1, "\x1b[31mre\x1b[32md")
	ft := newFakeTB(t)

	Expect(ft, term.GetByText("red")).ToHaveFgColor("red", WithinTimeout(20*time.Millisecond))
	require.True(t, ft.Failed())
	assert.Contains(t, ft.Message(), `cell at row=0, col=2 is "green"`)

	ft = newFakeTB(t)
	Expect(ft, term.GetByText("absent")).ToHaveFgColor("red", WithinTimeout(20*time.Millisecond))
	assert.Contains(t, ft.Message(), "no matching cells")
}

func TestToHaveBgColor(t *testing.T) {
	term := fedTerminal(20, 1, "\x1b[41mwarn\x1b[0m ok")

	ft := newFakeTB(t)
	Expect(ft, term.GetByText("warn")).ToHaveBgColor("red")
	assert.False(t, ft.Failed(), ft.Message())

	Expect(ft, term.GetByText("ok")).ToHaveBgColor("red", WithinTimeout(20*time.Millisecond))
	assert.True(t, ft.Failed())
	assert.Contains(t, ft.Message(), "curtain: to-have-bg-color")
}

func TestToContainText(t *testing.T) {
	term := fedTerminal(30, 2, "version v1.2.3 ready")

	ft := newFakeTB(t)
	Expect(ft, term.GetByRegexp(`v\d+\.\d+\.\d+`)).ToContainText("1.2")
	assert.False(t, ft.Failed(), ft.Message())

	Expect(ft, term.GetByRegexp(`v\d+\.\d+\.\d+`)).ToContainText("2.0", WithinTimeout(20*time.Millisecond))
	require.True(t, ft.Failed())
	assert.Contains(t, ft.Message(), `resolved text "v1.2.3"`)
}

func TestNegativeWaitOptions(t *testing.T) {
	term := fedTerminal(10, 1, "x")

	ft := newFakeTB(t)
	start := time.Now()
	Expect(ft, term.GetByText("x")).ToBeVisible(WithinTimeout(-time.Second))
	assert.Less(t, time.Since(start), time.Second)
	assert.Contains(t, ft.Message(), "negative timeout")

	ft = newFakeTB(t)
	Expect(ft, term.GetByText("x")).ToBeVisible(WithWaitPollInterval(-time.Millisecond))
	assert.Contains(t, ft.Message(), "negative poll interval")
}

func TestInvalidTargets(t *testing.T) {
	ft := newFakeTB(t)
	Expect(ft, nil).ToBeVisible()
	require.True(t, ft.Failed())
	assert.Contains(t, ft.Message(), ErrInvalidTarget.Error())

	ft = newFakeTB(t)
	ExpectTerminal(ft, nil).ToHaveExited()
	require.True(t, ft.Failed())
	assert.Contains(t, ft.Message(), ErrInvalidTarget.Error())
}

func TestToHaveExitedNotStarted(t *testing.T) {
	term := fedTerminal(10, 1)
	ft := newFakeTB(t)

	ExpectTerminal(ft, term).ToHaveExited()
	assert.Contains(t, ft.Message(), ErrNotStarted.Error())
}

func TestToMatchSnapshotDoesNotWait(t *testing.T) {
	term := fedTerminal(4, 1, "ab")
	ft := newFakeTB(t)

	got := ExpectTerminal(ft, term).ToMatchSnapshot()
	assert.Equal(t, term.Snapshot(), got)
	assert.False(t, ft.Failed())
}

func TestAssertionErrorFormat(t *testing.T) {
	err := &AssertionError{
		Op:          "to-be-visible",
		Expectation: `text "x" to be visible`,
		Timeout:     time.Second,
		Screen:      "a\nbc",
	}
	assert.True(t, errors.Is(err, ErrAssertionTimeout))
	assert.Equal(t, "curtain: to-be-visible: timed out after 1s\n"+
		"    waiting for: text \"x\" to be visible\n"+
		"    screen:\n"+
		"    ┌──┐\n"+
		"    │a │\n"+
		"    │bc│\n"+
		"    └──┘", err.Error())

	err.Screen = ""
	err.Reason = "process did not exit within 1s"
	assert.Equal(t, "curtain: to-be-visible: process did not exit within 1s\n"+
		"    waiting for: text \"x\" to be visible", err.Error())
}

func TestWaitForNotStarted(t *testing.T) {
	term := fedTerminal(10, 1)
	_, err := term.WaitFor(Text("x"))
	assert.ErrorIs(t, err, ErrNotStarted)
}
