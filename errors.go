package curtain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotStarted is returned by operations that need a running process
	// when Start has not been called.
	ErrNotStarted = errors.New("terminal not started")

	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("terminal already started")

	// ErrClosed is returned when sending input to a killed terminal.
	ErrClosed = errors.New("terminal closed")

	// ErrWaitTimeout is returned by Wait when the process is still running
	// after the timeout.
	ErrWaitTimeout = errors.New("process still running")

	// ErrAssertionTimeout is wrapped by every AssertionError.
	ErrAssertionTimeout = errors.New("assertion timed out")

	// ErrInvalidTarget is reported when an assertion is made against a
	// missing target.
	ErrInvalidTarget = errors.New("invalid assertion target")
)

// SpawnError reports that the command could not be launched.
type SpawnError struct {
	Command []string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("curtain: start %q: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// AssertionError reports a polling assertion that did not succeed before
// its deadline. Screen holds the combined screen text at the time of the
// last check, or is empty for assertions that do not dump the screen.
type AssertionError struct {
	Op          string
	Expectation string
	Timeout     time.Duration
	Reason      string
	Screen      string
}

func (e *AssertionError) Error() string {
	var b strings.Builder
	reason := e.Reason
	if reason == "" {
		reason = fmt.Sprintf("timed out after %v", e.Timeout)
	}
	fmt.Fprintf(&b, "curtain: %s: %s\n    waiting for: %s", e.Op, reason, e.Expectation)
	if e.Screen != "" {
		fmt.Fprintf(&b, "\n    screen:\n%s", formatTextBox(e.Screen))
	}
	return b.String()
}

func (e *AssertionError) Unwrap() error {
	return ErrAssertionTimeout
}
