package curtain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/shlex"

	"github.com/cboone/curtain/internal/ptyproc"
	"github.com/cboone/curtain/internal/vt"
)

// Cell, Row, Style and Color describe screen content as the emulator
// stores it.
type (
	Cell  = vt.Cell
	Row   = vt.Row
	Style = vt.Style
	Color = vt.Color
)

// State is the lifecycle stage of a Terminal.
type State int

const (
	StateCreated State = iota
	StateRunning
	StateExited
	StateKilled
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	case StateKilled:
		return "killed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Position is a zero-based row and column.
type Position struct {
	Row, Col int
}

// Terminal is a command running on a pseudo-terminal together with the
// emulated screen its output draws. A background reader feeds the screen;
// every read accessor returns a copy taken under the session lock, so
// callers always see a consistent point in time.
type Terminal struct {
	command string
	argv    []string
	opts    options
	logger  *slog.Logger

	// mu guards screen. It is never held across blocking I/O.
	mu     sync.Mutex
	screen *vt.Screen

	// lifeMu guards state and proc.
	lifeMu sync.Mutex
	state  State
	proc   *ptyproc.Process
}

// New prepares a terminal for command without starting it. The command
// string is split with shell word rules; WithArgs appends to the result.
func New(command string, opts ...Option) *Terminal {
	term := newTerminal(opts)
	term.command = command
	return term
}

// NewCommand is like New but takes the program and its arguments as an
// argv slice, with no splitting.
func NewCommand(argv []string, opts ...Option) *Terminal {
	term := newTerminal(opts)
	term.argv = append([]string(nil), argv...)
	return term
}

func newTerminal(userOpts []Option) *Terminal {
	opts := defaultOptions()
	for _, o := range userOpts {
		o(&opts)
	}
	if opts.width < 1 {
		opts.width = defaultWidth
	}
	if opts.height < 1 {
		opts.height = defaultHeight
	}
	opts.width = min(opts.width, maxDimension)
	opts.height = min(opts.height, maxDimension)
	if opts.historyLimit < 0 {
		opts.historyLimit = 0
	}
	logger := opts.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Terminal{
		opts:   opts,
		logger: logger,
		screen: vt.New(opts.height, opts.width, opts.historyLimit),
	}
}

// Open creates and starts a terminal for the duration of a test. The
// process is killed by t.Cleanup; a spawn failure fails the test.
func Open(t testing.TB, command string, opts ...Option) *Terminal {
	t.Helper()
	term := New(command, opts...)
	if err := term.Start(); err != nil {
		t.Fatalf("%v", err)
	}
	t.Cleanup(term.Kill)
	return term
}

func (term *Terminal) resolveArgv() ([]string, error) {
	argv := term.argv
	if argv == nil {
		words, err := shlex.Split(term.command)
		if err != nil {
			return nil, err
		}
		argv = words
	}
	argv = append(append([]string(nil), argv...), term.opts.args...)
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}
	return argv, nil
}

// Start spawns the command. Failures are returned as *SpawnError. A
// terminal killed before it was started cannot be started.
func (term *Terminal) Start() error {
	term.lifeMu.Lock()
	defer term.lifeMu.Unlock()
	if term.state == StateKilled && term.proc == nil {
		return fmt.Errorf("curtain: start: %w", ErrClosed)
	}
	if term.state != StateCreated {
		return fmt.Errorf("curtain: start: %w", ErrAlreadyStarted)
	}

	argv, err := term.resolveArgv()
	if err != nil {
		return &SpawnError{Command: []string{term.command}, Err: err}
	}

	proc, err := ptyproc.Start(ptyproc.Config{
		Argv:           argv,
		Env:            term.opts.env,
		Dir:            term.opts.dir,
		Rows:           uint16(term.opts.height),
		Cols:           uint16(term.opts.width),
		SuppressStderr: term.opts.suppressStderr,
		Shell:          os.Getenv(shellEnv),
		Logger:         term.logger,
	}, term.handleOutput)
	if err != nil {
		return &SpawnError{Command: argv, Err: err}
	}

	term.proc = proc
	term.state = StateRunning
	return nil
}

// handleOutput runs on the reader goroutine.
func (term *Terminal) handleOutput(p []byte) []byte {
	term.mu.Lock()
	defer term.mu.Unlock()
	term.screen.Feed(p)
	return term.screen.TakeReplies()
}

func (term *Terminal) running(op string) (*ptyproc.Process, error) {
	term.lifeMu.Lock()
	defer term.lifeMu.Unlock()
	switch term.state {
	case StateCreated:
		return nil, fmt.Errorf("curtain: %s: %w", op, ErrNotStarted)
	case StateKilled:
		return nil, fmt.Errorf("curtain: %s: %w", op, ErrClosed)
	}
	return term.proc, nil
}

// Write sends raw bytes to the program, implementing io.Writer.
func (term *Terminal) Write(p []byte) (int, error) {
	proc, err := term.running("write")
	if err != nil {
		return 0, err
	}
	n, err := proc.Write(p)
	if errors.Is(err, ptyproc.ErrClosed) {
		err = ErrClosed
	}
	if err != nil {
		return n, fmt.Errorf("curtain: write: %w", err)
	}
	return n, nil
}

// Type sends text exactly as given.
func (term *Terminal) Type(text string) error {
	_, err := term.Write([]byte(text))
	return err
}

// Submit sends text followed by a carriage return, as pressing Enter does.
func (term *Terminal) Submit(text string) error {
	return term.Type(text + string(Enter))
}

// Press sends one or more keys in order.
func (term *Terminal) Press(keys ...Key) error {
	for _, k := range keys {
		if err := term.Type(string(k)); err != nil {
			return err
		}
	}
	return nil
}

// Resize changes the terminal dimensions (columns x rows). The pty and the
// emulated screen change together under the session lock; the kernel
// sends SIGWINCH to the program.
func (term *Terminal) Resize(width, height int) error {
	if width < 1 || height < 1 || width > maxDimension || height > maxDimension {
		return fmt.Errorf("curtain: resize: invalid size %dx%d", width, height)
	}
	term.lifeMu.Lock()
	defer term.lifeMu.Unlock()

	term.mu.Lock()
	defer term.mu.Unlock()
	if term.state == StateRunning && term.proc.Alive() {
		if err := term.proc.Resize(uint16(height), uint16(width)); err != nil {
			return fmt.Errorf("curtain: resize: %w", err)
		}
	}
	term.screen.Resize(height, width)
	term.opts.width, term.opts.height = width, height
	return nil
}

// Wait blocks until the process exits or timeout elapses, returning the
// exit code. A timeout of 0 uses the terminal default. On timeout the
// error wraps ErrWaitTimeout.
func (term *Terminal) Wait(timeout time.Duration) (int, error) {
	term.lifeMu.Lock()
	proc, state := term.proc, term.state
	term.lifeMu.Unlock()
	if state == StateCreated || proc == nil {
		return 0, fmt.Errorf("curtain: wait: %w", ErrNotStarted)
	}
	if timeout <= 0 {
		timeout = term.opts.timeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	code, err := proc.Wait(ctx)
	if err != nil {
		return 0, fmt.Errorf("curtain: wait: %w after %v", ErrWaitTimeout, timeout)
	}
	return code, nil
}

// IsAlive reports whether the process is running. It never blocks on the
// process.
func (term *Terminal) IsAlive() bool {
	return term.State() == StateRunning
}

// State returns the current lifecycle stage.
func (term *Terminal) State() State {
	term.lifeMu.Lock()
	defer term.lifeMu.Unlock()
	if term.state == StateRunning && !term.proc.Alive() {
		return StateExited
	}
	return term.state
}

// ExitCode returns the exit code and true once the process has exited.
// A process ended by a signal reports 128 plus the signal number.
func (term *Terminal) ExitCode() (int, bool) {
	term.lifeMu.Lock()
	proc := term.proc
	term.lifeMu.Unlock()
	if proc == nil {
		return 0, false
	}
	return proc.ExitCode()
}

// Kill force-terminates the process, stops the reader and releases the
// pty. The screen stays readable afterwards. Kill is safe to call more
// than once, before Start, and after the process has exited.
func (term *Terminal) Kill() {
	term.lifeMu.Lock()
	proc := term.proc
	switch term.state {
	case StateCreated:
		term.state = StateKilled
	case StateRunning:
		if proc.Alive() {
			term.state = StateKilled
		} else {
			term.state = StateExited
		}
	}
	term.lifeMu.Unlock()

	if proc != nil {
		proc.Kill(killJoinTimeout)
		term.logger.Debug("terminal killed", "pid", proc.Pid())
	}
}

// Size returns the width and height.
func (term *Terminal) Size() (width, height int) {
	term.mu.Lock()
	defer term.mu.Unlock()
	rows, cols := term.screen.Size()
	return cols, rows
}

// Cursor returns the cursor position within the viewport.
func (term *Terminal) Cursor() Position {
	term.mu.Lock()
	defer term.mu.Unlock()
	x, y := term.screen.Cursor()
	return Position{Row: y, Col: x}
}

// Buffer returns a copy of the combined buffer: scrollback oldest first,
// then the viewport top to bottom.
func (term *Terminal) Buffer() []Row {
	term.mu.Lock()
	defer term.mu.Unlock()
	return term.screen.Buffer()
}

// Viewport returns a copy of the visible rows.
func (term *Terminal) Viewport() []Row {
	term.mu.Lock()
	defer term.mu.Unlock()
	return term.screen.Viewport()
}

// Text returns the combined buffer as text, one line per row with trailing
// whitespace removed.
func (term *Terminal) Text() string {
	term.mu.Lock()
	defer term.mu.Unlock()
	return term.screen.Text()
}

// CellAt returns the cell at row, col of the combined buffer.
func (term *Terminal) CellAt(row, col int) (Cell, bool) {
	term.mu.Lock()
	defer term.mu.Unlock()
	return term.screen.Cell(row, col)
}

// Screen captures the visible viewport.
func (term *Terminal) Screen() *Screen {
	term.mu.Lock()
	defer term.mu.Unlock()
	rows, cols := term.screen.Size()
	x, y := term.screen.Cursor()
	scr := newScreen(term.screen.Viewport(), cols, rows)
	scr.cursor = Position{Row: y, Col: x}
	return scr
}

// Scrollback captures the combined buffer, scrollback and viewport. The
// returned Screen's height is the number of captured rows.
func (term *Terminal) Scrollback() *Screen {
	term.mu.Lock()
	defer term.mu.Unlock()
	buf := term.screen.Buffer()
	_, cols := term.screen.Size()
	x, y := term.screen.Cursor()
	scr := newScreen(buf, cols, len(buf))
	scr.cursor = Position{Row: term.screen.HistoryLen() + y, Col: x}
	return scr
}

// Snapshot renders the visible viewport as a bordered block of text.
// Identical screen content always renders identically.
func (term *Terminal) Snapshot() string {
	return term.Screen().Render()
}

// GetByText returns a locator for literal text.
func (term *Terminal) GetByText(text string, opts ...LocatorOption) *Locator {
	return newLocator(term, text, nil, opts)
}

// GetByRegexp returns a locator for a regular expression. The pattern is
// compiled once; an invalid pattern causes a panic.
func (term *Terminal) GetByRegexp(pattern string, opts ...LocatorOption) *Locator {
	return newLocator(term, "", regexp.MustCompile(pattern), opts)
}

func (term *Terminal) String() string {
	if term.argv != nil {
		return fmt.Sprintf("%q", term.argv)
	}
	return term.command
}
