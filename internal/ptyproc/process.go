// Package ptyproc runs a child process attached to a pseudo-terminal and
// streams its output to a handler from a background reader. It is internal
// to the curtain package.
package ptyproc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

const (
	// readPollInterval bounds how long a single read blocks, so the reader
	// notices a stop request promptly.
	readPollInterval = 50 * time.Millisecond

	// drainTimeout bounds how long Wait lingers for trailing output after
	// the child has exited.
	drainTimeout = time.Second

	defaultShell = "/bin/sh"
)

// ErrClosed is returned when writing to or resizing a process whose
// terminal has been closed.
var ErrClosed = errors.New("pty closed")

// Handler receives each chunk of terminal output, in order, on the reader
// goroutine. The slice is only valid for the duration of the call. Any
// bytes it returns are written back to the terminal as input, which is how
// the emulator answers status queries.
type Handler func(p []byte) []byte

// Config describes the process to start.
type Config struct {
	Argv           []string
	Env            []string
	Dir            string
	Rows, Cols     uint16
	SuppressStderr bool
	Shell          string
	Logger         *slog.Logger
}

// Process is a running child attached to the master side of a pty.
type Process struct {
	cmd     *exec.Cmd
	ptm     *os.File
	handler Handler
	logger  *slog.Logger

	writeMu sync.Mutex
	closed  bool

	stop       chan struct{}
	readerDone chan struct{}
	exited     chan struct{}
	exitCode   int

	killOnce sync.Once
}

// Start launches cfg.Argv on a new pty sized cfg.Rows x cfg.Cols and
// begins streaming output to handler.
func Start(cfg Config, handler Handler) (*Process, error) {
	if len(cfg.Argv) == 0 || cfg.Argv[0] == "" {
		return nil, &Error{Op: "start", Err: errors.New("empty command")}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	path, err := exec.LookPath(cfg.Argv[0])
	if err != nil {
		return nil, &Error{Op: "start", Args: cfg.Argv, Err: err}
	}

	argv := append([]string{path}, cfg.Argv[1:]...)
	if cfg.SuppressStderr {
		argv = wrapSuppressStderr(cfg.Shell, argv)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = BuildEnv(cfg.Env, cfg.Rows, cfg.Cols)

	ptm, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: cfg.Rows, Cols: cfg.Cols})
	if err != nil {
		return nil, &Error{Op: "start", Args: cfg.Argv, Err: err}
	}

	p := &Process{
		cmd:        cmd,
		ptm:        ptm,
		handler:    handler,
		logger:     logger,
		stop:       make(chan struct{}),
		readerDone: make(chan struct{}),
		exited:     make(chan struct{}),
	}
	logger.Debug("process started", "pid", cmd.Process.Pid, "argv", argv, "rows", cfg.Rows, "cols", cfg.Cols)

	go p.readLoop()
	go p.waitLoop()
	return p, nil
}

// BuildEnv returns the child environment: the current environment, then
// the terminal hints, then extra. Later entries win.
func BuildEnv(extra []string, rows, cols uint16) []string {
	env := append([]string(nil), os.Environ()...)
	env = append(env,
		"TERM=xterm-256color",
		"COLUMNS="+strconv.Itoa(int(cols)),
		"LINES="+strconv.Itoa(int(rows)),
	)
	return append(env, extra...)
}

// wrapSuppressStderr runs argv through a shell that points its stderr at
// /dev/null before exec'ing it. "$0" and "$@" carry the arguments through
// without any quoting.
func wrapSuppressStderr(shell string, argv []string) []string {
	if shell == "" {
		shell = defaultShell
	}
	return append([]string{shell, "-c", `exec "$0" "$@" 2>/dev/null`}, argv...)
}

// Pid returns the child's process id.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Write sends input to the child.
func (p *Process) Write(b []byte) (int, error) {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	if p.closed {
		return 0, ErrClosed
	}
	n, err := p.ptm.Write(b)
	if err != nil {
		return n, &Error{Op: "write", Err: err}
	}
	return n, nil
}

// Resize changes the pty window size. The kernel delivers SIGWINCH to the
// child's foreground process group.
func (p *Process) Resize(rows, cols uint16) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if err := pty.Setsize(p.ptm, &pty.Winsize{Rows: rows, Cols: cols}); err != nil {
		return &Error{Op: "resize", Err: err}
	}
	p.logger.Debug("pty resized", "rows", rows, "cols", cols)
	return nil
}

// Done is closed once the child has exited and been reaped.
func (p *Process) Done() <-chan struct{} {
	return p.exited
}

// ReaderDone is closed once the background reader has stopped.
func (p *Process) ReaderDone() <-chan struct{} {
	return p.readerDone
}

// Alive reports whether the child has not yet exited.
func (p *Process) Alive() bool {
	select {
	case <-p.exited:
		return false
	default:
		return true
	}
}

// ExitCode returns the exit code and true once the child has exited. A
// child killed by a signal reports 128 plus the signal number.
func (p *Process) ExitCode() (int, bool) {
	select {
	case <-p.exited:
		return p.exitCode, true
	default:
		return 0, false
	}
}

// Wait blocks until the child exits or ctx is done. After exit it gives the
// reader a short grace period to deliver trailing output.
func (p *Process) Wait(ctx context.Context) (int, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-p.exited:
	}
	select {
	case <-p.readerDone:
	case <-ctx.Done():
	case <-time.After(drainTimeout):
	}
	return p.exitCode, nil
}

// Kill stops the reader, sends SIGKILL to the child's process group, waits
// up to joinTimeout for the reader to finish and closes the pty. It is safe
// to call more than once and after the child has exited.
func (p *Process) Kill(joinTimeout time.Duration) {
	p.killOnce.Do(func() {
		close(p.stop)

		if p.Alive() {
			pid := p.cmd.Process.Pid
			if err := unix.Kill(-pid, unix.SIGKILL); err != nil {
				p.logger.Debug("kill process group failed", "pid", pid, "error", err)
				_ = p.cmd.Process.Kill()
			}
		}

		select {
		case <-p.readerDone:
		case <-time.After(joinTimeout):
			p.logger.Debug("reader did not stop in time", "timeout", joinTimeout)
		}

		p.writeMu.Lock()
		p.closed = true
		err := p.ptm.Close()
		p.writeMu.Unlock()
		if err != nil {
			p.logger.Debug("closing pty failed", "error", err)
		}

		select {
		case <-p.exited:
		case <-time.After(joinTimeout):
			p.logger.Debug("process did not exit in time", "timeout", joinTimeout)
		}
	})
}

func (p *Process) readLoop() {
	defer close(p.readerDone)
	buf := make([]byte, 32*1024)
	deadlines := true

	for {
		select {
		case <-p.stop:
			return
		default:
		}

		if deadlines {
			if err := p.ptm.SetReadDeadline(time.Now().Add(readPollInterval)); err != nil {
				p.logger.Debug("read deadlines unsupported, falling back to blocking reads", "error", err)
				deadlines = false
			}
		}

		n, err := p.ptm.Read(buf)
		if n > 0 && p.handler != nil {
			if reply := p.handler(buf[:n]); len(reply) > 0 {
				if _, werr := p.Write(reply); werr != nil {
					p.logger.Debug("writing terminal reply failed", "error", werr)
				}
			}
		}
		if err == nil {
			continue
		}
		switch {
		case errors.Is(err, os.ErrDeadlineExceeded):
			continue
		case errors.Is(err, io.EOF), errors.Is(err, syscall.EIO), errors.Is(err, os.ErrClosed):
			p.logger.Debug("pty reader finished", "reason", err)
		default:
			p.logger.Debug("pty read failed", "error", err)
		}
		return
	}
}

func (p *Process) waitLoop() {
	err := p.cmd.Wait()
	code := 0
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			code = 128 + int(ws.Signal())
		} else {
			code = exitErr.ExitCode()
		}
	case err != nil:
		code = -1
	}
	p.exitCode = code
	p.logger.Debug("process exited", "pid", p.cmd.Process.Pid, "code", code)
	close(p.exited)
}

// Error represents a pty operation failure.
type Error struct {
	Op   string
	Args []string
	Err  error
}

func (e *Error) Error() string {
	if len(e.Args) > 0 {
		return fmt.Sprintf("pty %s %q failed: %v", e.Op, e.Args, e.Err)
	}
	return fmt.Sprintf("pty %s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
