package curtain

import (
	"fmt"
	"log/slog"
	"math"
	"time"
)

type options struct {
	args           []string
	width          int
	height         int
	env            []string
	dir            string
	timeout        time.Duration
	pollInterval   time.Duration
	historyLimit   int
	suppressStderr bool
	logger         *slog.Logger
}

// Option configures a Terminal created by New or Open.
type Option func(*options)

// WithArgs appends arguments after those parsed from the command string.
func WithArgs(args ...string) Option {
	return func(o *options) {
		o.args = append(o.args, args...)
	}
}

// WithSize sets the terminal dimensions (columns x rows). Dimensions
// above 65535 are clamped.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// WithEnv appends environment variables to the process environment.
// Each entry should be in "KEY=VALUE" format. Entries override both the
// inherited environment and the TERM, COLUMNS and LINES hints.
func WithEnv(env ...string) Option {
	return func(o *options) {
		o.env = append(o.env, env...)
	}
}

// WithDir sets the working directory for the command.
func WithDir(dir string) Option {
	return func(o *options) {
		o.dir = dir
	}
}

// WithTimeout sets the default timeout for assertions and Wait.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithPollInterval sets the default polling interval for assertions.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		o.pollInterval = d
	}
}

// WithHistoryLimit sets how many rows of scrollback are kept.
// A value of 0 disables scrollback.
func WithHistoryLimit(limit int) Option {
	return func(o *options) {
		o.historyLimit = limit
	}
}

// WithSuppressStderr runs the command through a shell that discards its
// standard error. The shell is $CURTAIN_SHELL, or /bin/sh.
func WithSuppressStderr() Option {
	return func(o *options) {
		o.suppressStderr = true
	}
}

// WithLogger sets the logger used for session lifecycle events, which are
// logged at debug level. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WaitOption configures a single assertion or Wait call.
type WaitOption func(*waitOptions)

type waitOptions struct {
	timeout      time.Duration
	pollInterval time.Duration
}

// WithinTimeout overrides the timeout for a single call.
// A value of 0 means "use defaults". Negative values fail immediately.
func WithinTimeout(d time.Duration) WaitOption {
	return func(o *waitOptions) {
		o.timeout = d
	}
}

// WithWaitPollInterval overrides the polling interval for a single call.
// A value of 0 means "use defaults". Negative values fail immediately.
// Positive values under 10ms are clamped to 10ms.
func WithWaitPollInterval(d time.Duration) WaitOption {
	return func(o *waitOptions) {
		o.pollInterval = d
	}
}

const (
	defaultWidth        = 80
	defaultHeight       = 24
	defaultTimeout      = 5 * time.Second
	defaultPollInterval = 100 * time.Millisecond
	defaultHistoryLimit = 1000
	minPollInterval     = 10 * time.Millisecond

	// maxDimension is the largest width or height a pty window size holds.
	maxDimension = math.MaxUint16

	// killJoinTimeout bounds how long Kill waits for the reader.
	killJoinTimeout = 2 * time.Second

	shellEnv  = "CURTAIN_SHELL"
	updateEnv = "CURTAIN_UPDATE"
)

func defaultOptions() options {
	return options{
		width:        defaultWidth,
		height:       defaultHeight,
		timeout:      defaultTimeout,
		pollInterval: defaultPollInterval,
		historyLimit: defaultHistoryLimit,
	}
}

// resolve applies per-call overrides to the terminal defaults.
func (o *options) resolve(wopts []WaitOption) (timeout, interval time.Duration, err error) {
	wo := waitOptions{}
	for _, opt := range wopts {
		opt(&wo)
	}

	timeout = o.timeout
	if wo.timeout > 0 {
		timeout = wo.timeout
	} else if wo.timeout < 0 {
		return 0, 0, fmt.Errorf("negative timeout: %v", wo.timeout)
	}

	interval = o.pollInterval
	if wo.pollInterval > 0 {
		interval = wo.pollInterval
	} else if wo.pollInterval < 0 {
		return 0, 0, fmt.Errorf("negative poll interval: %v", wo.pollInterval)
	}
	if interval < minPollInterval {
		interval = minPollInterval
	}
	return timeout, interval, nil
}
