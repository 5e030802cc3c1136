package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cboone/curtain"
)

type snapshotFlags struct {
	cols, rows     int
	waitFor        string
	timeout        time.Duration
	settle         time.Duration
	suppressStderr bool
	scrollback     bool
	verbose        bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "curtain",
		Short: "Drive terminal programs on a pseudo-terminal",
		Long:  `curtain runs interactive command-line programs on a pseudo-terminal and reconstructs the screen a user would see.`,
	}
	root.AddCommand(newSnapshotCmd())
	return root
}

func newSnapshotCmd() *cobra.Command {
	var f snapshotFlags
	cmd := &cobra.Command{
		Use:   "snapshot [flags] -- command [args...]",
		Short: "Run a command and print its screen",
		Long: `Run a command on a pseudo-terminal and print the rendered screen.

Without --wait-for the command is given --timeout to exit. With --wait-for
the screen is printed as soon as the text appears. The command is killed
before curtain exits.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd.OutOrStdout(), cmd.ErrOrStderr(), args, f)
		},
	}

	cols, rows := defaultSize()
	cmd.Flags().IntVar(&f.cols, "cols", cols, "Terminal width in columns")
	cmd.Flags().IntVar(&f.rows, "rows", rows, "Terminal height in rows")
	cmd.Flags().StringVar(&f.waitFor, "wait-for", "", "Print the screen once this text is visible")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 5*time.Second, "How long to wait for the text or for the command to exit")
	cmd.Flags().DurationVar(&f.settle, "settle", 0, "Extra time to let output settle before printing")
	cmd.Flags().BoolVar(&f.suppressStderr, "suppress-stderr", false, "Discard the command's standard error")
	cmd.Flags().BoolVar(&f.scrollback, "scrollback", false, "Print scrollback and screen as plain text instead of the bordered screen")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Log session events to standard error")
	return cmd
}

// defaultSize is the size of the controlling terminal, or 80x24.
func defaultSize() (int, int) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return 80, 24
	}
	return cols, rows
}

func runSnapshot(stdout, stderr io.Writer, argv []string, f snapshotFlags) error {
	if f.cols <= 0 || f.rows <= 0 {
		return fmt.Errorf("invalid size %dx%d", f.cols, f.rows)
	}

	opts := []curtain.Option{
		curtain.WithSize(f.cols, f.rows),
		curtain.WithTimeout(f.timeout),
	}
	if f.suppressStderr {
		opts = append(opts, curtain.WithSuppressStderr())
	}
	if f.verbose {
		logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, curtain.WithLogger(logger))
	}

	t := curtain.NewCommand(argv, opts...)
	if err := t.Start(); err != nil {
		return err
	}
	defer t.Kill()

	if f.waitFor != "" {
		if err := t.GetByText(f.waitFor).WaitVisible(); err != nil {
			return err
		}
	} else if _, err := t.Wait(f.timeout); err != nil && !errors.Is(err, curtain.ErrWaitTimeout) {
		return err
	}

	if f.settle > 0 {
		time.Sleep(f.settle)
	}

	if f.scrollback {
		_, err := fmt.Fprintln(stdout, t.Scrollback().String())
		return err
	}
	_, err := fmt.Fprintln(stdout, t.Snapshot())
	return err
}
