package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"porthole/internal/history"
	"porthole/internal/tailer"
	"porthole/internal/target"
)

// errTimedOut signals main to exit with the timeout status after the
// command has already reported the condition.
var errTimedOut = errors.New("watch target timed out")

func newFollowCommand(cctx *commandContext) *cobra.Command {
	var lines int
	var pollInterval time.Duration
	var timeout time.Duration
	var forcePoll bool
	var exclusive bool
	var noTitle bool

	cmd := &cobra.Command{
		Use:   "follow <port|path>",
		Short: "Wait for a worker log file and stream it",
		Long: `Follow resolves a port number to its log file (or takes a literal path),
waits a bounded time for the file to appear, prints the last lines, and then
streams newly appended lines until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			tgt, err := target.Resolve(cfg, args[0])
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("lines") {
				lines = cfg.Watch.TailLines
			}
			if !cmd.Flags().Changed("poll-interval") {
				pollInterval = cfg.PollInterval()
			}
			if !cmd.Flags().Changed("timeout") {
				timeout = cfg.WaitTimeout()
			}

			out := cmd.OutOrStdout()
			interactive := isTerminal(out)
			colorize := shouldColorize(cfg.Display.Color, out)

			if interactive && !noTitle {
				writeWindowTitle(out, cfg.Display.WindowTitle, tgt.ID)
			}
			if cfg.Display.Banner {
				printBanner(out, tgt, colorize)
			}

			if exclusive {
				lock := flock.New(tgt.Path + ".lock")
				ok, err := lock.TryLock()
				if err != nil {
					return fmt.Errorf("acquire target lock: %w", err)
				}
				if !ok {
					return fmt.Errorf("another porthole session is already following %s", tgt.Path)
				}
				defer lock.Unlock() //nolint:errcheck
			}

			run := followRun{
				cctx:         cctx,
				target:       tgt,
				lines:        lines,
				pollInterval: pollInterval,
				timeout:      timeout,
				forcePoll:    forcePoll,
				colorize:     colorize,
				interactive:  interactive,
				out:          out,
				in:           cmd.InOrStdin(),
			}
			return run.execute(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 0, "Number of trailing lines to print before streaming")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 0, "Cadence for existence polling and follow fallback")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "How long to wait for an absent file (0 fails immediately)")
	cmd.Flags().BoolVar(&forcePoll, "poll", false, "Disable filesystem notifications and rely on polling")
	cmd.Flags().BoolVar(&exclusive, "exclusive", false, "Refuse to start when another session follows the same target")
	cmd.Flags().BoolVar(&noTitle, "no-title", false, "Do not set the terminal window title")
	return cmd
}

type followRun struct {
	cctx         *commandContext
	target       target.Target
	lines        int
	pollInterval time.Duration
	timeout      time.Duration
	forcePoll    bool
	colorize     bool
	interactive  bool
	out          io.Writer
	in           io.Reader
}

func (r *followRun) execute(ctx context.Context) error {
	logger := r.cctx.logger()
	store := r.cctx.openHistory()
	if store != nil {
		defer store.Close()
	}

	var sessionID string
	if store != nil {
		if session, err := store.Begin(context.Background(), r.target.ID, r.target.Path); err == nil {
			sessionID = session.ID
		} else {
			logger.Warn("record session start", "error", err)
		}
	}

	lineCount := int64(0)
	finish := func(outcome history.Outcome, message string) {
		if store == nil || sessionID == "" {
			return
		}
		// The command context may already be canceled here.
		if err := store.Finish(context.Background(), sessionID, outcome, lineCount, message); err != nil {
			logger.Warn("record session end", "error", err)
		}
	}

	dots := 0
	err := tailer.WaitForFile(ctx, r.target.Path, tailer.WaitOptions{
		Interval: r.pollInterval,
		Timeout:  r.timeout,
		OnPoll: func(int) {
			dots++
			fmt.Fprint(r.out, ".")
		},
	})
	if dots > 0 {
		fmt.Fprintln(r.out)
	}
	switch {
	case errors.Is(err, tailer.ErrWaitTimeout):
		finish(history.OutcomeTimeout, err.Error())
		return r.reportTimeout()
	case errors.Is(err, context.Canceled):
		finish(history.OutcomeCanceled, "")
		return err
	case err != nil:
		finish(history.OutcomeError, err.Error())
		return err
	}

	snapshot, err := tailer.Tail(r.target.Path, tailer.TailOptions{Offset: -1, Limit: r.lines})
	if err != nil {
		finish(history.OutcomeError, err.Error())
		return err
	}
	for _, line := range snapshot.Lines {
		fmt.Fprintln(r.out, line)
	}
	lineCount = int64(len(snapshot.Lines))

	logger.Debug("streaming", "target", r.target.ID, "path", r.target.Path, "offset", snapshot.Offset)

	err = tailer.Follow(ctx, r.target.Path, tailer.FollowOptions{
		Offset:   snapshot.Offset,
		Interval: r.pollInterval,
		Poll:     r.forcePoll,
		OnLine: func(line string) {
			fmt.Fprintln(r.out, line)
			lineCount++
		},
		OnTruncate: func() {
			logger.Warn("log file truncated, restarting from beginning", "target", r.target.ID)
		},
	})
	if errors.Is(err, context.Canceled) {
		// Operator detached; this is the normal way a session ends.
		finish(history.OutcomeStreamed, "")
		return nil
	}
	finish(history.OutcomeError, err.Error())
	return err
}

func (r *followRun) reportTimeout() error {
	message := fmt.Sprintf("%s did not appear within %s", r.target.Path, r.timeout)
	fmt.Fprintln(r.out, colorizeLine(ansiRed, message, r.colorize))
	if r.interactive {
		fmt.Fprint(r.out, "Press Enter to close... ")
		waitForEnter(r.in)
	}
	return errTimedOut
}
