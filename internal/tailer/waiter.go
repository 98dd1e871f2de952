package tailer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrWaitTimeout reports that the watch target never appeared within the
// configured bound.
var ErrWaitTimeout = errors.New("timed out waiting for log file to appear")

// WaitOptions controls the bounded wait for an absent target.
type WaitOptions struct {
	Interval time.Duration
	Timeout  time.Duration
	// OnPoll is invoked once per elapsed interval while the file is still
	// absent, with the 1-based poll count. Drives the progress indicator.
	OnPoll func(n int)
}

// WaitForFile blocks until path exists, the timeout elapses, or ctx is
// canceled. It returns immediately without polling when the file already
// exists. Timeout expiry yields ErrWaitTimeout exactly once; the caller
// decides whether to retry.
func WaitForFile(ctx context.Context, path string, opts WaitOptions) error {
	if opts.Interval <= 0 {
		opts.Interval = 500 * time.Millisecond
	}
	if opts.Timeout < 0 {
		opts.Timeout = 0
	}

	exists, err := statTarget(path)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	deadline := time.Now().Add(opts.Timeout)
	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	polls := 0
	for {
		if !time.Now().Before(deadline) {
			return ErrWaitTimeout
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		polls++
		if opts.OnPoll != nil {
			opts.OnPoll(polls)
		}

		exists, err := statTarget(path)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
	}
}

func statTarget(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat watch target: %w", err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("watch target %q is a directory", path)
	}
	return true, nil
}
