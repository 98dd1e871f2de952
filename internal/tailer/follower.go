package tailer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FollowOptions controls live streaming of appended lines.
type FollowOptions struct {
	// Offset is the stream cursor to continue from, usually TailResult.Offset.
	Offset int64
	// Interval is the polling cadence, also used as a safety net when the
	// filesystem watcher is active but an event is missed.
	Interval time.Duration
	// Poll disables the filesystem watcher and relies on the interval alone.
	Poll bool
	// OnLine receives each appended line, in order, exactly once.
	OnLine func(line string)
	// OnTruncate is invoked when the file shrank below the cursor and the
	// stream restarted from the beginning.
	OnTruncate func()
}

// Follow streams lines appended to path until ctx is canceled or an I/O
// error occurs; it never returns nil. Wakeups come from an fsnotify watch on
// the parent directory when available, with the interval ticker as fallback.
// A file that shrinks beneath the cursor is treated as truncated or rotated:
// the cursor resets to zero and streaming resumes from the new content.
func Follow(ctx context.Context, path string, opts FollowOptions) error {
	if opts.Interval <= 0 {
		opts.Interval = 500 * time.Millisecond
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve watch path: %w", err)
	}

	var events chan fsnotify.Event
	var watchErrs chan error
	if !opts.Poll {
		watcher, err := fsnotify.NewWatcher()
		if err == nil {
			if err := watcher.Add(filepath.Dir(absPath)); err == nil {
				defer watcher.Close()
				events = watcher.Events
				watchErrs = watcher.Errors
			} else {
				watcher.Close()
			}
		}
		// Watcher setup failure is not fatal; the ticker covers it.
	}

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	offset := opts.Offset
	for {
		info, err := os.Stat(absPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("log file %s disappeared: %w", absPath, err)
			}
			return fmt.Errorf("stat log file: %w", err)
		}
		if info.Size() < offset {
			offset = 0
			if opts.OnTruncate != nil {
				opts.OnTruncate()
			}
		}

		if info.Size() > offset {
			lines, newOffset, err := readAppended(absPath, offset)
			for _, line := range lines {
				if opts.OnLine != nil {
					opts.OnLine(line)
				}
			}
			if err != nil {
				return err
			}
			offset = newOffset
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Name != absPath {
				continue
			}
			// Write, create, remove, and rename all warrant a re-read; the
			// stat at the top of the loop classifies what happened.
		case _, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
			}
			// Degrade to pure polling on watcher trouble.
		}
	}
}
