package tailer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"porthole/internal/tailer"
)

func startFollow(t *testing.T, ctx context.Context, path string, opts tailer.FollowOptions) (<-chan string, <-chan error) {
	t.Helper()
	lines := make(chan string, 64)
	opts.OnLine = func(line string) { lines <- line }
	if opts.Interval == 0 {
		opts.Interval = 10 * time.Millisecond
	}
	result := make(chan error, 1)
	go func() {
		result <- tailer.Follow(ctx, path, opts)
	}()
	return lines, result
}

func expectLine(t *testing.T, lines <-chan string, want string) {
	t.Helper()
	select {
	case got := <-lines:
		if got != want {
			t.Fatalf("unexpected line: got %q want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for line %q", want)
	}
}

func expectNoLine(t *testing.T, lines <-chan string, within time.Duration) {
	t.Helper()
	select {
	case got := <-lines:
		t.Fatalf("unexpected extra line %q", got)
	case <-time.After(within):
	}
}

func TestFollowStreamsSequentialAppends(t *testing.T) {
	for _, poll := range []bool{true, false} {
		name := "notify"
		if poll {
			name = "poll"
		}
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "worker-9001.log")
			writeFile(t, path, "before\n")

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			offset := int64(len("before\n"))
			lines, result := startFollow(t, ctx, path, tailer.FollowOptions{Offset: offset, Poll: poll})

			for _, batch := range []string{"first\n", "second\nthird\n", "fourth\n"} {
				appendFile(t, path, batch)
				time.Sleep(30 * time.Millisecond)
			}

			for _, want := range []string{"first", "second", "third", "fourth"} {
				expectLine(t, lines, want)
			}
			expectNoLine(t, lines, 50*time.Millisecond)

			cancel()
			select {
			case err := <-result:
				if !errors.Is(err, context.Canceled) {
					t.Fatalf("expected context.Canceled, got %v", err)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("follow did not stop on cancellation")
			}
		})
	}
}

func TestFollowDetectsTruncationAndRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker-9001.log")
	writeFile(t, path, "old-1\nold-2\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	truncated := make(chan struct{}, 1)
	offset := int64(len("old-1\nold-2\n"))
	lines, _ := startFollow(t, ctx, path, tailer.FollowOptions{
		Offset: offset,
		Poll:   true,
		OnTruncate: func() {
			select {
			case truncated <- struct{}{}:
			default:
			}
		},
	})

	// Rotation: the file is replaced with shorter, fresh content.
	time.Sleep(30 * time.Millisecond)
	writeFile(t, path, "new-1\n")

	select {
	case <-truncated:
	case <-time.After(2 * time.Second):
		t.Fatal("truncation was not detected")
	}
	expectLine(t, lines, "new-1")
}

func TestFollowSurfacesRemoval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker-9001.log")
	writeFile(t, path, "hello\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, result := startFollow(t, ctx, path, tailer.FollowOptions{Offset: int64(len("hello\n")), Poll: true})

	time.Sleep(30 * time.Millisecond)
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove log: %v", err)
	}

	select {
	case err := <-result:
		if err == nil || errors.Is(err, context.Canceled) {
			t.Fatalf("expected I/O error after removal, got %v", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected wrapped os.ErrNotExist, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("follow did not report removal")
	}
}

func TestFollowPicksUpPartialLineCompletion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker-9001.log")
	writeFile(t, path, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lines, _ := startFollow(t, ctx, path, tailer.FollowOptions{Offset: 0, Poll: true})

	appendFile(t, path, "half")
	expectNoLine(t, lines, 50*time.Millisecond)
	appendFile(t, path, " done\n")
	expectLine(t, lines, "half done")
}
