package tailer_test

import (
	"os"
	"path/filepath"
	"testing"

	"porthole/internal/tailer"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func appendFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("append %s: %v", path, err)
	}
}

func TestTailLastLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker-9001.log")
	writeFile(t, path, "a\nb\nc\n")

	result, err := tailer.Tail(path, tailer.TailOptions{Offset: -1, Limit: 2})
	if err != nil {
		t.Fatalf("tail returned error: %v", err)
	}
	if len(result.Lines) != 2 || result.Lines[0] != "b" || result.Lines[1] != "c" {
		t.Fatalf("unexpected lines: %#v", result.Lines)
	}
	if result.Offset != int64(len("a\nb\nc\n")) {
		t.Fatalf("unexpected offset: %d", result.Offset)
	}
}

func TestTailFewerLinesThanLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker-9001.log")
	writeFile(t, path, "only\n")

	result, err := tailer.Tail(path, tailer.TailOptions{Offset: -1, Limit: 50})
	if err != nil {
		t.Fatalf("tail returned error: %v", err)
	}
	if len(result.Lines) != 1 || result.Lines[0] != "only" {
		t.Fatalf("unexpected lines: %#v", result.Lines)
	}
}

func TestTailZeroLimitSkipsToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker-9001.log")
	writeFile(t, path, "a\nb\n")

	result, err := tailer.Tail(path, tailer.TailOptions{Offset: -1, Limit: 0})
	if err != nil {
		t.Fatalf("tail returned error: %v", err)
	}
	if len(result.Lines) != 0 {
		t.Fatalf("expected no lines, got %#v", result.Lines)
	}
	if result.Offset != int64(len("a\nb\n")) {
		t.Fatalf("unexpected offset: %d", result.Offset)
	}
}

func TestTailFromOffsetStopsAtPartialLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker-9001.log")
	writeFile(t, path, "one\ntwo\npart")

	result, err := tailer.Tail(path, tailer.TailOptions{Offset: 0})
	if err != nil {
		t.Fatalf("tail returned error: %v", err)
	}
	if len(result.Lines) != 2 || result.Lines[0] != "one" || result.Lines[1] != "two" {
		t.Fatalf("unexpected lines: %#v", result.Lines)
	}
	if result.Offset != int64(len("one\ntwo\n")) {
		t.Fatalf("cursor should rest at the last newline, got %d", result.Offset)
	}

	// Completing the partial line later yields exactly one whole line.
	appendFile(t, path, "ial\n")
	next, err := tailer.Tail(path, tailer.TailOptions{Offset: result.Offset})
	if err != nil {
		t.Fatalf("second tail: %v", err)
	}
	if len(next.Lines) != 1 || next.Lines[0] != "partial" {
		t.Fatalf("unexpected continuation: %#v", next.Lines)
	}
}

func TestTailMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.log")
	result, err := tailer.Tail(path, tailer.TailOptions{Offset: -1, Limit: 10})
	if err != nil {
		t.Fatalf("tail returned error: %v", err)
	}
	if len(result.Lines) != 0 || result.Offset != 0 {
		t.Fatalf("expected empty result, got %#v", result)
	}
}

func TestTailCRLFLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker-9001.log")
	writeFile(t, path, "win\r\nstyle\r\n")

	result, err := tailer.Tail(path, tailer.TailOptions{Offset: 0})
	if err != nil {
		t.Fatalf("tail returned error: %v", err)
	}
	if len(result.Lines) != 2 || result.Lines[0] != "win" || result.Lines[1] != "style" {
		t.Fatalf("unexpected lines: %#v", result.Lines)
	}
}
