package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFollowTimesOutNonInteractive(t *testing.T) {
	configPath, logDir := writeTestConfig(t, "")

	output, err := runCommand(t, context.Background(),
		"--config", configPath,
		"follow", "9001",
		"--timeout", "80ms",
		"--poll-interval", "20ms",
	)
	if !errors.Is(err, errTimedOut) {
		t.Fatalf("expected errTimedOut, got %v", err)
	}
	if !strings.Contains(output, "did not appear within") {
		t.Fatalf("expected timeout report, got:\n%s", output)
	}
	if !strings.Contains(output, ".") {
		t.Fatalf("expected progress dots, got:\n%s", output)
	}
	// Not a tty, so no keypress prompt.
	if strings.Contains(output, "Press Enter") {
		t.Fatalf("unexpected interactive prompt:\n%s", output)
	}
	if _, statErr := os.Stat(filepath.Join(logDir, "worker-9001.log")); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("no file should have been created: %v", statErr)
	}
}

func TestFollowStreamsExistingFileUntilCanceled(t *testing.T) {
	configPath, logDir := writeTestConfig(t, "[watch]\ntail_lines = 2\n")

	logPath := filepath.Join(logDir, "worker-9001.log")
	if err := os.WriteFile(logPath, []byte("one\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	type result struct {
		output string
		err    error
	}
	done := make(chan result, 1)
	go func() {
		output, err := runCommand(t, ctx,
			"--config", configPath,
			"follow", "9001",
			"--poll-interval", "10ms",
			"--poll",
		)
		done <- result{output, err}
	}()

	time.Sleep(100 * time.Millisecond)
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString("four\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = f.Close()
	time.Sleep(100 * time.Millisecond)
	cancel()

	var res result
	select {
	case res = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("follow did not stop on cancellation")
	}
	if res.err != nil {
		t.Fatalf("expected clean exit on cancel, got %v", res.err)
	}
	if strings.Contains(res.output, "one\n") {
		t.Fatalf("line beyond tail_lines should not appear:\n%s", res.output)
	}
	for _, want := range []string{"two\n", "three\n", "four\n"} {
		if !strings.Contains(res.output, want) {
			t.Fatalf("missing %q in output:\n%s", want, res.output)
		}
	}
	if idxThree, idxFour := strings.Index(res.output, "three\n"), strings.Index(res.output, "four\n"); idxThree > idxFour {
		t.Fatalf("lines out of order:\n%s", res.output)
	}
}

func TestFollowRecordsHistorySession(t *testing.T) {
	configPath, logDir := writeTestConfig(t, "")

	_, err := runCommand(t, context.Background(),
		"--config", configPath,
		"follow", "9002",
		"--timeout", "30ms",
		"--poll-interval", "10ms",
	)
	if !errors.Is(err, errTimedOut) {
		t.Fatalf("expected errTimedOut, got %v", err)
	}

	historyOutput, err := runCommand(t, context.Background(),
		"--config", configPath, "history",
	)
	if err != nil {
		t.Fatalf("history returned error: %v", err)
	}
	if !strings.Contains(historyOutput, "9002") || !strings.Contains(historyOutput, "timeout") {
		t.Fatalf("expected recorded timeout session:\n%s", historyOutput)
	}

	if _, statErr := os.Stat(filepath.Join(logDir, "history.db")); statErr != nil {
		t.Fatalf("expected history db in log dir: %v", statErr)
	}
}

func TestFollowExclusiveRefusesSecondSession(t *testing.T) {
	configPath, logDir := writeTestConfig(t, "")

	logPath := filepath.Join(logDir, "worker-9003.log")
	if err := os.WriteFile(logPath, []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	holderDone := make(chan struct{})
	go func() {
		defer close(holderDone)
		_, _ = runCommand(t, ctx,
			"--config", configPath,
			"follow", "9003",
			"--poll-interval", "10ms",
			"--poll", "--exclusive",
		)
	}()
	time.Sleep(150 * time.Millisecond)

	_, err := runCommand(t, context.Background(),
		"--config", configPath,
		"follow", "9003",
		"--poll-interval", "10ms",
		"--exclusive",
	)
	cancel()
	<-holderDone
	if err == nil || !strings.Contains(err.Error(), "already following") {
		t.Fatalf("expected lock conflict, got %v", err)
	}
}

func TestFollowRejectsDirectoryTarget(t *testing.T) {
	configPath, logDir := writeTestConfig(t, "")
	if _, err := runCommand(t, context.Background(),
		"--config", configPath,
		"follow", logDir,
	); err == nil {
		t.Fatal("expected error for directory target")
	}
}
