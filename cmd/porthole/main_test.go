package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// writeTestConfig creates a config file pointing at a fresh log directory
// and returns both paths.
func writeTestConfig(t *testing.T, extra string) (configPath, logDir string) {
	t.Helper()
	dir := t.TempDir()
	logDir = filepath.Join(dir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		t.Fatalf("create log dir: %v", err)
	}
	body := "[paths]\nlog_dir = " + strconv.Quote(logDir) + "\n" + extra
	configPath = filepath.Join(dir, "porthole.toml")
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath, logDir
}

func runCommand(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(bytes.NewReader(nil))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestRootHelpListsCommands(t *testing.T) {
	output, err := runCommand(t, context.Background(), "--help")
	if err != nil {
		t.Fatalf("help returned error: %v", err)
	}
	for _, want := range []string{"follow", "targets", "history", "config"} {
		if !bytes.Contains([]byte(output), []byte(want)) {
			t.Fatalf("help missing %q:\n%s", want, output)
		}
	}
}

func TestUnknownCommandFails(t *testing.T) {
	if _, err := runCommand(t, context.Background(), "bogus"); err == nil {
		t.Fatal("expected error for unknown command")
	}
}
