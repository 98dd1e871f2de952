package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"porthole/internal/target"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiDim    = "\x1b[2m"
)

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func shouldColorize(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return isTerminal(w)
	}
}

// writeWindowTitle emits the OSC title escape. Only meaningful on a tty, so
// callers gate on isTerminal; an empty template disables it entirely.
func writeWindowTitle(w io.Writer, template, targetID string) {
	title := strings.TrimSpace(strings.ReplaceAll(template, "{target}", targetID))
	if title == "" {
		return
	}
	fmt.Fprintf(w, "\x1b]2;%s\x07", title)
}

func printBanner(w io.Writer, tgt target.Target, colorize bool) {
	heading := fmt.Sprintf("== porthole: %s ==", tgt.ID)
	detail := fmt.Sprintf("   %s", tgt.Path)
	if colorize {
		heading = ansiCyan + heading + ansiReset
		detail = ansiDim + detail + ansiReset
	}
	fmt.Fprintln(w, heading)
	fmt.Fprintln(w, detail)
}

func colorizeLine(color, line string, colorize bool) string {
	if !colorize {
		return line
	}
	return color + line + ansiReset
}

func waitForEnter(r io.Reader) {
	reader := bufio.NewReader(r)
	_, _ = reader.ReadString('\n')
}
