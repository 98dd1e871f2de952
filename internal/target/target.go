package target

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"porthole/internal/config"
)

const placeholder = "{port}"

// Target identifies one watched log file. Immutable once resolved.
type Target struct {
	ID   string
	Path string
}

// Resolve maps a command-line argument to a watch target. A purely numeric
// argument expands the configured file pattern under the log directory;
// anything else is treated as a literal path.
func Resolve(cfg *config.Config, arg string) (Target, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return Target{}, errors.New("watch target is required (port number or path)")
	}

	if port, err := strconv.Atoi(arg); err == nil {
		if port < 1 || port > 65535 {
			return Target{}, fmt.Errorf("port %d out of range (1-65535)", port)
		}
		name := strings.Replace(cfg.Watch.FilePattern, placeholder, arg, 1)
		return Target{ID: arg, Path: filepath.Join(cfg.Paths.LogDir, name)}, nil
	}

	path, err := config.ExpandPath(arg)
	if err != nil {
		return Target{}, err
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return Target{}, fmt.Errorf("watch target %q is a directory", path)
	}
	return Target{ID: filepath.Base(path), Path: path}, nil
}

// List discovers targets whose log file already exists in the log directory,
// sorted by identifier (numerically when possible).
func List(cfg *config.Config) ([]Target, error) {
	pattern := strings.Replace(cfg.Watch.FilePattern, placeholder, "*", 1)
	matches, err := filepath.Glob(filepath.Join(cfg.Paths.LogDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("scan log directory: %w", err)
	}

	prefix, suffix, ok := strings.Cut(cfg.Watch.FilePattern, placeholder)
	if !ok {
		return nil, fmt.Errorf("file pattern %q is missing the %s placeholder", cfg.Watch.FilePattern, placeholder)
	}

	targets := make([]Target, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		name := filepath.Base(match)
		id := strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix)
		if id == "" {
			continue
		}
		targets = append(targets, Target{ID: id, Path: match})
	}

	sort.Slice(targets, func(i, j int) bool {
		a, aErr := strconv.Atoi(targets[i].ID)
		b, bErr := strconv.Atoi(targets[j].ID)
		if aErr == nil && bErr == nil {
			return a < b
		}
		return targets[i].ID < targets[j].ID
	})
	return targets, nil
}
