package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeWatch()
	c.normalizeDisplay()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	// Explicit config wins over the environment; the env var only replaces
	// an unset or default log_dir.
	if strings.TrimSpace(c.Paths.LogDir) == "" || c.Paths.LogDir == defaultLogDir {
		if value, ok := os.LookupEnv("PORTHOLE_LOG_DIR"); ok && strings.TrimSpace(value) != "" {
			c.Paths.LogDir = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = filepath.Join(c.Paths.LogDir, "history.db")
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeWatch() {
	c.Watch.FilePattern = strings.TrimSpace(c.Watch.FilePattern)
	if c.Watch.FilePattern == "" {
		c.Watch.FilePattern = defaultFilePattern
	}
	if c.Watch.PollIntervalMS <= 0 {
		c.Watch.PollIntervalMS = defaultPollIntervalMS
	}
	if c.Watch.TimeoutSeconds < 0 {
		c.Watch.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Watch.TailLines < 0 {
		c.Watch.TailLines = defaultTailLines
	}
}

func (c *Config) normalizeDisplay() {
	c.Display.WindowTitle = strings.TrimSpace(c.Display.WindowTitle)
	c.Display.Color = strings.ToLower(strings.TrimSpace(c.Display.Color))
	if c.Display.Color == "" {
		c.Display.Color = defaultColorMode
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
