package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWatch(); err != nil {
		return err
	}
	if err := c.validateDisplay(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWatch() error {
	if strings.Count(c.Watch.FilePattern, "{port}") != 1 {
		return fmt.Errorf("watch.file_pattern must contain the {port} placeholder exactly once, got %q", c.Watch.FilePattern)
	}
	if strings.ContainsRune(c.Watch.FilePattern, '/') {
		return errors.New("watch.file_pattern must be a file name, not a path")
	}
	if c.Watch.PollIntervalMS <= 0 {
		return errors.New("watch.poll_interval_ms must be positive")
	}
	if c.Watch.TimeoutSeconds < 0 {
		return errors.New("watch.timeout_seconds must be >= 0")
	}
	if c.Watch.TailLines < 0 {
		return errors.New("watch.tail_lines must be >= 0")
	}
	return nil
}

func (c *Config) validateDisplay() error {
	switch c.Display.Color {
	case "auto", "always", "never":
		return nil
	default:
		return fmt.Errorf("display.color must be auto, always, or never, got %q", c.Display.Color)
	}
}
