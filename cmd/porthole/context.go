package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"porthole/internal/config"
	"porthole/internal/history"
	"porthole/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	log        *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() *slog.Logger {
	c.loggerOnce.Do(func() {
		opts := logging.Options{}
		if cfg, err := c.ensureConfig(); err == nil {
			opts.Level = cfg.Logging.Level
			opts.Format = cfg.Logging.Format
		}
		logger, err := logging.New(opts)
		if err != nil {
			logger, _ = logging.New(logging.Options{})
		}
		c.log = logger
	})
	return c.log
}

// openHistory returns the session store, or nil when it cannot be opened.
// History is convenience data; a broken store must never block streaming.
func (c *commandContext) openHistory() *history.Store {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil
	}
	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		c.logger().Warn("session history unavailable", "error", err)
		return nil
	}
	return store
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
