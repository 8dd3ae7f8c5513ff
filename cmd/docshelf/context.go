package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"docshelf/internal/config"
	"docshelf/internal/logging"
)

type commandContext struct {
	configFlag     *string
	namingModeFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, namingModeFlag *string) *commandContext {
	return &commandContext{
		configFlag:     configFlag,
		namingModeFlag: namingModeFlag,
	}
}

// ensureConfig loads the configuration once per invocation. The naming-mode
// flag is applied before validation so an invalid override fails the same
// way an invalid file value would.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolvedPath, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.namingModeFlag != nil {
			if mode := strings.ToLower(strings.TrimSpace(*c.namingModeFlag)); mode != "" {
				cfg.Naming.Mode = mode
				if err := cfg.Validate(); err != nil {
					c.configErr = fmt.Errorf("apply --naming-mode: %w", err)
					return
				}
			}
		}
		c.config = cfg
		c.configPath = resolvedPath
	})
	return c.config, c.configErr
}

// buildLogger constructs the process logger from the effective config. The
// console format downgrades to JSON when stdout is not a terminal, unless
// the config asked for a format explicitly via file or environment.
func (c *commandContext) buildLogger(cfg *config.Config) (*slog.Logger, error) {
	format := cfg.Logging.Format
	if format == "console" && !isTerminal(os.Stdout) {
		format = "json"
	}
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: format,
		Writer: os.Stdout,
	})
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
