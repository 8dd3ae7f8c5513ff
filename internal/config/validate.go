package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateNaming(); err != nil {
		return err
	}
	if err := c.validateProcessing(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.WatchDir == "" {
		return errors.New("paths.watch_dir must be set")
	}
	if c.Paths.OrganizedDir == "" {
		return errors.New("paths.organized_dir must be set")
	}
	if c.Paths.WatchDir == c.Paths.OrganizedDir {
		return errors.New("paths.organized_dir must differ from paths.watch_dir")
	}
	return nil
}

func (c *Config) validateNaming() error {
	switch c.Naming.Mode {
	case NamingModeHeuristic, NamingModeRemote:
	default:
		return fmt.Errorf("naming.mode: invalid value %q (must be %q or %q)",
			c.Naming.Mode, NamingModeHeuristic, NamingModeRemote)
	}
	if c.Naming.MaxTokens <= 0 {
		return errors.New("naming.max_tokens must be positive")
	}
	if c.Naming.TimeoutSeconds <= 0 {
		return errors.New("naming.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateProcessing() error {
	if c.Processing.ContentMaxLength <= 0 {
		return errors.New("processing.content_max_length must be positive")
	}
	if c.Processing.RetryAttempts < 0 {
		return errors.New("processing.retry_attempts must be >= 0")
	}
	if c.Processing.RetryDelaySeconds < 0 {
		return errors.New("processing.retry_delay_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: invalid value %q", c.Logging.Level)
	}
}
