package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// applyEnvOverrides replaces file-supplied values with DOCSHELF_* environment
// variables. Environment always wins over the config file.
func (c *Config) applyEnvOverrides() error {
	if v, ok := os.LookupEnv("DOCSHELF_WATCH_DIR"); ok {
		c.Paths.WatchDir = v
	}
	if v, ok := os.LookupEnv("DOCSHELF_ORGANIZED_DIR"); ok {
		c.Paths.OrganizedDir = v
	}
	if v, ok := os.LookupEnv("DOCSHELF_NAMING_MODE"); ok {
		c.Naming.Mode = v
	}
	if v, ok := os.LookupEnv("DOCSHELF_NAMING_MODEL"); ok {
		c.Naming.Model = v
	}
	if v, ok := os.LookupEnv("DOCSHELF_NAMING_REGION"); ok {
		c.Naming.Region = v
	}
	if v, ok := os.LookupEnv("DOCSHELF_NAMING_BASE_URL"); ok {
		c.Naming.BaseURL = v
	}
	if v, ok := os.LookupEnv("DOCSHELF_NAMING_API_KEY"); ok {
		c.Naming.APIKey = v
	}
	if v, ok := os.LookupEnv("DOCSHELF_LOG_LEVEL"); ok {
		c.Logging.Level = v
	}

	intOverrides := []struct {
		env    string
		target *int
	}{
		{"DOCSHELF_NAMING_MAX_TOKENS", &c.Naming.MaxTokens},
		{"DOCSHELF_CONTENT_MAX_LENGTH", &c.Processing.ContentMaxLength},
		{"DOCSHELF_RETRY_ATTEMPTS", &c.Processing.RetryAttempts},
		{"DOCSHELF_RETRY_DELAY_SECONDS", &c.Processing.RetryDelaySeconds},
	}
	for _, override := range intOverrides {
		v, ok := os.LookupEnv(override.env)
		if !ok {
			continue
		}
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s must be an integer: %q", override.env, v)
		}
		*override.target = parsed
	}
	return nil
}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeWatch()
	c.normalizeNaming()
	c.normalizeProcessing()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WatchDir, err = expandPath(c.Paths.WatchDir); err != nil {
		return fmt.Errorf("paths.watch_dir: %w", err)
	}
	if c.Paths.OrganizedDir, err = expandPath(c.Paths.OrganizedDir); err != nil {
		return fmt.Errorf("paths.organized_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeWatch() {
	if len(c.Watch.Extensions) == 0 {
		c.Watch.Extensions = defaultExtensions()
		return
	}
	exts := make([]string, 0, len(c.Watch.Extensions))
	seen := make(map[string]struct{}, len(c.Watch.Extensions))
	for _, ext := range c.Watch.Extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = defaultExtensions()
	}
	c.Watch.Extensions = exts
	if c.Watch.SettleDelayMS < 0 {
		c.Watch.SettleDelayMS = defaultSettleDelayMS
	}
	if c.Watch.StabilityPolls < 0 {
		c.Watch.StabilityPolls = 0
	}
}

func (c *Config) normalizeNaming() {
	c.Naming.Mode = strings.ToLower(strings.TrimSpace(c.Naming.Mode))
	if c.Naming.Mode == "" {
		c.Naming.Mode = defaultNamingMode
	}
	c.Naming.Model = strings.TrimSpace(c.Naming.Model)
	if c.Naming.Model == "" {
		c.Naming.Model = defaultNamingModel
	}
	c.Naming.Region = strings.TrimSpace(c.Naming.Region)
	if c.Naming.Region == "" {
		c.Naming.Region = defaultNamingRegion
	}
	c.Naming.BaseURL = strings.TrimSpace(c.Naming.BaseURL)
	c.Naming.APIKey = strings.TrimSpace(c.Naming.APIKey)
	if c.Naming.APIKey == "" {
		if value, ok := os.LookupEnv("TEXTGEN_API_KEY"); ok {
			c.Naming.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Naming.MaxTokens <= 0 {
		c.Naming.MaxTokens = defaultNamingMaxTokens
	}
	if c.Naming.TimeoutSeconds <= 0 {
		c.Naming.TimeoutSeconds = defaultNamingTimeoutSecs
	}
}

func (c *Config) normalizeProcessing() {
	if c.Processing.ContentMaxLength == 0 {
		c.Processing.ContentMaxLength = defaultContentMaxLength
	}
	if c.Processing.RetryAttempts == 0 {
		c.Processing.RetryAttempts = defaultRetryAttempts
	}
	if c.Processing.RetryDelaySeconds == 0 {
		c.Processing.RetryDelaySeconds = defaultRetryDelaySeconds
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
