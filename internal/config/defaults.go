package config

const (
	defaultWatchDir          = "~/Downloads"
	defaultOrganizedDir      = "~/Downloads/Organized"
	defaultSettleDelayMS     = 500
	defaultStabilityPolls    = 4
	defaultNamingMode        = NamingModeHeuristic
	defaultNamingModel       = "anthropic.claude-v2"
	defaultNamingRegion      = "us-east-1"
	defaultNamingMaxTokens   = 50
	defaultNamingTimeoutSecs = 30
	defaultContentMaxLength  = 1000
	defaultRetryAttempts     = 3
	defaultRetryDelaySeconds = 2
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

func defaultExtensions() []string {
	return []string{".pdf", ".txt", ".text"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WatchDir:     defaultWatchDir,
			OrganizedDir: defaultOrganizedDir,
		},
		Watch: Watch{
			Extensions:     defaultExtensions(),
			SettleDelayMS:  defaultSettleDelayMS,
			StabilityPolls: defaultStabilityPolls,
		},
		Naming: Naming{
			Mode:           defaultNamingMode,
			Model:          defaultNamingModel,
			Region:         defaultNamingRegion,
			MaxTokens:      defaultNamingMaxTokens,
			TimeoutSeconds: defaultNamingTimeoutSecs,
		},
		Processing: Processing{
			ContentMaxLength:  defaultContentMaxLength,
			RetryAttempts:     defaultRetryAttempts,
			RetryDelaySeconds: defaultRetryDelaySeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
