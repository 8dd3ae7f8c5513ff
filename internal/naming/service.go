package naming

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"docshelf/internal/config"
	"docshelf/internal/logging"
	"docshelf/internal/services/textgen"
)

// RemoteGenerator describes the remote naming capability.
type RemoteGenerator interface {
	GenerateName(ctx context.Context, contentSample string) (string, error)
}

// Service turns a content sample into a candidate filename (no extension).
// The active mode is decided once at construction: a remote configuration
// without usable credentials downgrades permanently to heuristic. Generate
// never returns an error; failures inside a generator degrade to the
// timestamp fallback.
type Service struct {
	mode   string
	remote RemoteGenerator
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs the naming service from application configuration,
// building the remote client when the configured mode requires one.
func NewService(cfg *config.Config, logger *slog.Logger) *Service {
	mode := config.NamingModeHeuristic
	var remote RemoteGenerator
	if cfg != nil {
		mode = cfg.Naming.Mode
	}
	serviceLogger := logging.NewComponentLogger(logger, "naming")
	if mode == config.NamingModeRemote {
		client, err := textgen.NewClient(textgen.Config{
			Model:          cfg.Naming.Model,
			Region:         cfg.Naming.Region,
			BaseURL:        cfg.Naming.BaseURL,
			APIKey:         cfg.Naming.APIKey,
			MaxTokens:      cfg.Naming.MaxTokens,
			TimeoutSeconds: cfg.Naming.TimeoutSeconds,
		})
		if err != nil {
			serviceLogger.Warn("remote naming unavailable, downgrading to heuristic", logging.Error(err))
			mode = config.NamingModeHeuristic
		} else {
			remote = client
		}
	}
	return newService(mode, remote, serviceLogger)
}

// NewServiceWithRemote allows injecting the remote generator (used in tests).
func NewServiceWithRemote(mode string, remote RemoteGenerator, logger *slog.Logger) *Service {
	if mode != config.NamingModeRemote || remote == nil {
		mode = config.NamingModeHeuristic
		remote = nil
	}
	return newService(mode, remote, logging.NewComponentLogger(logger, "naming"))
}

func newService(mode string, remote RemoteGenerator, logger *slog.Logger) *Service {
	return &Service{mode: mode, remote: remote, logger: logger, now: time.Now}
}

// Mode reports the active naming mode after any construction-time downgrade.
func (s *Service) Mode() string {
	return s.mode
}

// Generate produces a candidate filename for the content sample. It never
// fails: empty content, generator errors, and unusable completions all
// resolve to the timestamp fallback.
func (s *Service) Generate(ctx context.Context, contentSample, originalFilename string) string {
	logger := logging.WithContext(ctx, s.logger)

	if strings.TrimSpace(contentSample) == "" {
		logger.Warn("empty content sample, using fallback filename")
		return s.fallback(logger)
	}

	var (
		name string
		err  error
	)
	switch s.mode {
	case config.NamingModeRemote:
		name, err = s.remote.GenerateName(ctx, contentSample)
	default:
		name = heuristicName(contentSample)
	}
	if err != nil {
		logger.Error("filename generation failed",
			logging.Error(err),
			logging.String("original", originalFilename),
		)
		return s.fallback(logger)
	}
	if name == "" {
		return s.fallback(logger)
	}

	logger.Info("generated filename",
		logging.String("name", name),
		logging.String("original", originalFilename),
		logging.String("origin", s.mode),
	)
	return name
}

const fallbackTimestampLayout = "20060102_150405"

// fallback returns a timestamp-based name. Same-second collisions are left to
// the organizing service's conflict resolution.
func (s *Service) fallback(logger *slog.Logger) string {
	name := "document_" + s.now().Format(fallbackTimestampLayout)
	logger.Info("using fallback filename", logging.String("name", name))
	return name
}
