package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"docshelf/internal/config"
	"docshelf/internal/extraction"
	"docshelf/internal/logging"
	"docshelf/internal/naming"
	"docshelf/internal/organize"
	"docshelf/internal/services"
)

// Extractor produces a bounded content sample for a file.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Namer produces a candidate filename; it never fails.
type Namer interface {
	Generate(ctx context.Context, contentSample, originalFilename string) string
}

// Organizer relocates a file under its candidate name.
type Organizer interface {
	Organize(ctx context.Context, sourcePath, candidateName string) (string, error)
}

// Processor sequences the per-file pipeline: extract, name, organize. An
// extraction failure degrades to an empty content sample; an organize failure
// aborts only the current file and is surfaced to the caller so the watch
// loop can keep running.
type Processor struct {
	extractor Extractor
	namer     Namer
	organizer Organizer
	logger    *slog.Logger
}

// NewProcessor constructs the pipeline with its default collaborators.
func NewProcessor(cfg *config.Config, logger *slog.Logger) *Processor {
	return NewProcessorWithDependencies(
		extraction.NewExtractor(cfg, logger),
		naming.NewService(cfg, logger),
		organize.NewOrganizer(cfg, logger),
		logger,
	)
}

// NewProcessorWithDependencies allows injecting collaborators (used in tests).
func NewProcessorWithDependencies(extractor Extractor, namer Namer, organizer Organizer, logger *slog.Logger) *Processor {
	return &Processor{
		extractor: extractor,
		namer:     namer,
		organizer: organizer,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Process runs the pipeline for a single file and returns the final organized
// path. The returned error is per-file fatal only; callers continue with
// subsequent files.
func (p *Processor) Process(ctx context.Context, path string) (string, error) {
	originalFilename := filepath.Base(path)
	ctx = services.WithFile(ctx, originalFilename)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, p.logger)

	logger.Info("processing file")

	contentSample, err := p.extractor.Extract(ctx, path)
	if err != nil {
		// Extraction failures degrade: fallback naming still gives the file
		// a home in the organized root.
		logger.Error("text extraction failed, continuing with empty content",
			logging.String("kind", errorKind(err)),
			logging.Error(err),
		)
		contentSample = ""
	}

	candidateName := p.namer.Generate(ctx, contentSample, originalFilename)

	finalPath, err := p.organizer.Organize(ctx, path, candidateName)
	if err != nil {
		wrapped := fmt.Errorf("process %s: %w", originalFilename, err)
		logger.Error("file organization failed",
			logging.String("kind", errorKind(err)),
			logging.Error(err),
		)
		return "", wrapped
	}

	logger.Info("file processed",
		logging.String("final_path", finalPath),
	)
	return finalPath, nil
}

// errorKind maps sentinel markers to stable names for structured logs.
func errorKind(err error) string {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return "not_found"
	case errors.Is(err, services.ErrUnsupported):
		return "unsupported"
	case errors.Is(err, services.ErrCorrupt):
		return "corrupt"
	case errors.Is(err, services.ErrEncoding):
		return "encoding"
	case errors.Is(err, services.ErrPermission):
		return "permission_exhausted"
	case errors.Is(err, services.ErrOSFailure):
		return "os_failure"
	case errors.Is(err, services.ErrConfiguration):
		return "configuration"
	case errors.Is(err, services.ErrValidation):
		return "validation"
	default:
		return "transient"
	}
}
