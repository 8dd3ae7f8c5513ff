package extraction

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"docshelf/internal/config"
	"docshelf/internal/logging"
	"docshelf/internal/services"
)

// Extractor turns a document into a bounded text sample. PDF files go through
// the binary parser; plain-text files are read with an ordered encoding
// fallback chain. The result is truncated to the configured maximum number of
// characters (runes, not bytes).
type Extractor struct {
	maxLength int
	logger    *slog.Logger
}

// NewExtractor constructs an extractor from application configuration.
func NewExtractor(cfg *config.Config, logger *slog.Logger) *Extractor {
	maxLength := 0
	if cfg != nil {
		maxLength = cfg.Processing.ContentMaxLength
	}
	return &Extractor{
		maxLength: maxLength,
		logger:    logging.NewComponentLogger(logger, "extraction"),
	}
}

// Extract reads the content sample for path. Failures carry one of the
// extraction sentinels (ErrNotFound, ErrUnsupported, ErrCorrupt, ErrEncoding)
// so the pipeline can classify them.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	logger := logging.WithContext(ctx, e.logger)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", services.Wrap(services.ErrNotFound, "extraction", "stat source", "File does not exist", err)
		}
		return "", services.Wrap(services.ErrNotFound, "extraction", "stat source", "File is not readable", err)
	}

	var (
		text string
		err  error
	)
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		text, err = extractPDF(path)
	case ".txt", ".text":
		text, err = extractPlainText(path)
	default:
		return "", services.Wrap(services.ErrUnsupported, "extraction", "dispatch", "Unsupported file type "+ext, nil)
	}
	if err != nil {
		return "", err
	}

	truncated := truncateRunes(text, e.maxLength)
	logger.Info("extracted content sample",
		logging.Int("chars", utf8.RuneCountInString(truncated)),
		logging.String("source", filepath.Base(path)),
	)
	return truncated, nil
}

// truncateRunes returns at most max characters of s as a pure prefix. Inputs
// already within the bound are returned verbatim.
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
