package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Extraction failure classes.
	ErrNotFound    = errors.New("not found")
	ErrUnsupported = errors.New("unsupported file type")
	ErrCorrupt     = errors.New("corrupt document")
	ErrEncoding    = errors.New("encoding exhausted")

	// Organize failure classes.
	ErrPermission = errors.New("permission exhausted")
	ErrOSFailure  = errors.New("os failure")

	// Ambient failure classes.
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Recoverable reports whether an extraction failure may be absorbed by the
// pipeline (content degrades to empty) rather than aborting the file.
func Recoverable(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUnsupported),
		errors.Is(err, ErrCorrupt),
		errors.Is(err, ErrEncoding):
		return true
	default:
		return false
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
