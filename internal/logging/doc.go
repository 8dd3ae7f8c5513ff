// Package logging builds the slog loggers used across docshelf and defines
// the standardized structured field names shared by all components.
package logging
