// Package services defines shared utilities consumed by the processing
// pipeline and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp file names, stage names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     as recoverable (extraction degrades) or per-file fatal (organize
//     aborts the current file only).
package services
