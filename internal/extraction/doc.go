// Package extraction produces bounded text samples from incoming documents.
//
// Dispatch is by extension: PDFs go through the binary parser, plain-text
// files through an ordered encoding fallback (UTF-8, Latin-1, Windows-1252).
// Results are truncated to the configured character budget as a pure prefix.
package extraction
