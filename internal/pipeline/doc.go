// Package pipeline sequences the per-file processing stages and defines
// their error containment: extraction degrades, organize aborts the file,
// nothing aborts the watch loop.
package pipeline
