// Package organize places named files into the organized root, resolving
// name conflicts with numeric suffixes and retrying renames that hit
// transient permission errors.
package organize
