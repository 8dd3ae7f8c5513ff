// Package config loads, normalizes, and validates docshelf configuration.
//
// Values come from three layers, lowest precedence first: built-in defaults,
// a TOML config file, and DOCSHELF_* environment variables. The resulting
// Config is immutable after Load; CLI overrides are applied to the value
// before any component is constructed.
package config
