// Package config loads, normalizes, and validates the recue configuration.
//
// Configuration lives in a single TOML file. Load applies defaults first, so a
// missing file yields a usable configuration, then expands every path field to
// an absolute location and validates cross-field constraints.
package config
