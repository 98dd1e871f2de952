// Package config loads, normalizes, and validates porthole configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PORTHOLE_LOG_DIR. The Config type centralizes every knob the CLI needs, so
// the log directory, watch cadence, and display settings are discovered in
// one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical color/log modes, and clear validation errors.
package config
