// Package logging builds the slog logger used for porthole diagnostics.
// Console and JSON handlers share the same level handling; output defaults
// to stderr so the followed log stream on stdout is never interleaved with
// tool chatter.
package logging
