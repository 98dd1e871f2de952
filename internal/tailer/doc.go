// Package tailer implements the wait-then-follow core: a bounded wait for a
// log file to appear, an initial "last N lines" snapshot, and an indefinite
// stream of newly appended lines.
//
// It reads with bounded memory, keeps the stream cursor on whole-line
// boundaries so nothing is emitted twice, and wakes on filesystem
// notifications with interval polling as the fallback. Callers supply
// context cancellation as the only stop signal; every other exit is a
// timeout or an I/O error, surfaced rather than swallowed.
package tailer
