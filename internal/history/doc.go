// Package history persists a record of watch sessions in SQLite: which
// target was followed, when, how many lines were streamed, and how the
// session ended. Recording is best-effort; callers must not let a history
// failure interrupt streaming.
package history
