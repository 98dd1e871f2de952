package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Outcome classifies how a watch session ended.
type Outcome string

const (
	// OutcomeStreamed marks a session that streamed and was terminated by
	// the operator (signal or detach).
	OutcomeStreamed Outcome = "streamed"
	// OutcomeTimeout marks a session whose target never appeared.
	OutcomeTimeout Outcome = "timeout"
	// OutcomeError marks a session ended by an I/O failure mid-stream.
	OutcomeError Outcome = "error"
	// OutcomeCanceled marks a session canceled before streaming began.
	OutcomeCanceled Outcome = "canceled"
)

// Session is one recorded watch of a target.
type Session struct {
	ID        string
	TargetID  string
	Path      string
	StartedAt time.Time
	EndedAt   *time.Time
	Outcome   Outcome
	Lines     int64
	Error     string
}

// Store manages watch session persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database and applies migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) applyMigrations(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS watch_sessions (
            id TEXT PRIMARY KEY,
            target_id TEXT NOT NULL,
            path TEXT NOT NULL,
            started_at TEXT NOT NULL,
            ended_at TEXT,
            outcome TEXT,
            lines INTEGER NOT NULL DEFAULT 0,
            error_message TEXT
        )`)
	if err != nil {
		return fmt.Errorf("create watch_sessions table: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_watch_sessions_target ON watch_sessions (target_id, started_at)`)
	if err != nil {
		return fmt.Errorf("create watch_sessions index: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Begin records the start of a watch session and returns it.
func (s *Store) Begin(ctx context.Context, targetID, path string) (*Session, error) {
	session := &Session{
		ID:        uuid.NewString(),
		TargetID:  targetID,
		Path:      path,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO watch_sessions (id, target_id, path, started_at) VALUES (?, ?, ?, ?)`,
		session.ID,
		session.TargetID,
		session.Path,
		session.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return session, nil
}

// Finish records how a session ended.
func (s *Store) Finish(ctx context.Context, id string, outcome Outcome, lines int64, errMessage string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE watch_sessions
         SET ended_at = ?, outcome = ?, lines = ?, error_message = ?
         WHERE id = ?`,
		now.Format(time.RFC3339Nano),
		string(outcome),
		lines,
		nullableString(errMessage),
		id,
	)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	return nil
}

// GetByID fetches a session by identifier.
func (s *Store) GetByID(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM watch_sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// Recent returns the most recently started sessions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+sessionColumns+` FROM watch_sessions ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent sessions: %w", err)
	}
	defer rows.Close()
	return collectSessions(rows)
}

// RecentForTarget returns the most recent sessions for one target, newest first.
func (s *Store) RecentForTarget(ctx context.Context, targetID string, limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+sessionColumns+` FROM watch_sessions WHERE target_id = ? ORDER BY started_at DESC LIMIT ?`,
		targetID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions for target: %w", err)
	}
	defer rows.Close()
	return collectSessions(rows)
}

// Purge removes sessions started before the cutoff and reports how many.
func (s *Store) Purge(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM watch_sessions WHERE started_at < ?`,
		before.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return res.RowsAffected()
}

const sessionColumns = "id, target_id, path, started_at, ended_at, outcome, lines, error_message"

func collectSessions(rows *sql.Rows) ([]*Session, error) {
	var sessions []*Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func scanSession(scanner interface{ Scan(dest ...any) error }) (*Session, error) {
	var (
		id         string
		targetID   string
		path       string
		startedRaw string
		endedRaw   sql.NullString
		outcome    sql.NullString
		lines      sql.NullInt64
		errMessage sql.NullString
	)

	if err := scanner.Scan(&id, &targetID, &path, &startedRaw, &endedRaw, &outcome, &lines, &errMessage); err != nil {
		return nil, err
	}

	session := &Session{
		ID:       id,
		TargetID: targetID,
		Path:     path,
		Outcome:  Outcome(outcome.String),
		Lines:    lines.Int64,
		Error:    errMessage.String,
	}
	if started, err := parseTimeString(startedRaw); err == nil {
		session.StartedAt = started
	}
	if endedRaw.Valid {
		if ended, err := parseTimeString(endedRaw.String); err == nil {
			session.EndedAt = &ended
		}
	}
	return session, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}
