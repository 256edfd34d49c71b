// Package sqlite implements the repositories on an embedded SQLite database.
// It backs single-node deployments and the service tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const currentVersion = 1

// timestamps are fixed-width UTC text so that string order is time order
const (
	timeLayout = "2006-01-02T15:04:05.000000Z"
	dateLayout = "2006-01-02"
)

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// one writer; also keeps a :memory: database on a single connection
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if _, err := s.db.Exec(schemaV1); err != nil {
			return fmt.Errorf("apply v1: %w", err)
		}
	}

	_, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

const schemaV1 = `
CREATE TABLE IF NOT EXISTS users (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id         TEXT PRIMARY KEY,
	project_id TEXT NOT NULL REFERENCES projects(id),
	title      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS clock_entries (
	id                TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL,
	clock_in          TEXT NOT NULL,
	clock_out         TEXT,
	expected_clock_in TEXT NOT NULL,
	is_late           INTEGER NOT NULL DEFAULT 0,
	late_minutes      INTEGER NOT NULL DEFAULT 0 CHECK (late_minutes >= 0),
	duration_minutes  INTEGER CHECK (duration_minutes >= 0),
	is_overtime       INTEGER NOT NULL DEFAULT 0,
	overtime_minutes  INTEGER NOT NULL DEFAULT 0 CHECK (overtime_minutes >= 0),
	status            TEXT NOT NULL CHECK (status IN ('in_progress', 'completed', 'approved', 'rejected')),
	reviewed_by       TEXT,
	reviewed_at       TEXT,
	review_note       TEXT,
	created_at        TEXT NOT NULL,
	updated_at        TEXT NOT NULL,
	CHECK (clock_out IS NULL OR clock_out >= clock_in),
	CHECK ((status = 'in_progress') = (duration_minutes IS NULL))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_clock_entries_one_open
	ON clock_entries(user_id) WHERE status = 'in_progress';
CREATE INDEX IF NOT EXISTS idx_clock_entries_user_clock_in
	ON clock_entries(user_id, clock_in);

CREATE TABLE IF NOT EXISTS work_logs (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	task_id     TEXT,
	project_id  TEXT,
	work_date   TEXT NOT NULL,
	hours       TEXT NOT NULL,
	description TEXT,
	is_billable INTEGER NOT NULL DEFAULT 0,
	work_type   TEXT NOT NULL DEFAULT 'regular',
	created_by  TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_work_logs_user_date    ON work_logs(user_id, work_date);
CREATE INDEX IF NOT EXISTS idx_work_logs_project_date ON work_logs(project_id, work_date);
CREATE INDEX IF NOT EXISTS idx_work_logs_task         ON work_logs(task_id);

CREATE TABLE IF NOT EXISTS attendance_policies (
	user_id                TEXT PRIMARY KEY,
	expected_clock_in      TEXT,
	standard_daily_minutes INTEGER,
	timezone               TEXT,
	updated_at             TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_events (
	id          TEXT PRIMARY KEY,
	type        TEXT NOT NULL,
	user_id     TEXT NOT NULL,
	actor_id    TEXT,
	entity_type TEXT NOT NULL,
	entity_id   TEXT NOT NULL,
	data        TEXT,
	occurred_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_events_user ON audit_events(user_id, occurred_at);
`

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE")
}
