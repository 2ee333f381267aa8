package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tracker-cli/internal/model"

	_ "modernc.org/sqlite"
)

// SQLite is the default KV backend. Values live in a two-column kv table;
// every persisted mutation is also appended to an events table.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (and migrates) the sqlite file at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids "database is locked" flakiness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLite{db: db, path: path}, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			project_id TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			issued_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_issued ON events(issued_at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLite) Path() string { return s.path }

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO kv(k, v, updated_at_unixms) VALUES(?, ?, ?)`,
		key, value, time.Now().UTC().UnixMilli())
	return err
}

func (s *SQLite) AppendEvent(ctx context.Context, ev model.Event) error {
	if strings.TrimSpace(ev.ID) == "" {
		return errors.New("event id is empty")
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO events(event_id, type, project_id, entity_id, issued_at_unixms) VALUES(?, ?, ?, ?, ?)`,
		ev.ID, ev.Type, ev.ProjectID, ev.EntityID, ev.TS.UTC().UnixMilli())
	return err
}

// Events returns the most recent events, newest first. limit <= 0 means all.
func (s *SQLite) Events(ctx context.Context, limit int) ([]model.Event, error) {
	q := `SELECT event_id, type, project_id, entity_id, issued_at_unixms FROM events ORDER BY issued_at_unixms DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var ev model.Event
		var ms int64
		if err := rows.Scan(&ev.ID, &ev.Type, &ev.ProjectID, &ev.EntityID, &ms); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(ms).UTC()
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
