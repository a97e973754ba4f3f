// Package history keeps an opt-in local log of successful quota
// fetches so past readings can be inspected after the statusline has
// moved on. Recording is best-effort: a broken history database must
// never break rendering.
package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/ccline/ccline/internal/errors"
	"github.com/ccline/ccline/internal/quota"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS quota_snapshots (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	render_id          TEXT,
	model_id           TEXT NOT NULL,
	display_name       TEXT NOT NULL,
	remaining_fraction REAL NOT NULL,
	auth_type          TEXT NOT NULL,
	fetched_at         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_quota_snapshots_fetched_at ON quota_snapshots(fetched_at);
`

// Store is a SQLite-backed snapshot log with WAL mode enabled.
type Store struct {
	db *sql.DB
}

// Snapshot is one recorded quota reading.
type Snapshot struct {
	ID                int64
	RenderID          string
	ModelID           string
	DisplayName       string
	RemainingFraction float64
	AuthType          string
	FetchedAt         time.Time
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &errors.ErrDirectoryCreate{Path: dir, Err: err}
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, &errors.ErrDatabaseOpen{Path: path, Err: err}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &errors.ErrDatabaseOpen{Path: path, Err: err}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &errors.ErrDatabaseOpen{Path: path, Err: err}
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one row per reading from a successful fresh fetch.
func (s *Store) Record(renderID string, quotas []quota.ModelQuota, fetchedAt time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &errors.ErrDatabaseQuery{Operation: "record_snapshots", Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO quota_snapshots
		(render_id, model_id, display_name, remaining_fraction, auth_type, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return &errors.ErrDatabaseQuery{Operation: "record_snapshots", Err: err}
	}
	defer stmt.Close()

	at := fetchedAt.UTC().Format(time.RFC3339)
	for _, q := range quotas {
		if _, err := stmt.Exec(renderID, q.ModelID, q.DisplayName, q.RemainingFraction, q.AuthType, at); err != nil {
			return &errors.ErrDatabaseQuery{Operation: "record_snapshots", Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &errors.ErrDatabaseQuery{Operation: "record_snapshots", Err: err}
	}
	return nil
}

// Recent returns the newest snapshots, most recent first.
func (s *Store) Recent(limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`SELECT id, render_id, model_id, display_name, remaining_fraction, auth_type, fetched_at
		FROM quota_snapshots ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, &errors.ErrDatabaseQuery{Operation: "recent_snapshots", Err: err}
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var snap Snapshot
		var fetchedAt string
		if err := rows.Scan(&snap.ID, &snap.RenderID, &snap.ModelID, &snap.DisplayName,
			&snap.RemainingFraction, &snap.AuthType, &fetchedAt); err != nil {
			return nil, &errors.ErrDatabaseQuery{Operation: "recent_snapshots", Err: err}
		}
		if at, err := time.Parse(time.RFC3339, fetchedAt); err == nil {
			snap.FetchedAt = at
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, &errors.ErrDatabaseQuery{Operation: "recent_snapshots", Err: err}
	}
	return snapshots, nil
}

// Count returns the number of stored snapshots.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM quota_snapshots`).Scan(&n); err != nil {
		return 0, &errors.ErrDatabaseQuery{Operation: "count_snapshots", Err: err}
	}
	return n, nil
}
