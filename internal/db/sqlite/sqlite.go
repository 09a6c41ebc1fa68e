// Package sqlite opens the embedded record store.
//
// WAL with a busy timeout lets searches read while seeding writes.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	// Register sqlite driver
	_ "modernc.org/sqlite"
)

// Store is an open SQLite database with the kinsearch schema available.
type Store struct {
	db *sql.DB
}

// pragmas are applied by the driver to every pooled connection.
var pragmas = []string{
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// Open opens the database file at path. ":memory:" (or any "file::memory:"
// DSN) is pinned to one connection so every query sees the same database.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if strings.Contains(path, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	return &Store{db: db}, nil
}

func dsn(path string) string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + q.Encode()
}

// Init creates tables and indexes if they don't exist.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return s.addColumn(ctx, "audit_logs", "search_type", `TEXT NOT NULL DEFAULT 'text'`)
}

// addColumn adds a column missing from a table created by an older schema.
func (s *Store) addColumn(ctx context.Context, table, column, decl string) error {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&n)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", table, err)
	}
	if n > 0 {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `ALTER TABLE `+table+` ADD COLUMN `+column+` `+decl); err != nil {
		return fmt.Errorf("add %s.%s: %w", table, column, err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection pool for repositories.
func (s *Store) DB() *sql.DB {
	return s.db
}

const schema = `
CREATE TABLE IF NOT EXISTS deceased_records (
	id                    TEXT PRIMARY KEY,
	full_name             TEXT NOT NULL DEFAULT '',
	died_at               TEXT,
	found_at              TEXT,
	location_found        TEXT NOT NULL DEFAULT '',
	condition_of_body     TEXT NOT NULL DEFAULT '',
	clothing_description  TEXT NOT NULL DEFAULT '',
	personal_effects      TEXT NOT NULL DEFAULT '',
	distinguishing_marks  TEXT NOT NULL DEFAULT '',
	identification_status TEXT NOT NULL DEFAULT 'unidentified',
	is_public_viewable    INTEGER NOT NULL DEFAULT 0,
	created_at            TEXT
);

CREATE TABLE IF NOT EXISTS investigation_reports (
	id                         TEXT PRIMARY KEY,
	case_id                    TEXT NOT NULL DEFAULT '',
	deceased_record_id         TEXT NOT NULL REFERENCES deceased_records(id),
	jurisdiction               TEXT NOT NULL DEFAULT '',
	circumstances_of_discovery TEXT NOT NULL DEFAULT '',
	evidence_collected         TEXT NOT NULL DEFAULT '',
	officer_notes              TEXT NOT NULL DEFAULT '',
	status                     TEXT NOT NULL DEFAULT '',
	created_at                 TEXT
);

CREATE INDEX IF NOT EXISTS idx_reports_deceased ON investigation_reports(deceased_record_id);

CREATE TABLE IF NOT EXISTS audit_logs (
	id            TEXT PRIMARY KEY,
	action        TEXT NOT NULL,
	actor_role    TEXT NOT NULL,
	actor_id      TEXT NOT NULL DEFAULT '',
	search_type   TEXT NOT NULL DEFAULT 'text',
	query_excerpt TEXT NOT NULL DEFAULT '',
	result_count  INTEGER NOT NULL DEFAULT 0,
	created_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_created ON audit_logs(created_at);
`
