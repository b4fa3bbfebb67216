// Package sqlite implements the repository interfaces on an embedded SQLite
// database.
//
// STORAGE LAYOUT:
// Users are plain rows. A resume is a row holding its owner, title and
// thumbnail as columns and every nested section (template, profileInfo,
// workExperience, …) as one JSON document in the `content` column. Reads
// decode that JSON into model.ResumeContent; the upload-images update edits
// it in place with SQLite's json_set.
//
// modernc.org/sqlite is a pure Go translation of SQLite, so the binary needs
// no C toolchain. ":memory:" gives an in-memory database for tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/resume-builder/internal/repository"
)

var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool and implements repository.Store.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath, applies connection settings and runs
// migrations.
//
// CONNECTION POOL:
// The pool is capped at one connection. PRAGMAs are per connection, and an
// in-memory database exists only inside the connection that created it, so
// a second pooled connection would see neither. SQLite serialises writers
// anyway.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", p, err)
		}
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. Every statement is idempotent, so it runs on
// each start.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id                TEXT PRIMARY KEY,
			name              TEXT NOT NULL,
			email             TEXT NOT NULL UNIQUE,
			password_hash     TEXT NOT NULL,
			profile_image_url TEXT,
			created_at        DATETIME NOT NULL,
			updated_at        DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// ON DELETE CASCADE: a resume never outlives its owner.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS resumes (
			id             TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title          TEXT NOT NULL,
			thumbnail_link TEXT NOT NULL DEFAULT '',
			content        TEXT NOT NULL DEFAULT '{}',
			created_at     DATETIME NOT NULL,
			updated_at     DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_resumes_user_updated ON resumes(user_id, updated_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("creating resumes table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr *moderncsqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
