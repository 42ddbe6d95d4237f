// Package sqlite persists the collection in a single-file SQLite database,
// the zero-dependency deployment option.
package sqlite

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"
)

// Open opens the database with WAL and a busy timeout, then creates the
// schema if it is missing.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}

	// modernc.org/sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS pets (
			id         TEXT PRIMARY KEY,
			owner_id   TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
			name       TEXT NOT NULL,
			owner_name TEXT NOT NULL,
			image_url  TEXT NOT NULL,
			age        INTEGER NOT NULL,
			notes      TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_pets_owner ON pets (owner_id, created_at);
	`)
	return err
}
