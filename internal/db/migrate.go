package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies the schema. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS records (
		id         TEXT PRIMARY KEY,
		user_name  TEXT NOT NULL,
		kind       TEXT NOT NULL CHECK(kind IN ('work','break')),
		position   INTEGER NOT NULL CHECK(position >= 0),
		start_at   TEXT NOT NULL,
		end_at     TEXT,
		label      TEXT NOT NULL DEFAULT '',
		UNIQUE(user_name, kind, position)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_records_user ON records(user_name, kind, position)`,

	`CREATE TABLE IF NOT EXISTS notes (
		user_name  TEXT PRIMARY KEY,
		body       TEXT NOT NULL DEFAULT '',
		saved_at   TEXT NOT NULL DEFAULT ''
	)`,
}
