package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/smolrome/DailyTimeRecord/internal/db"
)

// NewTestDB opens a migrated in-memory database, closed on cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openTestDB(t, db.MemoryPath)
}

// NewTestDBFile opens a migrated database file under t.TempDir and
// returns its path so a test can reopen it.
func NewTestDBFile(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dtr.db")
	return openTestDB(t, path), path
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

func openTestDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(path)
	if err != nil {
		t.Fatalf("failed to open test database %s: %v", path, err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}
