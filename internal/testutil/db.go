package testutil

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/lifedash/questlog/internal/db"
)

// OpenTestDB opens an in-memory SQLite database with all migrations
// applied. It is closed when the test ends.
func OpenTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Init("sqlite", ":memory:?_pragma=foreign_keys(1)&_time_format=sqlite")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(database) })

	if err := db.RunMigrations(database.DB, "sqlite"); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return database
}
