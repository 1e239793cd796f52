// Package dbtest provides helpers for testing database code.
package dbtest

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	// Register the sqlite driver for every package that uses these helpers.
	_ "modernc.org/sqlite"

	"github.com/starquake/quizbase/internal/db"
)

// SetupTestDB creates a temporary SQLite database file and returns its DSN.
// The file lives in t.TempDir and is removed with it.
func SetupTestDB(tb testing.TB) string {
	tb.Helper()

	tmpDB, err := os.CreateTemp(tb.TempDir(), "quizbase-test-*.sqlite")
	if err != nil {
		tb.Fatalf("failed to create temp db: %v", err)
	}
	if err = tmpDB.Close(); err != nil {
		tb.Fatalf("failed to close temp db: %v", err)
	}

	return fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)",
		tmpDB.Name(),
	)
}

// Open opens an in-memory database with migrations applied. It is closed when the test ends.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	conn := OpenUnmigrated(t)

	if err := db.Migrate(t.Context(), conn, "sqlite"); err != nil {
		t.Fatalf("error running migrations: %v", err)
	}

	return conn
}

// OpenUnmigrated opens an in-memory database without migrations applied.
func OpenUnmigrated(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("error opening SQLite database: %v", err)
	}
	// Every connection to :memory: is a separate database, so pin the pool to one.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}
