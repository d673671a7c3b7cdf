package session

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tarmason/fleetgate/internal/infrastructure/config"
	"github.com/tarmason/fleetgate/internal/infrastructure/logging"
)

// testDB creates a temporary SQLite database with the sessions schema
// applied. The database file is cleaned up when the test completes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	// Use a temp file so WAL mode works (in-memory doesn't support it)
	f, err := os.CreateTemp("", "session-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schemaSQL := `
		CREATE TABLE sessions (
			id TEXT PRIMARY KEY,
			token TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			expires_at TEXT NOT NULL
		) STRICT;

		CREATE INDEX idx_sessions_expires_at ON sessions(expires_at);
	`
	if _, err := db.Exec(schemaSQL); err != nil {
		t.Fatalf("applying sessions schema: %v", err)
	}

	return db
}

// testLogger returns a logger that only emits errors, keeping test
// output quiet.
func testLogger() *logging.Logger {
	return logging.New(config.LoggingConfig{
		Level:  "error",
		Format: "json",
		Output: "stdout",
	}, "test")
}
