package eauth

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// testDB creates a temporary SQLite database with the users schema
// applied. The database file is cleaned up when the test completes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	// Use a temp file so WAL mode works (in-memory doesn't support it)
	f, err := os.CreateTemp("", "eauth-test-*.db")
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
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		) STRICT;
	`
	if _, err := db.Exec(schemaSQL); err != nil {
		t.Fatalf("applying users schema: %v", err)
	}

	return db
}

// createTestUser inserts an active account with the given credentials.
func createTestUser(t *testing.T, repo UserRepository, username, password string) *User {
	t.Helper()

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	user := &User{
		Username:     username,
		PasswordHash: hash,
		Active:       true,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create(%q) error = %v", username, err)
	}
	return user
}
