package eauth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSQLiteIssuer_ValidCredentials(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	createTestUser(t, repo, "ops", "fleet-pass-1")

	issuer := NewSQLiteIssuer(repo, testSecret, time.Hour)

	token, err := issuer.IssueToken(context.Background(), Credentials{
		Username: "ops",
		Password: "fleet-pass-1",
		Backend:  "sqlite",
	})
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	claims, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.Subject != "ops" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "ops")
	}
	if claims.Backend != "sqlite" {
		t.Errorf("Backend = %q, want %q", claims.Backend, "sqlite")
	}
}

func TestSQLiteIssuer_WrongPassword(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	createTestUser(t, repo, "ops", "fleet-pass-1")

	issuer := NewSQLiteIssuer(repo, testSecret, time.Hour)

	_, err := issuer.IssueToken(context.Background(), Credentials{
		Username: "ops",
		Password: "nope",
		Backend:  "sqlite",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("IssueToken() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestSQLiteIssuer_UnknownUser(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)

	issuer := NewSQLiteIssuer(repo, testSecret, time.Hour)

	_, err := issuer.IssueToken(context.Background(), Credentials{
		Username: "ghost",
		Password: "fleet-pass-1",
		Backend:  "sqlite",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("IssueToken() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestSQLiteIssuer_DisabledAccount(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, repo, "ops", "fleet-pass-1")
	if err := repo.SetActive(ctx, user.ID, false); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}

	issuer := NewSQLiteIssuer(repo, testSecret, time.Hour)

	// Correct password, disabled account: same error as bad credentials.
	_, err := issuer.IssueToken(ctx, Credentials{
		Username: "ops",
		Password: "fleet-pass-1",
		Backend:  "sqlite",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("IssueToken() error = %v, want ErrInvalidCredentials", err)
	}
}
