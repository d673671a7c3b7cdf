package eauth

import (
	"context"
	"log/slog"
	"testing"
)

func TestSeedOperator_CreatesOnEmptyDB(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	password, err := SeedOperator(ctx, repo, slog.Default())
	if err != nil {
		t.Fatalf("SeedOperator() error = %v", err)
	}
	if password == "" {
		t.Fatal("SeedOperator() should return the generated password")
	}

	operator, err := repo.GetByUsername(ctx, "operator")
	if err != nil {
		t.Fatalf("GetByUsername(operator) error = %v", err)
	}
	if !operator.Active {
		t.Error("seed operator should be active")
	}

	ok, err := VerifyPassword(password, operator.PasswordHash)
	if err != nil {
		t.Fatalf("VerifyPassword() error = %v", err)
	}
	if !ok {
		t.Error("generated password should verify against stored hash")
	}
}

func TestSeedOperator_SkipsWhenUsersExist(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createTestUser(t, repo, "existing", "fleet-pass-1")

	password, err := SeedOperator(ctx, repo, slog.Default())
	if err != nil {
		t.Fatalf("SeedOperator() error = %v", err)
	}
	if password != "" {
		t.Errorf("SeedOperator() = %q, want empty (seeding skipped)", password)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1 (no operator added)", count)
	}
}
