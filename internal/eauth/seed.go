package eauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
)

// seedPasswordBytes is the number of random bytes for the seed operator password.
const seedPasswordBytes = 16

// SeedOperator creates the initial operator account on first boot if no
// users exist. The generated password is logged once and must be changed
// immediately. Returns the generated password, or an empty string when
// seeding was skipped because accounts already exist.
func SeedOperator(ctx context.Context, repo UserRepository, logger *slog.Logger) (string, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("checking user count: %w", err)
	}

	if count > 0 {
		return "", nil
	}

	passwordBytes := make([]byte, seedPasswordBytes)
	if _, err := rand.Read(passwordBytes); err != nil { //nolint:govet // shadow: err re-declared in nested scope
		return "", fmt.Errorf("generating seed password: %w", err)
	}
	password := hex.EncodeToString(passwordBytes)

	hash, err := HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing seed password: %w", err)
	}

	operator := &User{
		Username:     "operator",
		PasswordHash: hash,
		Active:       true,
	}

	if err := repo.Create(ctx, operator); err != nil {
		return "", fmt.Errorf("creating seed operator: %w", err)
	}

	logger.Warn("seed operator account created",
		"username", operator.Username,
		"password", password,
		"action_required", "change this password immediately",
	)

	return password, nil
}
