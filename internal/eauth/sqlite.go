package eauth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// SQLiteIssuer authenticates against operator accounts stored in the
// gateway database. Unlike the static backend it supports runtime
// provisioning: accounts are added, disabled and re-keyed without a
// config reload.
type SQLiteIssuer struct {
	repo   UserRepository
	secret string
	ttl    time.Duration
}

// NewSQLiteIssuer creates an issuer over a user repository.
func NewSQLiteIssuer(repo UserRepository, secret string, ttl time.Duration) *SQLiteIssuer {
	return &SQLiteIssuer{
		repo:   repo,
		secret: secret,
		ttl:    ttl,
	}
}

// IssueToken verifies the password against the stored account and mints
// a token. Unknown usernames, wrong passwords and disabled accounts all
// fail with ErrInvalidCredentials so responses never reveal which part
// of the credential was wrong.
func (i *SQLiteIssuer) IssueToken(ctx context.Context, creds Credentials) (string, error) {
	user, err := i.repo.GetByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	if !user.Active {
		return "", ErrInvalidCredentials
	}

	match, err := VerifyPassword(creds.Password, user.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("verifying password: %w", err)
	}
	if !match {
		return "", ErrInvalidCredentials
	}

	return MintToken(creds.Username, creds.Backend, i.secret, i.ttl)
}
