package eauth

import (
	"context"
	"fmt"
	"time"
)

// StaticIssuer authenticates against username/password pairs fixed in
// the gateway configuration. Passwords are stored as argon2id PHC
// hashes, never plaintext.
type StaticIssuer struct {
	users  map[string]string // username -> PHC hash
	secret string
	ttl    time.Duration
}

// NewStaticIssuer creates an issuer over a static user table. The secret
// signs minted tokens; ttl bounds their lifetime.
func NewStaticIssuer(users map[string]string, secret string, ttl time.Duration) *StaticIssuer {
	return &StaticIssuer{
		users:  users,
		secret: secret,
		ttl:    ttl,
	}
}

// IssueToken verifies the password against the configured hash and mints
// a token carrying the username and backend name.
func (i *StaticIssuer) IssueToken(_ context.Context, creds Credentials) (string, error) {
	hash, ok := i.users[creds.Username]
	if !ok {
		return "", ErrInvalidCredentials
	}

	match, err := VerifyPassword(creds.Password, hash)
	if err != nil {
		return "", fmt.Errorf("verifying password: %w", err)
	}
	if !match {
		return "", ErrInvalidCredentials
	}

	return MintToken(creds.Username, creds.Backend, i.secret, i.ttl)
}
