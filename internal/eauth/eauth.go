package eauth

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Credentials carries one login attempt: who, their proof, and which
// backend should judge it.
type Credentials struct {
	Username string
	Password string
	Backend  string
}

// Issuer validates credentials and mints an auth token on success.
type Issuer interface {
	// IssueToken returns a signed token for valid credentials and
	// ErrInvalidCredentials when the proof does not hold.
	IssueToken(ctx context.Context, creds Credentials) (string, error)
}

// Sentinel errors for authentication operations.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownBackend     = errors.New("unknown eauth backend")
	ErrTokenInvalid       = errors.New("invalid token")
)

// Registry maps eauth backend names to issuers. It is assembled at
// startup and read-only afterwards, so lookups need no locking.
type Registry struct {
	issuers map[string]Issuer
}

// NewRegistry creates an empty backend registry.
func NewRegistry() *Registry {
	return &Registry{issuers: make(map[string]Issuer)}
}

// Register adds an issuer under a backend name, replacing any previous
// issuer registered under the same name.
func (r *Registry) Register(name string, issuer Issuer) {
	r.issuers[name] = issuer
}

// Resolve returns the issuer registered under a backend name.
func (r *Registry) Resolve(name string) (Issuer, error) {
	issuer, ok := r.issuers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return issuer, nil
}

// Backends returns the registered backend names in sorted order.
func (r *Registry) Backends() []string {
	names := make([]string, 0, len(r.issuers))
	for name := range r.issuers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
