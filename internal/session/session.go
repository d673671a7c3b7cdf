package session

import (
	"errors"
	"time"
)

// TokenHeader is the request header that carries a session ID as an
// alternative to the session cookie. When present it takes precedence
// over the cookie, so CLI clients never need cookie jars.
const TokenHeader = "X-Auth-Token"

// Session represents one client session tracked by the gateway.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"-"` // auth token minted at login, never serialised
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Authenticated reports whether a login has attached an auth token to
// this session.
func (s *Session) Authenticated() bool {
	return s.Token != ""
}

// Expired reports whether the session's idle deadline has passed.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Sentinel errors for session operations.
var (
	ErrNotFound = errors.New("session not found")
)
