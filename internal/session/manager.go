package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tarmason/fleetgate/internal/infrastructure/logging"
)

// Config holds session manager settings.
type Config struct {
	CookieName      string        // cookie carrying the session ID
	IdleTimeout     time.Duration // inactivity window before a session dies
	CleanupInterval time.Duration // how often expired rows are reaped
	Secure          bool          // set the Secure attribute on cookies
}

// Manager resolves, creates and expires sessions for HTTP requests.
type Manager struct {
	repo   Repository
	cfg    Config
	logger *logging.Logger
}

// NewManager creates a session manager. Zero config fields fall back to
// the defaults used across the gateway: cookie "session_id", ten minute
// idle window, one minute cleanup sweep.
func NewManager(repo Repository, cfg Config, logger *logging.Logger) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = "session_id"
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 10 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}

	return &Manager{
		repo:   repo,
		cfg:    cfg,
		logger: logger.With("component", "session"),
	}
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string {
	return m.cfg.CookieName
}

// Ensure resolves the request's session, creating a fresh anonymous one
// when the request names no live session. A resolved session has its idle
// deadline pushed forward; a created one has the session cookie written
// on the response.
//
// The X-Auth-Token header takes precedence over the cookie, so CLI
// clients can present a session ID without a cookie jar.
func (m *Manager) Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	now := time.Now().UTC()

	if id := m.requestSessionID(r); id != "" {
		s, err := m.repo.Get(ctx, id)
		switch {
		case err == nil && !s.Expired(now):
			s.ExpiresAt = now.Add(m.cfg.IdleTimeout)
			if err := m.repo.Touch(ctx, s.ID, s.ExpiresAt); err != nil {
				return nil, err
			}
			return s, nil

		case err == nil:
			// Stale row: reap now rather than waiting for the sweep.
			if err := m.repo.Delete(ctx, s.ID); err != nil {
				m.logger.Warn("failed to delete expired session",
					"session_id", s.ID, "error", err)
			}

		case !errors.Is(err, ErrNotFound):
			return nil, err
		}
	}

	s := &Session{ExpiresAt: now.Add(m.cfg.IdleTimeout)}
	if err := m.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	m.setCookie(w, s.ID)

	return s, nil
}

// SetToken attaches a freshly minted auth token to the session, marking
// it authenticated, and pushes its idle deadline forward.
func (m *Manager) SetToken(ctx context.Context, s *Session, token string) error {
	expiresAt := time.Now().UTC().Add(m.cfg.IdleTimeout)
	if err := m.repo.SetToken(ctx, s.ID, token, expiresAt); err != nil {
		return err
	}

	s.Token = token
	s.ExpiresAt = expiresAt
	return nil
}

// Run reaps expired sessions on a ticker until ctx is cancelled.
// Call it in a goroutine.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			n, err := m.repo.DeleteExpired(ctx)
			if err != nil {
				m.logger.Warn("session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				m.logger.Debug("reaped expired sessions", "count", n)
			}
		}
	}
}

// requestSessionID extracts the session ID presented by a request.
func (m *Manager) requestSessionID(r *http.Request) string {
	if id := r.Header.Get(TokenHeader); id != "" {
		return id
	}
	if c, err := r.Cookie(m.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

func (m *Manager) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
