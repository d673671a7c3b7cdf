package api

import (
	"errors"
	"net/http"

	"github.com/tarmason/fleetgate/internal/eauth"
	"github.com/tarmason/fleetgate/internal/session"
)

// handleLoginGet challenges the client to authenticate. It answers 401
// with the login form on the HTML slot, and runs both for direct GET
// /login requests and in place of any unauthenticated gated GET.
func (s *Server) handleLoginGet(w http.ResponseWriter, r *http.Request) (*Envelope, error) {
	if _, err := s.requestSession(w, r); err != nil {
		return nil, err
	}

	s.installHTML(r.Context(), "login.html")
	w.Header().Set("WWW-Authenticate", "Session")
	return &Envelope{Status: http.StatusUnauthorized, Message: msgPleaseLogin}, nil
}

// handleLoginPost authenticates the posted credentials against the named
// eauth backend and binds the issued token to the caller's session.
//
// Success answers 302 to the entry URL with the session ID echoed in the
// X-Auth-Token header, which is the credential CLI clients replay.
// Failure is an explicit 401 envelope through normal negotiation; the
// session stays anonymous.
func (s *Server) handleLoginPost(w http.ResponseWriter, r *http.Request) (*Envelope, error) {
	fields, err := s.decodeBody(r)
	if err != nil {
		return nil, err
	}

	creds := eauth.Credentials{
		Username: stringField(fields, "username"),
		Password: stringField(fields, "password"),
		Backend:  stringField(fields, "eauth"),
	}

	issuer, err := s.eauth.Resolve(creds.Backend)
	if err != nil {
		s.recordLogin(creds, false)
		return &Envelope{Status: http.StatusUnauthorized, Message: msgAuthFailed}, nil
	}

	token, err := issuer.IssueToken(r.Context(), creds)
	if err != nil {
		if errors.Is(err, eauth.ErrInvalidCredentials) {
			s.recordLogin(creds, false)
			return &Envelope{Status: http.StatusUnauthorized, Message: msgAuthFailed}, nil
		}
		return nil, err
	}

	sess, err := s.requestSession(w, r)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.SetToken(r.Context(), sess, token); err != nil {
		return nil, err
	}

	s.recordLogin(creds, true)

	w.Header().Set(session.TokenHeader, sess.ID)
	http.Redirect(w, r, "/", http.StatusFound)
	return nil, nil
}

// requestSession returns the gate-resolved session, or resolves one for
// the direct /login routes that sit outside the gate.
func (s *Server) requestSession(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	if sess := sessionFrom(r.Context()); sess != nil {
		return sess, nil
	}
	return s.sessions.Ensure(r.Context(), w, r)
}

// recordLogin feeds a login outcome to the audit trail.
func (s *Server) recordLogin(creds eauth.Credentials, success bool) {
	if s.audit != nil {
		s.audit.LoginAttempt(creds.Username, creds.Backend, success)
	}
}

// stringField reads a string out of a decoded body mapping. Non-string
// values (a YAML number, a repeated form key) read as empty rather than
// failing: they can never match a credential anyway.
func stringField(fields map[string]any, key string) string {
	v, _ := fields[key].(string)
	return v
}
