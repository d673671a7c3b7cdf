package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/tarmason/fleetgate/internal/audit"
	"github.com/tarmason/fleetgate/internal/eauth"
	"github.com/tarmason/fleetgate/internal/hypermedia"
	"github.com/tarmason/fleetgate/internal/lowdata"
)

// handleEntryGet greets an authenticated client. Browsers get the
// bootstrap page; API clients get the envelope in their negotiated
// format.
func (s *Server) handleEntryGet(_ http.ResponseWriter, r *http.Request) (*Envelope, error) {
	s.installHTML(r.Context(), "index.html")
	return &Envelope{Status: http.StatusOK, Message: msgWelcome}, nil
}

// handleEntryPost decodes the request body into a command batch and
// submits each descriptor to the runner, in order, one at a time. The
// collected results come back as {return: [...]} in submission order.
//
// A runner failure fails the whole request: no partial results are
// synthesized, the error goes through the 500 translator. Execution is
// detached from the client connection on purpose; a client that gives
// up mid-batch does not cancel commands already on the wire.
func (s *Server) handleEntryPost(_ http.ResponseWriter, r *http.Request) (*Envelope, error) {
	claims, err := s.callerIdentity(r)
	if err != nil {
		return nil, err
	}

	fields, err := s.decodeBody(r)
	if err != nil {
		return nil, err
	}

	batch, err := lowdata.Decode(fields)
	if err != nil {
		return nil, err
	}

	if s.runner == nil {
		return nil, &StatusError{Status: http.StatusServiceUnavailable, Message: msgNoRunner}
	}

	ctx := context.WithoutCancel(r.Context())
	results := make([]any, 0, len(batch))
	for i, chunk := range batch {
		fun, _ := chunk["fun"].(string)

		if s.hub != nil {
			s.hub.Broadcast(EventCommandSubmitted, map[string]any{
				"fun":      fun,
				"position": i,
				"of":       len(batch),
			})
		}

		start := time.Now()
		result, execErr := s.runner.Execute(ctx, chunk)

		if s.audit != nil {
			s.audit.CommandSubmitted(audit.Submission{
				User:     claims.Subject,
				Backend:  claims.Backend,
				Fun:      fun,
				Chunks:   len(batch),
				Outcome:  audit.CommandOutcome(execErr),
				Duration: time.Since(start),
			})
		}
		if execErr != nil {
			return nil, execErr
		}

		results = append(results, result)
	}

	if s.hub != nil {
		s.hub.Broadcast(EventCommandCompleted, map[string]any{"chunks": len(batch)})
	}

	return &Envelope{Return: results}, nil
}

// callerIdentity verifies the session's token and returns its claims.
// The gate only checks that a token exists; this is where it is used,
// so this is where a forged or expired one gets rejected.
func (s *Server) callerIdentity(r *http.Request) (*eauth.Claims, error) {
	sess := sessionFrom(r.Context())
	if sess == nil || sess.Token == "" {
		return nil, &StatusError{Status: http.StatusUnauthorized, Message: msgPleaseLogin}
	}

	claims, err := eauth.ParseToken(sess.Token, s.secret)
	if err != nil {
		return nil, &StatusError{Status: http.StatusUnauthorized, Message: msgAuthFailed}
	}
	return claims, nil
}

// decodeBody negotiates the request's input format and parses the body
// into a flat field mapping.
func (s *Server) decodeBody(r *http.Request) (map[string]any, error) {
	decoder, err := hypermedia.SelectInput(r.Header.Get("Content-Type"), s.input)
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	fields, err := decoder(body)
	if err != nil {
		return nil, &StatusError{Status: http.StatusBadRequest, Message: err.Error()}
	}
	return fields, nil
}
