package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tarmason/fleetgate/internal/hypermedia"
	"github.com/tarmason/fleetgate/internal/lowdata"
)

// Client-visible messages pinned by compatibility: existing salt-api style
// clients match on these strings.
const (
	msgWelcome     = "Welcome"
	msgPleaseLogin = "Please log in"
	msgAuthFailed  = "Could not authenticate using provided credentials"
	msgUnexpected  = "An unexpected error occurred"
	msgBadMedia    = "Content type not supported"
	msgNoRunner    = "No runner is configured"
)

// Envelope is the uniform response shape handed to content negotiation:
// {status, message} for acknowledgements and errors, {return: [...]} for
// successful command submissions.
type Envelope struct {
	Status  int    `json:"status,omitempty" yaml:"status,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	Return  []any  `json:"return,omitempty" yaml:"return,omitempty"`
}

// StatusError is a handler failure that chooses its own HTTP status and
// client-visible message. Anything else surfacing from a handler is
// translated to a 500 with detail gated by debug mode.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// translateError converts a handler failure into its response envelope.
// Known failures keep their status; everything else is an internal error,
// which also points the HTML slot of this response at the error page.
func (s *Server) translateError(r *http.Request, err error) *Envelope {
	var statusErr *StatusError
	var pairErr *lowdata.PairingError
	var sizeErr *http.MaxBytesError

	switch {
	case errors.As(err, &statusErr):
		return &Envelope{Status: statusErr.Status, Message: statusErr.Message}

	case errors.As(err, &pairErr):
		return &Envelope{Status: http.StatusBadRequest, Message: pairErr.Error()}

	case errors.Is(err, hypermedia.ErrUnsupportedMedia):
		return &Envelope{Status: http.StatusNotAcceptable, Message: msgBadMedia}

	case errors.As(err, &sizeErr):
		return &Envelope{Status: http.StatusRequestEntityTooLarge, Message: "Request body too large"}
	}

	s.logger.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
		"request_id", r.Context().Value(ctxKeyRequestID),
	)

	s.installHTML(r.Context(), "500.html")

	msg := msgUnexpected
	if s.debug {
		msg = err.Error()
	}
	return &Envelope{Status: http.StatusInternalServerError, Message: msg}
}
