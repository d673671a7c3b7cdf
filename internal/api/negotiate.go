package api

import (
	"context"
	"net/http"

	"github.com/tarmason/fleetgate/internal/hypermedia"
	"github.com/tarmason/fleetgate/internal/session"
)

// envelopeHandler is the shape of every negotiated route handler. It
// returns the response envelope plus an error for the translator, or
// (nil, nil) when it already wrote the response itself (redirects).
type envelopeHandler func(w http.ResponseWriter, r *http.Request) (*Envelope, error)

// envelope adapts an envelopeHandler into an http.HandlerFunc: run the
// handler, translate any failure, then serialize through negotiation.
func (s *Server) envelope(h envelopeHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env, err := h(w, r)
		if err != nil {
			env = s.translateError(r, err)
		}
		if env == nil {
			return
		}
		s.respond(w, r, env)
	}
}

// respond serializes an envelope per the request's Accept header using
// the response-scoped output registry. A 406 on the output side is final:
// it goes through the raw error writer rather than re-negotiating,
// because there is no representation left to negotiate with.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, env *Envelope) {
	mediaType, emitter, err := hypermedia.SelectOutput(r.Header.Get("Accept"), s.responseRegistry(r.Context()))
	if err != nil {
		http.Error(w, "Not Acceptable", http.StatusNotAcceptable)
		return
	}

	data, err := emitter.Emit(env)
	if err != nil {
		s.logger.Error("response serialization failed",
			"media_type", mediaType,
			"error", err,
		)
		http.Error(w, msgUnexpected, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", mediaType)
	status := env.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	//nolint:errcheck // Best-effort write to response; connection may be closed
	w.Write(data)
}

// responseRegistry returns this response's output registry. The
// negotiation middleware installs a clone of the startup registry per
// request, so handler overrides never leak across responses; the startup
// registry itself is the fallback for paths outside that middleware.
func (s *Server) responseRegistry(ctx context.Context) *hypermedia.Registry {
	if reg, ok := ctx.Value(ctxKeyRegistry).(*hypermedia.Registry); ok {
		return reg
	}
	return s.output
}

// withSession stores the request's resolved session in the context.
func withSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, ctxKeySession, sess)
}

// sessionFrom returns the session the gate resolved, or nil outside it.
func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(ctxKeySession).(*session.Session)
	return sess
}
