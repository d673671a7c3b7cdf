// Package api provides the HTTP command gateway for fleetgate.
//
// It exposes the command submission surface, the login flow, and the
// WebSocket event feed to operator tooling and scripts.
//
// The server follows the same lifecycle pattern as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tarmason/fleetgate/internal/audit"
	"github.com/tarmason/fleetgate/internal/eauth"
	"github.com/tarmason/fleetgate/internal/hypermedia"
	"github.com/tarmason/fleetgate/internal/infrastructure/config"
	"github.com/tarmason/fleetgate/internal/infrastructure/logging"
	"github.com/tarmason/fleetgate/internal/runner"
	"github.com/tarmason/fleetgate/internal/session"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// healthCheckTimeout bounds the subsystem probes run by the /healthz handler.
const healthCheckTimeout = 5 * time.Second

// HealthChecker is implemented by subsystems that report liveness through
// the /healthz endpoint. Infrastructure clients (database, MQTT, InfluxDB)
// all satisfy it.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config      config.APIConfig
	WS          config.WebSocketConfig
	Logger      *logging.Logger
	Sessions    *session.Manager
	Auth        *eauth.Registry
	Runner      runner.Runner            // optional: submissions answer 503 without one
	Audit       *audit.Recorder          // optional: no audit trail when nil
	Checks      map[string]HealthChecker // optional: subsystems probed by /healthz
	TokenSecret string
	Debug       bool // when true, 500 envelopes carry the underlying error text
	Version     string
}

// Server is the fleetgate HTTP gateway.
//
// It manages the HTTP listener, routes, middleware, and the WebSocket
// event hub. The server is created with New() and started with Start().
type Server struct {
	cfg      config.APIConfig
	wsCfg    config.WebSocketConfig
	logger   *logging.Logger
	sessions *session.Manager
	eauth    *eauth.Registry
	runner   runner.Runner
	audit    *audit.Recorder
	checks   map[string]HealthChecker
	secret   string
	debug    bool
	version  string

	// output and input are the startup representation registries. The
	// output registry is never mutated after construction; responses that
	// need an HTML override work on a per-request clone.
	output *hypermedia.Registry
	input  *hypermedia.InputRegistry

	server *http.Server
	hub    *Hub
	cancel context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, sessions, eauth registry)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("eauth registry is required")
	}
	if deps.TokenSecret == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	// Runner is optional: submissions answer 503 until one is configured.

	s := &Server{
		cfg:      deps.Config,
		wsCfg:    deps.WS,
		logger:   deps.Logger,
		sessions: deps.Sessions,
		eauth:    deps.Auth,
		runner:   deps.Runner,
		audit:    deps.Audit,
		checks:   deps.Checks,
		secret:   deps.TokenSecret,
		debug:    deps.Debug,
		version:  deps.Version,
		output:   hypermedia.DefaultOutput(),
		input:    hypermedia.DefaultInput(),
	}

	// The hub exists from construction so broadcasts before Start() are
	// safe no-ops rather than nil dereferences.
	s.hub = NewHub(deps.WS, deps.Logger)

	return s, nil
}

// Hub returns the WebSocket event hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start begins listening for HTTP connections.
//
// It starts the WebSocket hub and launches the HTTP listener in a
// background goroutine. The server can be stopped with Close().
//
// Parameters:
//   - ctx: Context for cancellation (not used for listener lifetime)
//
// Returns:
//   - error: If the server fails to start (port in use, etc.)
func (s *Server) Start(ctx context.Context) error {
	// Create internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	go s.hub.Run(srvCtx)

	// Build router
	router := s.buildRouter()

	// Create HTTP server
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	// Start listening in background
	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	// Cancel background goroutines (event hub)
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
