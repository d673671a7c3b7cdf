// Package api implements the HTTP command gateway for fleetgate.
//
// This package provides:
//   - The command submission surface (GET and POST on /)
//   - The login flow issuing auth tokens through pluggable eauth backends
//   - Bidirectional content negotiation (JSON and YAML both ways, form
//     input, per-response HTML)
//   - WebSocket hub broadcasting command lifecycle events on /events
//   - Middleware stack (request ID, logging, recovery, CORS, cache
//     control, body size limit, session gate)
//   - TLS support for production deployments
//
// # Architecture
//
// The gateway sits between operator tooling (scripts, dashboards, CLI
// clients) and the execution backend. Commands arrive as low-data
// batches, are decoded into individual chunks, and are submitted one at
// a time to the configured runner. Results flow back in submission
// order inside a single envelope. Command lifecycle events are broadcast
// to WebSocket subscribers, and submissions are recorded to the audit
// trail.
//
// # Security
//
// Requests are gated on a server-side session: the session cookie (or
// the X-Auth-Token header carrying a session ID) selects the session,
// and only sessions holding an auth token pass the gate. Unauthenticated
// requests are answered by the login handler in place, through the same
// negotiation pipeline, so clients keep their negotiated format. Tokens
// are minted at login by an eauth backend and verified when a submission
// needs the caller's identity.
//
// # Graceful Degradation
//
// The gateway operates without a runner (submissions answer 503), without
// the audit writer (log-only trail), and without any health-checked
// subsystems. This enables testing and partial operation.
package api
