// Package audit records the gateway's security-relevant activity:
// command submissions, login attempts, and request timings.
//
// Events land in two places: the structured log (always) and InfluxDB
// (when telemetry is connected). Recording is best-effort and never
// blocks or fails the request that produced the event.
package audit

import (
	"time"

	"github.com/tarmason/fleetgate/internal/infrastructure/logging"
)

// Writer is the slice of the telemetry client the recorder writes
// through. *influxdb.Client satisfies it; tests substitute a fake.
type Writer interface {
	WriteCommandMetric(fun string, outcome string, durationMs float64)
	WriteLoginMetric(backend string, outcome string)
	WriteRequestMetric(method string, path string, status int, durationMs float64)
}

// Outcome labels used as metric tag values.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Submission describes one executed command descriptor.
type Submission struct {
	User     string        // authenticated subject, empty when the token carried none
	Backend  string        // eauth backend that minted the token
	Fun      string        // command function name
	Chunks   int           // size of the batch this descriptor arrived in
	Outcome  string        // OutcomeOK or OutcomeError
	Duration time.Duration // end-to-end execution time
}

// Recorder writes the gateway's audit trail.
type Recorder struct {
	writer Writer
	logger *logging.Logger
}

// NewRecorder creates a recorder. Pass a nil writer when telemetry is
// disabled; events then go to the structured log only.
func NewRecorder(w Writer, logger *logging.Logger) *Recorder {
	return &Recorder{
		writer: w,
		logger: logger.With("component", "audit"),
	}
}

// CommandOutcome classifies a runner result as an outcome label.
func CommandOutcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}

// CommandSubmitted records one executed command descriptor.
func (r *Recorder) CommandSubmitted(sub Submission) {
	r.logger.Info("command submitted",
		"fun", sub.Fun,
		"user", sub.User,
		"backend", sub.Backend,
		"chunks", sub.Chunks,
		"outcome", sub.Outcome,
		"duration_ms", sub.Duration.Milliseconds(),
	)
	if r.writer != nil {
		r.writer.WriteCommandMetric(sub.Fun, sub.Outcome, durationMs(sub.Duration))
	}
}

// LoginAttempt records a login outcome. Usernames go to the log only;
// they are unbounded values and do not belong in metric tags.
func (r *Recorder) LoginAttempt(username string, backend string, success bool) {
	outcome := OutcomeFailure
	if success {
		outcome = OutcomeSuccess
	}
	r.logger.Info("login attempt",
		"username", username,
		"backend", backend,
		"outcome", outcome,
	)
	if r.writer != nil {
		r.writer.WriteLoginMetric(backend, outcome)
	}
}

// RequestServed records a completed HTTP request. The request log line
// comes from the logging middleware; this feeds telemetry only.
func (r *Recorder) RequestServed(method string, path string, status int, duration time.Duration) {
	if r.writer != nil {
		r.writer.WriteRequestMetric(method, path, status, durationMs(duration))
	}
}

// durationMs converts to float milliseconds for metric fields.
func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0 //nolint:mnd // microseconds per millisecond
}
