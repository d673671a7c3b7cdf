package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteCommandMetric records a command submission routed through the gateway.
//
// This is the primary method for the command audit trail. The write is
// non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - fun: The command function name (e.g., "test.ping", "state.apply")
//   - outcome: Result classification, "ok" or "error"
//   - durationMs: End-to-end execution time in milliseconds
//
// Example:
//
//	client.WriteCommandMetric("test.ping", "ok", 12.5)
//	client.WriteCommandMetric("state.apply", "error", 30012.0)
func (c *Client) WriteCommandMetric(fun string, outcome string, durationMs float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"commands",
		map[string]string{
			"fun":     fun,
			"outcome": outcome,
		},
		map[string]interface{}{
			"duration_ms": durationMs,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteLoginMetric records a login attempt against an auth backend.
//
// Usernames are deliberately excluded: they are unbounded-cardinality
// values and belong in the structured log, not in tag indexes.
//
// Parameters:
//   - backend: The auth backend name (e.g., "static", "auto")
//   - outcome: Result classification, "success" or "failure"
func (c *Client) WriteLoginMetric(backend string, outcome string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"logins",
		map[string]string{
			"backend": backend,
			"outcome": outcome,
		},
		map[string]interface{}{
			"count": int64(1),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteRequestMetric records a served HTTP request.
//
// Used for latency tracking across the REST surface.
//
// Parameters:
//   - method: HTTP method (e.g., "POST")
//   - path: Route pattern, not the raw URL (low cardinality)
//   - status: HTTP response status code
//   - durationMs: Handler time in milliseconds
func (c *Client) WriteRequestMetric(method string, path string, status int, durationMs float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"http_requests",
		map[string]string{
			"method": method,
			"path":   path,
		},
		map[string]interface{}{
			"status":      int64(status),
			"duration_ms": durationMs,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("system_stats",
//	    map[string]string{"host": "gate-01"},
//	    map[string]interface{}{"cpu_percent": 45.2, "memory_mb": 512})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
