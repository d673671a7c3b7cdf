// Package influxdb provides InfluxDB connectivity for fleetgate.
//
// It wraps the official influxdb-client-go v2 library with fleetgate-specific
// patterns for connection management, audit-metric writing, and health
// monitoring.
//
// # Purpose
//
// This package handles time-series data storage for:
//   - Command submissions routed through the gateway
//   - Login attempts against the external auth backends
//   - HTTP request timings
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    URL:    "http://localhost:8086",
//	    Token:  "your-token",
//	    Org:    "fleetgate",
//	    Bucket: "audit",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Record an executed command
//	client.WriteCommandMetric("test.ping", "ok", 12.5)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are logged via a callback.
// Connection and health check errors are returned directly.
//
// # Performance
//
// Writes are batched according to config.yaml settings (batch_size, flush_interval).
// This keeps audit recording off the request path even under load.
package influxdb
