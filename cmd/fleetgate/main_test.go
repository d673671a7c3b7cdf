package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tarmason/fleetgate/internal/infrastructure/database"
)

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	originalEnv := os.Getenv("FLEETGATE_CONFIG")
	defer os.Setenv("FLEETGATE_CONFIG", originalEnv)

	os.Setenv("FLEETGATE_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_MissingDatabasePath verifies run fails when database path is invalid.
func TestRun_MissingDatabasePath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
gateway:
  id: test-gate

database:
  path: ""
  wal_mode: true
  busy_timeout: 5

auth:
  token_secret: "test-secret-key-at-least-32-chars!"

mqtt:
  enabled: false

influxdb:
  enabled: false

logging:
  level: info
  format: text
  output: stdout

api:
  host: "127.0.0.1"
  port: 18472
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("FLEETGATE_CONFIG")
	defer os.Setenv("FLEETGATE_CONFIG", originalEnv)
	os.Setenv("FLEETGATE_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail with empty database path")
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	originalEnv := os.Getenv("FLEETGATE_CONFIG")
	defer os.Setenv("FLEETGATE_CONFIG", originalEnv)

	os.Unsetenv("FLEETGATE_CONFIG")

	path := getConfigPath()
	if path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	originalEnv := os.Getenv("FLEETGATE_CONFIG")
	defer os.Setenv("FLEETGATE_CONFIG", originalEnv)

	expected := "/custom/path/config.yaml"
	os.Setenv("FLEETGATE_CONFIG", expected)

	path := getConfigPath()
	if path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

// TestHealthCheck_OptionalClientsNil verifies the startup health check
// tolerates disabled MQTT and InfluxDB.
func TestHealthCheck_OptionalClientsNil(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := database.Open(database.Config{
		Path:        filepath.Join(tmpDir, "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := healthCheck(context.Background(), db, nil, nil); err != nil {
		t.Errorf("healthCheck() error = %v, want nil", err)
	}
}

// TestRun_StartupAndShutdown tests full startup without a broker or
// telemetry, then clean shutdown on context cancellation.
func TestRun_StartupAndShutdown(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")
	dbPath := filepath.Join(tmpDir, "test.db")

	configContent := `
gateway:
  id: test-gate

database:
  path: "` + dbPath + `"
  wal_mode: true
  busy_timeout: 5

session:
  cookie_name: session_id
  idle_timeout: 600
  cleanup_interval: 60

auth:
  token_secret: "test-secret-key-at-least-32-chars!"

mqtt:
  enabled: false

influxdb:
  enabled: false

logging:
  level: info
  format: text
  output: stdout

api:
  host: "127.0.0.1"
  port: 18473
  timeouts:
    read: 30
    write: 60
    idle: 120
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("FLEETGATE_CONFIG")
	defer os.Setenv("FLEETGATE_CONFIG", originalEnv)
	os.Setenv("FLEETGATE_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := run(ctx); err != nil {
		t.Errorf("run() error = %v, want clean shutdown", err)
	}
}
