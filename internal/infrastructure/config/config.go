package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for fleetgate.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Gateway   GatewayConfig   `yaml:"gateway"`
	Database  DatabaseConfig  `yaml:"database"`
	Session   SessionConfig   `yaml:"session"`
	Auth      AuthConfig      `yaml:"auth"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GatewayConfig identifies this gateway instance.
type GatewayConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`

	// Debug echoes internal error detail in 500 responses instead of the
	// generic message. Never enable in production.
	Debug bool `yaml:"debug"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// SessionConfig contains HTTP session settings.
type SessionConfig struct {
	CookieName string `yaml:"cookie_name"`

	// IdleTimeout is the sliding session expiry window in seconds.
	// Each gated request extends the session by this much.
	IdleTimeout int `yaml:"idle_timeout"`

	// CleanupInterval is how often expired sessions are purged, in seconds.
	CleanupInterval int `yaml:"cleanup_interval"`
}

// AuthConfig contains authentication backend settings.
type AuthConfig struct {
	// TokenSecret signs issued eauth tokens (HMAC-SHA256).
	TokenSecret string `yaml:"token_secret"`

	// TokenTTL is the issued token lifetime in minutes.
	TokenTTL int `yaml:"token_ttl"`

	Static StaticBackendConfig `yaml:"static"`
	SQLite SQLiteBackendConfig `yaml:"sqlite"`
}

// StaticBackendConfig configures the built-in "static" eauth backend,
// which verifies credentials against password hashes in this file.
type StaticBackendConfig struct {
	Enabled bool               `yaml:"enabled"`
	Users   []StaticUserConfig `yaml:"users"`
}

// StaticUserConfig is one user entry for the static eauth backend.
type StaticUserConfig struct {
	Username string `yaml:"username"`

	// PasswordHash is an argon2id hash in PHC string format.
	PasswordHash string `yaml:"password_hash"`
}

// SQLiteBackendConfig configures the "sqlite" eauth backend, which verifies
// credentials against operator accounts stored in the gateway database.
// A fresh database is seeded with an "operator" account on first start.
type SQLiteBackendConfig struct {
	Enabled bool `yaml:"enabled"`
}

// MQTTConfig contains MQTT broker connection settings for the command runner.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`

	// ReplyTimeout is how long the runner waits for an agent reply, in seconds.
	ReplyTimeout int `yaml:"reply_timeout"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig contains event feed settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings for the audit trail.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: FLEETGATE_SECTION_KEY
// For example: FLEETGATE_DATABASE_PATH, FLEETGATE_API_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			ID:   "gate-001",
			Name: "fleetgate",
		},
		Database: DatabaseConfig{
			Path:        "./data/fleetgate.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Session: SessionConfig{
			CookieName:      "session_id",
			IdleTimeout:     600,
			CleanupInterval: 60,
		},
		Auth: AuthConfig{
			TokenTTL: 720,
			SQLite: SQLiteBackendConfig{
				Enabled: true,
			},
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "fleetgate",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
			ReplyTimeout: 30,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8000,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/events",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: FLEETGATE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("FLEETGATE_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("FLEETGATE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("FLEETGATE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("FLEETGATE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// API
	if v := os.Getenv("FLEETGATE_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	// InfluxDB
	if v := os.Getenv("FLEETGATE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Auth - token secret (IMPORTANT: always override in production)
	if v := os.Getenv("FLEETGATE_AUTH_TOKEN_SECRET"); v != "" {
		cfg.Auth.TokenSecret = v
	}
}

// Validate checks the configuration for errors and security issues.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Gateway validation
	if c.Gateway.ID == "" {
		errs = append(errs, "gateway.id is required")
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// Session validation
	if c.Session.IdleTimeout < 1 {
		errs = append(errs, "session.idle_timeout must be at least 1 second")
	}
	if c.Session.CookieName == "" {
		errs = append(errs, "session.cookie_name is required")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}
	if c.API.TLS.Enabled && (c.API.TLS.CertFile == "" || c.API.TLS.KeyFile == "") {
		errs = append(errs, "api.tls.cert_file and api.tls.key_file are required when TLS is enabled")
	}

	// Auth validation - token secret is REQUIRED
	// An empty or weak secret would let an attacker forge eauth tokens and
	// submit arbitrary commands to every agent in the fleet.
	const minTokenSecretLength = 32
	if c.Auth.TokenSecret == "" {
		errs = append(errs, "auth.token_secret is required (set FLEETGATE_AUTH_TOKEN_SECRET environment variable)")
	} else if len(c.Auth.TokenSecret) < minTokenSecretLength {
		errs = append(errs, "auth.token_secret must be at least 32 characters for adequate security")
	}

	if c.Auth.Static.Enabled && len(c.Auth.Static.Users) == 0 {
		errs = append(errs, "auth.static.users must list at least one user when the static backend is enabled")
	}
	if !c.Auth.Static.Enabled && !c.Auth.SQLite.Enabled {
		errs = append(errs, "at least one auth backend must be enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

// GetSessionIdleTimeout returns the sliding session expiry window as a Duration.
func (c *Config) GetSessionIdleTimeout() time.Duration {
	return time.Duration(c.Session.IdleTimeout) * time.Second
}

// GetSessionCleanupInterval returns the expired-session purge interval as a Duration.
func (c *Config) GetSessionCleanupInterval() time.Duration {
	return time.Duration(c.Session.CleanupInterval) * time.Second
}

// GetReplyTimeout returns the runner reply timeout as a Duration.
func (c *Config) GetReplyTimeout() time.Duration {
	return time.Duration(c.MQTT.ReplyTimeout) * time.Second
}

// GetTokenTTL returns the issued eauth token lifetime as a Duration.
func (c *Config) GetTokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTL) * time.Minute
}
