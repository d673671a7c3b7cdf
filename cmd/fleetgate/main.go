// fleetgate - Fleet Command Gateway
//
// This is the main entry point for the fleetgate application. fleetgate
// is an HTTP gateway for remote command execution across a fleet of
// agents:
//   - Content-negotiated API (JSON, YAML, HTML) for scripts and browsers
//   - Session and token authentication with pluggable backends
//   - Command dispatch to agents over MQTT request/reply
//   - Audit trail in structured logs and InfluxDB
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/tarmason/fleetgate/migrations"

	"github.com/tarmason/fleetgate/internal/api"
	"github.com/tarmason/fleetgate/internal/audit"
	"github.com/tarmason/fleetgate/internal/eauth"
	"github.com/tarmason/fleetgate/internal/infrastructure/config"
	"github.com/tarmason/fleetgate/internal/infrastructure/database"
	"github.com/tarmason/fleetgate/internal/infrastructure/influxdb"
	"github.com/tarmason/fleetgate/internal/infrastructure/logging"
	"github.com/tarmason/fleetgate/internal/infrastructure/mqtt"
	"github.com/tarmason/fleetgate/internal/runner"
	"github.com/tarmason/fleetgate/internal/session"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting fleetgate",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Session manager with background expiry sweep
	sessions := session.NewManager(session.NewRepository(db.DB), session.Config{
		CookieName:      cfg.Session.CookieName,
		IdleTimeout:     cfg.GetSessionIdleTimeout(),
		CleanupInterval: cfg.GetSessionCleanupInterval(),
		Secure:          cfg.API.TLS.Enabled,
	}, log)
	go sessions.Run(ctx)
	log.Info("session manager started",
		"cookie", cfg.Session.CookieName,
		"idle_timeout", cfg.GetSessionIdleTimeout(),
	)

	// Authentication backends
	authRegistry, err := buildAuthRegistry(ctx, cfg, db, log)
	if err != nil {
		return fmt.Errorf("configuring auth backends: %w", err)
	}

	// Connect to MQTT broker and install the command runner (optional).
	// Without a broker the gateway still serves logins; submissions
	// answer 503 until a runner is configured.
	var mqttClient *mqtt.Client
	var cmdRunner runner.Runner
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		// Set up MQTT logging callbacks
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})

		mqttRunner, runnerErr := runner.NewMQTTRunner(mqttClient, byte(cfg.MQTT.QoS), cfg.GetReplyTimeout(), log)
		if runnerErr != nil {
			return fmt.Errorf("creating command runner: %w", runnerErr)
		}
		defer func() {
			if closeErr := mqttRunner.Close(); closeErr != nil {
				log.Error("error closing command runner", "error", closeErr)
			}
		}()
		cmdRunner = mqttRunner
		log.Info("command runner started", "reply_timeout", cfg.GetReplyTimeout())
	} else {
		log.Warn("MQTT disabled, command submissions will answer 503")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		// Set up InfluxDB error callback
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Audit trail: structured log always, InfluxDB when connected.
	// The writer must only be assigned when non-nil; a typed nil would
	// defeat the recorder's nil check.
	var auditWriter audit.Writer
	if influxClient != nil {
		auditWriter = influxClient
	}
	auditTrail := audit.NewRecorder(auditWriter, log)

	// Subsystems probed by /healthz
	checks := map[string]api.HealthChecker{
		"database": db,
	}
	if mqttClient != nil {
		checks["mqtt"] = mqttClient
	}
	if influxClient != nil {
		checks["influxdb"] = influxClient
	}

	// API server
	apiServer, err := api.New(api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Logger:      log,
		Sessions:    sessions,
		Auth:        authRegistry,
		Runner:      cmdRunner,
		Audit:       auditTrail,
		Checks:      checks,
		TokenSecret: cfg.Auth.TokenSecret,
		Debug:       cfg.Gateway.Debug,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started",
		"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		"tls", cfg.API.TLS.Enabled,
	)

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. InfluxDB (if enabled)
	// 3. Command runner and MQTT (if enabled)
	// 4. Database

	log.Info("fleetgate stopped")
	return nil
}

// buildAuthRegistry wires the configured eauth backends.
//
// The static backend verifies credentials against password hashes in the
// configuration file; the sqlite backend verifies against operator
// accounts in the gateway database, seeding a first account on an empty
// install.
//
// Parameters:
//   - ctx: Context for the seed query
//   - cfg: Application configuration
//   - db: Open gateway database
//   - log: Logger instance
//
// Returns:
//   - *eauth.Registry: Registry with all enabled backends
//   - error: If seeding the first operator account fails
func buildAuthRegistry(ctx context.Context, cfg *config.Config, db *database.DB, log *logging.Logger) (*eauth.Registry, error) {
	registry := eauth.NewRegistry()

	if cfg.Auth.Static.Enabled {
		users := make(map[string]string, len(cfg.Auth.Static.Users))
		for _, u := range cfg.Auth.Static.Users {
			users[u.Username] = u.PasswordHash
		}
		registry.Register("static", eauth.NewStaticIssuer(users, cfg.Auth.TokenSecret, cfg.GetTokenTTL()))
		log.Info("auth backend enabled", "backend", "static", "users", len(users))
	}

	if cfg.Auth.SQLite.Enabled {
		userRepo := eauth.NewUserRepository(db.DB)

		// SeedOperator logs the generated password itself; operators are
		// expected to rotate it immediately.
		if _, err := eauth.SeedOperator(ctx, userRepo, log.Logger); err != nil {
			return nil, fmt.Errorf("seeding operator account: %w", err)
		}

		registry.Register("sqlite", eauth.NewSQLiteIssuer(userRepo, cfg.Auth.TokenSecret, cfg.GetTokenTTL()))
		log.Info("auth backend enabled", "backend", "sqlite")
	}

	return registry, nil
}

// getConfigPath returns the configuration file path.
// Uses FLEETGATE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("FLEETGATE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - mqttClient: MQTT client to check (may be nil if disabled)
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	// Check database
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	// Check MQTT (if enabled)
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	// Check InfluxDB (if enabled)
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
