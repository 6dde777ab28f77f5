package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config keeps runtime settings for the back office.
type Config struct {
	HTTPAddr string
	DB       DBConfig

	// GenerateAt is the local HH:MM at which the daily generator fires.
	// Empty disables the cron trigger; the manual endpoints still work.
	GenerateAt string

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration
}

// DBConfig selects and tunes the database connection.
type DBConfig struct {
	Driver string
	// URL is the SQLite file path or the Postgres DSN, depending on Driver.
	URL                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr: envOr("HTTP_ADDR", ":8080"),
		DB: DBConfig{
			Driver:             strings.ToLower(envOr("DB_DRIVER", DriverSQLite)),
			URL:                envOr("DATABASE_URL", "washdesk.db"),
			MaxOpenConns:       envIntOr("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       envIntOr("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeMin: envIntOr("DB_CONN_MAX_LIFETIME_MIN", 30),
		},
		GenerateAt:      envOrSet("GENERATE_AT", "06:00"),
		ShutdownTimeout: time.Duration(envIntOr("SHUTDOWN_TIMEOUT_SEC", 10)) * time.Second,
	}

	switch cfg.DB.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return cfg, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	if cfg.DB.Driver == DriverPostgres && os.Getenv("DATABASE_URL") == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required for the postgres driver")
	}

	return cfg, nil
}

// envOrSet returns the variable's value whenever it is set, even when set to
// empty. An explicitly empty GENERATE_AT disables the cron trigger.
func envOrSet(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return def
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
