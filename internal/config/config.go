// Package config loads and validates server configuration from environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Version is set at build time via -ldflags.
var Version = "dev"

type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// DBDriver selects the storage adapter: memory, sqlite or postgres.
	DBDriver string
	// DBDSN is the sqlite file path or the postgres connection string.
	DBDSN string

	// SessionSecret signs session tokens. Required, at least 32 bytes.
	SessionSecret string
	// SecureCookies marks session cookies Secure; enable behind TLS.
	SecureCookies bool

	LogLevel  slog.Level
	LogFormat string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	ShutdownTimeout  time.Duration
}

// Load reads PK_* environment variables, applying defaults where sensible.
// The session secret has no default on purpose.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	cfg.Addr = getEnvDefault("PK_ADDR", ":8080")

	cfg.DBDriver = getEnvDefault("PK_DB_DRIVER", "memory")
	switch cfg.DBDriver {
	case "memory", "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("PK_DB_DRIVER: unknown driver %q, expected memory, sqlite or postgres", cfg.DBDriver)
	}
	cfg.DBDSN = os.Getenv("PK_DB_DSN")
	if cfg.DBDriver != "memory" && cfg.DBDSN == "" {
		return nil, fmt.Errorf("PK_DB_DSN: required for driver %q", cfg.DBDriver)
	}

	cfg.SessionSecret = os.Getenv("PK_SESSION_SECRET")
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("PK_SESSION_SECRET: required")
	}
	cfg.SecureCookies = getEnvDefault("PK_SECURE_COOKIES", "false") == "true"

	cfg.LogLevel, err = parseLogLevel(getEnvDefault("PK_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("PK_LOG_LEVEL: %w", err)
	}
	cfg.LogFormat = getEnvDefault("PK_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("PK_LOG_FORMAT: unknown format %q, expected json or text", cfg.LogFormat)
	}

	cfg.HTTPReadTimeout, err = getEnvDuration("PK_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("PK_HTTP_READ_TIMEOUT: %w", err)
	}
	cfg.HTTPWriteTimeout, err = getEnvDuration("PK_HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("PK_HTTP_WRITE_TIMEOUT: %w", err)
	}
	cfg.HTTPIdleTimeout, err = getEnvDuration("PK_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("PK_HTTP_IDLE_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout, err = getEnvDuration("PK_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("PK_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// SetupLogger configures and installs the global slog logger.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With(slog.String("app", "petkeep"), slog.String("version", Version))
	slog.SetDefault(logger)
	return logger
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", v, err)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown level %q", s)
	}
}
