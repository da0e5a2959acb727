// Package config defines the process configuration for the monitoring
// dashboard service. Configuration is loaded once at startup and immutable
// thereafter; any missing required value or invalid format aborts startup
// (fail fast). Values come from the OS environment, optionally seeded from a
// .env file for local development.
package config

import "time"

// Config is the top-level configuration struct. It is populated once during
// process initialization and never modified.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev staging prod"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// Deployment selects the built-in engine profile (corridor variant).
	Deployment string `envconfig:"DEPLOYMENT" default:"dvp" validate:"required"`

	Server   ServerConfig
	Database DatabaseConfig

	// Build metadata injected via ldflags, not environment.
	Build BuildInfo
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// PathPrefix mounts the API under a sub-path when the dashboard is
	// served behind a shared reverse proxy (e.g. /dvp-dashboard).
	PathPrefix string `envconfig:"SERVER_PATH_PREFIX" default:""`
}

// DatabaseConfig holds the snapshot source connection settings. The database
// is read exactly once, at startup; the pool stays open only for the health
// probe.
type DatabaseConfig struct {
	URL string `envconfig:"DATABASE_URL" validate:"required,url"`

	Schema         string        `envconfig:"DB_SCHEMA" default:"data_analysis"`
	MaxConns       int           `envconfig:"DB_MAX_CONNS" default:"4"`
	ConnectTimeout time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"10s"`
	LoadTimeout    time.Duration `envconfig:"DB_LOAD_TIMEOUT" default:"60s"`
}

// BuildInfo carries version metadata stamped by the build.
type BuildInfo struct {
	Version string
	Commit  string
}
