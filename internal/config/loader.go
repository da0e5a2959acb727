// loader.go implements the configuration loading lifecycle:
//
//  1. Enforce UTC so calendar-date arithmetic never drifts.
//  2. Load a .env file via godotenv (non-fatal if absent).
//  3. Process envconfig struct tags to populate Config.
//  4. Stamp build metadata from linker-injected variables.
//  5. Validate the struct with go-playground/validator.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Linker-injected build metadata (go build -ldflags "-X ...").
var (
	buildVersion = "dev"
	buildCommit  = "unknown"
)

// Load reads, populates and validates the process configuration.
func Load() (*Config, error) {
	// All date comparison in the engine is pure calendar arithmetic; pin
	// the process to UTC so time.Now-derived values cannot drift.
	time.Local = time.UTC

	// godotenv does not override variables already set in the environment.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	cfg.Build = BuildInfo{Version: buildVersion, Commit: buildCommit}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}
	return &cfg, nil
}
