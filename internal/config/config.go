// Package config loads service configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Config holds the service configuration. Every field can be set through a
// GIVESPOT_* environment variable; the CLI flags in cmd/givespot override
// whatever the environment provides.
type Config struct {
	// DBPath is the SQLite database file path.
	DBPath string `env:"DB"`

	// Addr is the HTTP listen address.
	Addr string `env:"ADDR"`

	// LogPath is an optional log file; empty means stdout/stderr only.
	LogPath string `env:"LOG"`

	// SessionSecret overrides the database-stored signing secret.
	// Normally left empty so the generated secret persists across restarts.
	SessionSecret string `env:"SESSION_SECRET"`
}

// Load parses GIVESPOT_* environment variables over defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath: "givespot.sqlite3",
		Addr:   ":8080",
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "GIVESPOT_"}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
