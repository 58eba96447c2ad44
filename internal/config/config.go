// Package config loads service configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the curio server.
// Environment variables are parsed from the CURIO_ prefix.
type Config struct {
	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Storage: "postgres" (default when a DSN is set) or "sqlite".
	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"curio.db"`

	// Embedding provider: "openai", "ollama", or "" to run lexical-only.
	EmbedProvider string `envconfig:"EMBED_PROVIDER" default:""`
	EmbedAPIKey   string `envconfig:"EMBED_API_KEY" default:""`
	EmbedBaseURL  string `envconfig:"EMBED_BASE_URL" default:""`
	EmbedModel    string `envconfig:"EMBED_MODEL" default:""`

	// Search behavior
	SearchCooldownSeconds int `envconfig:"SEARCH_COOLDOWN_SECONDS" default:"60"`
	SearchDefaultLimit    int `envconfig:"SEARCH_DEFAULT_LIMIT" default:"20"`
}

// ResolveDefaults derives DBDriver when set to "auto" and validates the rest.
func (c *Config) ResolveDefaults() error {
	if c.DBDriver == "" || c.DBDriver == "auto" {
		if c.PostgresDSN != "" {
			c.DBDriver = "postgres"
		} else {
			c.DBDriver = "sqlite"
		}
	}
	switch c.DBDriver {
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("CURIO_POSTGRES_DSN is required with DB_DRIVER=postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("CURIO_SQLITE_PATH is required with DB_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}

	switch c.EmbedProvider {
	case "", "openai", "ollama":
	default:
		return fmt.Errorf("unsupported EMBED_PROVIDER: %s", c.EmbedProvider)
	}
	if c.EmbedProvider == "openai" && c.EmbedAPIKey == "" {
		return fmt.Errorf("CURIO_EMBED_API_KEY is required with EMBED_PROVIDER=openai")
	}

	if c.SearchCooldownSeconds <= 0 {
		c.SearchCooldownSeconds = 60
	}
	if c.SearchDefaultLimit <= 0 {
		c.SearchDefaultLimit = 20
	}
	return nil
}

// New creates a Config from environment variables.
// Variables are prefixed with CURIO_, e.g. CURIO_HTTP_PORT, CURIO_DB_DRIVER.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("CURIO", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Str("embed_provider", cfg.EmbedProvider).
		Str("embed_model", cfg.EmbedModel).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Int("search_cooldown_seconds", cfg.SearchCooldownSeconds).
		Msg("configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config for tests: sqlite storage and no embedding
// provider.
func NewForTesting() *Config {
	return &Config{
		HTTPPort:              8080,
		DBDriver:              "sqlite",
		SQLitePath:            ":memory:",
		SearchCooldownSeconds: 1,
		SearchDefaultLimit:    20,
	}
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
