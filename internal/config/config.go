// Package config loads application configuration from the environment.
//
// A .env file in the working directory is loaded first when present (local
// development convenience); real environments set the variables directly.
// The struct tags do the parsing — caarlos0/env reads each `env:"..."` tag,
// applies envDefault when the variable is unset, and enforces `required`.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the server.
type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	DataDir  string `env:"DATA_DIR" envDefault:"data"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// SessionSecret signs the session cookies. Must be set; there is no safe
	// default for a signing key.
	SessionSecret string `env:"SESSION_SECRET,required"`

	// GitHub OAuth is optional — sign-in routes are registered only when
	// both client values are present.
	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	GitHubCallbackURL  string `env:"GITHUB_CALLBACK_URL"`
}

// Load reads the optional .env file and parses the environment.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("config: loading .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}

	if cfg.GitHubEnabled() && cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", cfg.Port)
	}

	return cfg, nil
}

// GitHubEnabled reports whether the optional GitHub sign-in is configured.
func (c *Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}
