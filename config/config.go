// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"

	"github.com/quillhq/quill/pkg/db"
	"github.com/quillhq/quill/pkg/logger"
	"github.com/quillhq/quill/pkg/redis"
)

// Config aggregates the settings of every subsystem. Nested structs carry
// their own env tags; Load parses them all in one pass.
type Config struct {
	// HTTPAddr is the listen address of the web server.
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// LogLevel is the minimum level emitted (debug, info, warn, error).
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"info"`

	// SessionMaxAge is the session lifetime in seconds.
	SessionMaxAge int `env:"SESSION_MAX_AGE" envDefault:"2592000"`

	// SessionSecure marks the session cookie Secure; leave off only for
	// plain-HTTP local development.
	SessionSecure bool `env:"SESSION_SECURE" envDefault:"false"`

	DB     db.Config
	Redis  redis.Config
	Sentry logger.SentryConfig
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
