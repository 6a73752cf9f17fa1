package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration, parsed from the environment.
type Config struct {
	Host string `env:"HOST" envDefault:"localhost"`
	Port int    `env:"PORT" envDefault:"4200"`

	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data.db"`

	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	MetricsHost    string `env:"METRICS_HOST" envDefault:"localhost"`
	MetricsPort    int    `env:"METRICS_PORT" envDefault:"4201"`

	// Write-endpoint rate limiting, per client IP.
	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"`
	RateLimitBurst     int `env:"RATE_LIMIT_BURST" envDefault:"30"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// Addr returns the listen address for the API server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MetricsAddr returns the listen address for the metrics server.
func (c *Config) MetricsAddr() string {
	return fmt.Sprintf("%s:%d", c.MetricsHost, c.MetricsPort)
}
