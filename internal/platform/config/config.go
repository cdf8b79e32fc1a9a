// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Once loaded, configuration is read-only and passed to components through
their constructors.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DotenvFiles are read, when present, before the environment is parsed.
// Earlier files win, and variables already set in the process win over both.
var DotenvFiles = []string{".env.local", ".env"}

// # Configuration Schema

// Config holds all runtime configuration for the book API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"PORT"         envDefault:"3000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMinConns  int32  `env:"DB_MIN_CONNS" envDefault:"2"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// RedisURL enables the shared rate limiter. Empty means in-process limiting.
	RedisURL string `env:"REDIS_URL"`

	// Rate limiting, per client IP
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"100"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"150"`

	// OTLPEndpoint enables span export over OTLP/HTTP. Empty disables tracing.
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// Cross-Origin Resource Sharing
	CORSOriginWhitelist []string `env:"CORS_ORIGIN_WHITELIST" envSeparator:","`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	for _, file := range DotenvFiles {
		// Missing files are expected outside local development.
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to load %s: %w", file, err)
		}
	}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	cfg.CORSOriginWhitelist = trimAll(cfg.CORSOriginWhitelist)
	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasRedis reports whether a Redis URL was configured.
func (c *Config) HasRedis() bool {
	return c.RedisURL != ""
}

// AllowedOrigins returns the CORS whitelist.
func (c *Config) AllowedOrigins() []string {
	return c.CORSOriginWhitelist
}

func trimAll(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
