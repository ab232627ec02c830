package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds everything read from the environment at startup. It is built
// once in main and passed down; packages never read env vars themselves.
type Config struct {
	DatabaseURL     string
	OpenAIAPIKey    string
	JWTSecret       string
	Port            string
	ResolverTimeout time.Duration
}

const defaultResolverTimeout = 30 * time.Second

// Load reads the configuration from environment variables.
// DATABASE_URL and JWT_SECRET are required; OPENAI_API_KEY is optional and
// its absence switches the chat endpoint to the local fallback resolver.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		Port:            os.Getenv("PORT"),
		ResolverTimeout: defaultResolverTimeout,
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if raw := os.Getenv("RESOLVER_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid RESOLVER_TIMEOUT %q: %w", raw, err)
		}
		cfg.ResolverTimeout = d
	}

	return cfg, nil
}

// RemoteResolverEnabled reports whether an OpenAI key is configured.
func (c *Config) RemoteResolverEnabled() bool {
	return c.OpenAIAPIKey != ""
}
