package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures everything the server reads from the environment so main
// stays lean.
type Config struct {
	Addr string

	// RedisURL selects the production KV store. Empty means in-memory.
	RedisURL string

	// EligibilityURL is the base URL of the external eligibility service.
	// Empty disables remote checking entirely (local-only fail-open mode).
	EligibilityURL string

	// EligibilityTimeout bounds each remote eligibility request.
	EligibilityTimeout time.Duration

	// DefaultSessionMinutes applies when a session is opened without an
	// explicit duration.
	DefaultSessionMinutes float64
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:                  envOr("QUORUM_ADDR", ":8080"),
		RedisURL:              os.Getenv("QUORUM_REDIS_URL"),
		EligibilityURL:        os.Getenv("QUORUM_ELIGIBILITY_URL"),
		EligibilityTimeout:    1200 * time.Millisecond,
		DefaultSessionMinutes: 1,
	}
	if raw := os.Getenv("QUORUM_ELIGIBILITY_TIMEOUT_MS"); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
			cfg.EligibilityTimeout = time.Duration(ms) * time.Millisecond
		}
	}
	if raw := os.Getenv("QUORUM_SESSION_MINUTES"); raw != "" {
		if minutes, err := strconv.ParseFloat(raw, 64); err == nil && minutes > 0 {
			cfg.DefaultSessionMinutes = minutes
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
