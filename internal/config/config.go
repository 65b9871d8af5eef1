// Package config loads server and job settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config validation errors
var (
	// ErrMissingDatabaseURL is returned when postgres storage is selected without a DSN
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required for postgres storage")
	// ErrMissingJWTSecret is returned outside dev mode when no signing secret is set
	ErrMissingJWTSecret = errors.New("JWT_SECRET is required")
	// ErrInvalidStorage is returned for an unknown STORAGE value
	ErrInvalidStorage = errors.New("STORAGE must be postgres or memory")
	// ErrInvalidTokenTTL is returned when TokenTTL is not positive
	ErrInvalidTokenTTL = errors.New("TokenTTL must be positive")
	// ErrInvalidRateLimit is returned when the limiter settings are not positive
	ErrInvalidRateLimit = errors.New("rate limit settings must be positive")
)

// devJWTSecret signs tokens when IS_DEV_ENV=true and no secret is configured
const devJWTSecret = "dev-only-insecure-secret"

// Config holds the runtime configuration of the API server and reconcile job
type Config struct {
	// Storage selects the repository backend: "postgres" or "memory"
	Storage string

	// DatabaseURL is the Postgres DSN (lib/pq format)
	DatabaseURL string

	// RedisURL enables the post read cache when set (redis://host:port/db)
	RedisURL string

	// PostCacheTTL bounds how long a cached post may be served
	PostCacheTTL time.Duration

	// Port is the HTTP listen port
	Port string

	// JWTSecret signs access tokens (HS256)
	JWTSecret string

	// JWTIssuer is stamped into and required on every token
	JWTIssuer string

	// TokenTTL is the lifetime of issued access tokens
	TokenTTL time.Duration

	// CORSOrigins lists allowed browser origins; empty allows any
	CORSOrigins []string

	// RateLimitRequests per RateLimitWindow per client
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// DevMode relaxes secret requirements for local development
	DevMode bool
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() Config {
	return Config{
		Storage:           StoragePostgres,
		PostCacheTTL:      time.Minute,
		Port:              "8080",
		JWTIssuer:         "lposts2",
		TokenTTL:          24 * time.Hour,
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
	}
}

// Validate checks the configuration for invalid values
func (c Config) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	case StorageMemory:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidStorage, c.Storage)
	}
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidTokenTTL, c.TokenTTL)
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("%w: got %d per %v", ErrInvalidRateLimit, c.RateLimitRequests, c.RateLimitWindow)
	}
	return nil
}

// LoadDotEnv loads .env.local then .env from the working directory.
// Variables already present in the environment win; missing files are ignored.
func LoadDotEnv() {
	for _, file := range []string{".env.local", ".env"} {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to load env file", "file", file, "error", err)
		}
	}
}

// Load reads .env files and the environment, then validates the result
func Load() (Config, error) {
	LoadDotEnv()
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv creates a Config from environment variables.
// Uses defaults for any missing environment variables.
//
// Environment variables:
//   - STORAGE: "postgres" or "memory" (default: postgres)
//   - DATABASE_URL: Postgres DSN
//   - REDIS_URL: optional, enables the post cache
//   - POST_CACHE_TTL_SECONDS: post cache lifetime (default: 60)
//   - PORT: HTTP port (default: 8080)
//   - JWT_SECRET: token signing secret (required unless IS_DEV_ENV=true)
//   - JWT_ISSUER: token issuer (default: lposts2)
//   - TOKEN_TTL_MINUTES: access token lifetime (default: 1440)
//   - CORS_ORIGINS: comma separated allowed origins (default: any)
//   - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW_SECONDS: per-client budget (default: 100 / 60)
//   - IS_DEV_ENV: "true" enables dev mode
func FromEnv() Config {
	cfg := DefaultConfig()

	cfg.DevMode = os.Getenv("IS_DEV_ENV") == "true"

	if v := os.Getenv("STORAGE"); v != "" {
		cfg.Storage = strings.ToLower(strings.TrimSpace(v))
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.RedisURL = os.Getenv("REDIS_URL")

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" && cfg.DevMode {
		slog.Warn("JWT_SECRET not set, using insecure development secret")
		cfg.JWTSecret = devJWTSecret
	}
	if v := os.Getenv("JWT_ISSUER"); v != "" {
		cfg.JWTIssuer = v
	}

	cfg.PostCacheTTL = durationFromEnv("POST_CACHE_TTL_SECONDS", time.Second, cfg.PostCacheTTL)
	cfg.TokenTTL = durationFromEnv("TOKEN_TTL_MINUTES", time.Minute, cfg.TokenTTL)
	cfg.RateLimitWindow = durationFromEnv("RATE_LIMIT_WINDOW_SECONDS", time.Second, cfg.RateLimitWindow)

	if v := os.Getenv("RATE_LIMIT_REQUESTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitRequests = n
		} else {
			slog.Warn("invalid RATE_LIMIT_REQUESTS value, using default",
				"value", v,
				"default", cfg.RateLimitRequests,
				"error", err,
			)
		}
	}

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}

	return cfg
}

func durationFromEnv(key string, unit, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid duration value, using default",
			"key", key,
			"value", v,
			"default", def,
			"error", err,
		)
		return def
	}
	return time.Duration(n) * unit
}
