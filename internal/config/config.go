// Package config provides environment-driven configuration for movierec.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	DatabaseURL      Secret
	Port             string
	ListenHost       string
	MetricsPort      string
	CORSOrigins      []string
	LogLevel         string
	DBMaxConns       int32
	TMDbAPIKey       Secret
	TMDbBaseURL      string
	TMDbImageBaseURL string
	TMDbRateLimit    float64
	ImportPages      int
	AdminAPIKey      Secret
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:      Secret(envOrDefault("DATABASE_URL", "")),
		Port:             envOrDefault("PORT", "8000"),
		ListenHost:       envOrDefault("LISTEN_HOST", "127.0.0.1"),
		MetricsPort:      envOrDefault("METRICS_PORT", "9091"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		TMDbAPIKey:       Secret(envOrDefault("TMDB_API_KEY", "")),
		TMDbBaseURL:      strings.TrimRight(envOrDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3"), "/"),
		TMDbImageBaseURL: strings.TrimRight(envOrDefault("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p"), "/"),
		AdminAPIKey:      Secret(envOrDefault("ADMIN_API_KEY", "")),
	}

	maxConns, err := strconv.Atoi(envOrDefault("DB_MAX_CONNS", "10"))
	if err != nil || maxConns < 1 || maxConns > 100 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be an integer between 1 and 100")
	}
	cfg.DBMaxConns = int32(maxConns) //nolint:gosec // bounded above.

	rateLimit, err := strconv.ParseFloat(envOrDefault("TMDB_RATE_LIMIT", "20"), 64)
	if err != nil || rateLimit <= 0 {
		return nil, fmt.Errorf("TMDB_RATE_LIMIT must be a positive number")
	}
	cfg.TMDbRateLimit = rateLimit

	pages, err := strconv.Atoi(envOrDefault("IMPORT_PAGES", "10"))
	if err != nil || pages < 1 || pages > MaxImportPages {
		return nil, fmt.Errorf("IMPORT_PAGES must be an integer between 1 and %d", MaxImportPages)
	}
	cfg.ImportPages = pages

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3000")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// MaxImportPages caps how many feed pages a single import may request.
const MaxImportPages = 500

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// MetricsAddr returns the metrics listen address in host:port format.
func (c *Config) MetricsAddr() string {
	return c.ListenHost + ":" + c.MetricsPort
}

// AdminEnabled reports whether admin routes accept requests.
func (c *Config) AdminEnabled() bool {
	return c.AdminAPIKey.Value() != ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
