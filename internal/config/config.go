// Package config provides centralized configuration management for the advisor.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Catalog source kinds.
const (
	SourceFile     = "file"     // CSV or YAML file chosen by extension
	SourcePostgres = "postgres" // Query against DATABASE_URL
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Catalog  CatalogConfig
	Server   ServerConfig
	Database DatabaseConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// CatalogConfig holds course table and loading settings.
type CatalogConfig struct {
	// Source selects where loads read from: file or postgres (default: file)
	Source string `env:"CATALOG_SOURCE" default:"file"`

	// DataFile is the catalog loaded by the serve, list, show and validate
	// commands (optional for the interactive menu, which prompts for a path)
	DataFile string `env:"CATALOG_DATA_FILE" envAlt:"DATA_FILE"`

	// Capacity is the fixed bucket count of the course table (default: 179)
	Capacity int `env:"CATALOG_CAPACITY" default:"179"`

	// LoadDir is the only directory POST /api/load may read a requested path
	// from. Empty disables path loads; the configured source still loads.
	LoadDir string `env:"CATALOG_LOAD_DIR"`

	// ClearOnReload drops courses missing from a newer load (default: false,
	// reloads only add or overwrite)
	ClearOnReload bool `env:"CATALOG_CLEAR_ON_RELOAD" default:"false"`

	// Query is the SQL used by the postgres source
	Query string `env:"CATALOG_QUERY" default:"SELECT id, title, prerequisites FROM courses ORDER BY id"`

	// LoadTimeout bounds a single load operation (default: 30s)
	LoadTimeout time.Duration `env:"CATALOG_LOAD_TIMEOUT" default:"30s"`

	// MaxConcurrentLoads caps parallel source reads in serve mode (default: 2)
	MaxConcurrentLoads int `env:"CATALOG_MAX_CONCURRENT_LOADS" default:"2"`

	// LoadWait is how long a load waits for a free slot (default: 10s)
	LoadWait time.Duration `env:"CATALOG_LOAD_WAIT" default:"10s"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1)
	Host string `env:"SERVER_HOST" default:"127.0.0.1"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 10s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds database connection settings for the postgres source.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required when CATALOG_SOURCE=postgres)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// RateLimitConfig holds per-IP rate limits for the load endpoint.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// LoadsPerMinute is the number of load requests allowed per IP (default: 10)
	LoadsPerMinute int `env:"RATE_LIMIT_LOADS_PER_MINUTE" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// RequireAPIKey enforces X-API-Key on state-changing endpoints (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`

	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// X-Real-IP and X-Forwarded-For headers are honored
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: warn)
	Level string `env:"LOG_LEVEL" default:"warn"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
