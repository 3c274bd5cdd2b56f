// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Catalog  CatalogConfig
	Import   ImportConfig
	Presets  PresetConfig
	Draft    DraftConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envDefault:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"60s"`
}

// StoreConfig selects and configures the preset store.
type StoreConfig struct {
	// Driver is memory, postgres or sqlite (default: memory)
	Driver string `env:"STORE_DRIVER" envDefault:"memory"`

	// URL is the PostgreSQL connection string, required for the postgres driver.
	// DB_URL is accepted when DATABASE_URL is unset.
	URL string `env:"DATABASE_URL"`

	// SQLitePath is the database file for the sqlite driver (default: costdraft.db)
	SQLitePath string `env:"SQLITE_PATH" envDefault:"costdraft.db"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" envDefault:"10"`

	// MinConns is the minimum number of connections to keep open (default: 2)
	MinConns int `env:"DB_MIN_CONNS" envDefault:"2"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
}

// CatalogConfig locates the catalog feed.
type CatalogConfig struct {
	// Path is a local catalog JSON file. Takes precedence over URL.
	Path string `env:"CATALOG_PATH"`

	// URL is a remote catalog JSON endpoint.
	URL string `env:"CATALOG_URL"`

	// DefaultCostsPath is an optional cost table used as the default
	// character and equipment costs.
	DefaultCostsPath string `env:"DEFAULT_COSTS_PATH"`

	// RefreshInterval is how often the catalog is re-fetched; 0 disables (default: 1h)
	RefreshInterval time.Duration `env:"CATALOG_REFRESH_INTERVAL" envDefault:"1h"`

	// FetchTimeout bounds a single fetch (default: 15s)
	FetchTimeout time.Duration `env:"CATALOG_FETCH_TIMEOUT" envDefault:"15s"`
}

// ImportConfig holds cost table import settings.
type ImportConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 5MiB)
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" envDefault:"5242880"`

	// MaxConcurrent is the maximum number of parallel imports (default: 5)
	MaxConcurrent int `env:"IMPORT_MAX_CONCURRENT" envDefault:"5"`

	// MaxWaitTime is how long to wait for an import slot (default: 10s)
	MaxWaitTime time.Duration `env:"IMPORT_MAX_WAIT_TIME" envDefault:"10s"`
}

// PresetConfig holds preset store policy.
type PresetConfig struct {
	// MaxPerOwner is the number of presets one owner may keep (default: 2)
	MaxPerOwner int `env:"PRESETS_MAX_PER_OWNER" envDefault:"2"`
}

// DraftConfig holds match setup defaults.
type DraftConfig struct {
	// Breakpoint is the cost difference worth one cycle (default: 4)
	Breakpoint int `env:"DRAFT_CYCLE_BREAKPOINT" envDefault:"4"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// RequireAPIKey enables X-API-Key checks on /api routes (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" envDefault:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS" envSeparator:","`

	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" envDefault:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" envDefault:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
