// Package config defines all configuration structures for the locate-sla
// service.  No I/O or parsing logic lives here — only plain data types and
// validation.  Loading lives in loader.go, defaults in defaults.go.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// UpstreamConfig holds collaborator API connection parameters.
type UpstreamConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RetryMax     int           `mapstructure:"retry_max"`
	RetryWaitMin time.Duration `mapstructure:"retry_wait_min"`
	RetryWaitMax time.Duration `mapstructure:"retry_wait_max"`
}

// EngineConfig holds the SLA tracking engine tunables.
type EngineConfig struct {
	// TickInterval is the cadence at which the background tick recomputes
	// bucket gauges.  Classification itself is pure and also runs per request.
	TickInterval time.Duration `mapstructure:"tick_interval"`

	// RefreshInterval is the staleness bound: the record set is refetched
	// from upstream at least this often, independent of mutations.
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`

	// Timezone is the IANA location used for business-day arithmetic.
	Timezone string `mapstructure:"timezone"`

	// BulkConcurrency bounds the settle-all worker fan-out for bulk actions.
	BulkConcurrency int `mapstructure:"bulk_concurrency"`

	// Profile pre-populates the tagging form.
	Profile ProfileConfig `mapstructure:"profile"`
}

// ProfileConfig is the caller profile used as tag-form defaults.
type ProfileConfig struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
}

// RedisConfig holds snapshot-cache connection parameters.  The cache is
// optional; when disabled the service simply starts cold.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	SnapshotTTL  time.Duration `mapstructure:"snapshot_ttl"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the service.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the service.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("config: upstream.base_url is required")
	}
	if c.Upstream.RetryMax < 0 {
		return fmt.Errorf("config: upstream.retry_max must be >= 0, got %d", c.Upstream.RetryMax)
	}

	if c.Engine.TickInterval <= 0 {
		return fmt.Errorf("config: engine.tick_interval must be positive, got %s", c.Engine.TickInterval)
	}
	if c.Engine.RefreshInterval <= 0 {
		return fmt.Errorf("config: engine.refresh_interval must be positive, got %s", c.Engine.RefreshInterval)
	}
	if c.Engine.Timezone == "" {
		return fmt.Errorf("config: engine.timezone is required")
	}
	if c.Engine.BulkConcurrency < 1 {
		return fmt.Errorf("config: engine.bulk_concurrency must be >= 1, got %d", c.Engine.BulkConcurrency)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis.enabled is true")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("config: metrics.namespace is required when metrics.enabled is true")
	}

	return nil
}
