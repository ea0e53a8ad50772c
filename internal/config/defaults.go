package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort      = 8080
	DefaultServerMode      = "release"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultUpstreamTimeout = 30 * time.Second
	DefaultRetryMax        = 3
	DefaultRetryWaitMin    = 500 * time.Millisecond
	DefaultRetryWaitMax    = 5 * time.Second

	DefaultTickInterval    = time.Second
	DefaultRefreshInterval = 5 * time.Minute
	DefaultTimezone        = "America/New_York"
	DefaultBulkConcurrency = 8

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "locatesla:"
	DefaultSnapshotTTL    = time.Hour
	DefaultRedisIOTimeout = 3 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "locatesla"
)

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields already set by the caller are left unchanged so explicit
// configuration always wins.  It must run after unmarshalling and before
// Validate() so that optional-but-defaulted fields are never seen as missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ───────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// ── Upstream ─────────────────────────────────────────────────────────────
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = DefaultUpstreamTimeout
	}
	if cfg.Upstream.RetryMax == 0 {
		cfg.Upstream.RetryMax = DefaultRetryMax
	}
	if cfg.Upstream.RetryWaitMin == 0 {
		cfg.Upstream.RetryWaitMin = DefaultRetryWaitMin
	}
	if cfg.Upstream.RetryWaitMax == 0 {
		cfg.Upstream.RetryWaitMax = DefaultRetryWaitMax
	}

	// ── Engine ───────────────────────────────────────────────────────────────
	if cfg.Engine.TickInterval == 0 {
		cfg.Engine.TickInterval = DefaultTickInterval
	}
	if cfg.Engine.RefreshInterval == 0 {
		cfg.Engine.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.Engine.Timezone == "" {
		cfg.Engine.Timezone = DefaultTimezone
	}
	if cfg.Engine.BulkConcurrency == 0 {
		cfg.Engine.BulkConcurrency = DefaultBulkConcurrency
	}

	// ── Redis snapshot cache ─────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.SnapshotTTL == 0 {
		cfg.Redis.SnapshotTTL = DefaultSnapshotTTL
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = DefaultRedisIOTimeout
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = DefaultRedisIOTimeout
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = DefaultRedisIOTimeout
	}

	// ── Log ──────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Metrics ──────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// NewDefaultConfig returns a Config populated entirely from defaults, suitable
// for local development when no config file is present.  The upstream base URL
// still has to be supplied by flag or environment before Validate passes.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
