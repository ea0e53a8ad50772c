package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  port: 9090
  mode: test
upstream:
  base_url: https://fieldlink.example.com/api
  api_key: secret
engine:
  timezone: America/Chicago
  refresh_interval: 2m
  profile:
    name: Dana Ops
    email: dana@fieldlink.io
log:
  level: debug
  format: console
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Mode)
	assert.Equal(t, "https://fieldlink.example.com/api", cfg.Upstream.BaseURL)
	assert.Equal(t, "America/Chicago", cfg.Engine.Timezone)
	assert.Equal(t, 2*time.Minute, cfg.Engine.RefreshInterval)
	assert.Equal(t, "Dana Ops", cfg.Engine.Profile.Name)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Unset fields are filled from defaults.
	assert.Equal(t, DefaultReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultTickInterval, cfg.Engine.TickInterval)
	assert.Equal(t, DefaultBulkConcurrency, cfg.Engine.BulkConcurrency)
	assert.Equal(t, DefaultMetricsNamespace, cfg.Metrics.Namespace)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("LOCATE_SERVER_PORT", "7070")
	t.Setenv("LOCATE_UPSTREAM_API_KEY", "from-env")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Upstream.APIKey)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	_, err := Load(writeConfig(t, "server:\n  mode: production\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.mode")
}

func TestLoadFromEnv_RequiresBaseURL(t *testing.T) {
	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream.base_url")
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
	assert.Equal(t, DefaultRetryMax, cfg.Upstream.RetryMax)
	assert.Equal(t, DefaultTimezone, cfg.Engine.Timezone)
	assert.Equal(t, DefaultRedisKeyPrefix, cfg.Redis.KeyPrefix)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)

	// Explicit values always win.
	cfg = &Config{Engine: EngineConfig{Timezone: "UTC", BulkConcurrency: 2}}
	ApplyDefaults(cfg)
	assert.Equal(t, "UTC", cfg.Engine.Timezone)
	assert.Equal(t, 2, cfg.Engine.BulkConcurrency)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := NewDefaultConfig()
		cfg.Upstream.BaseURL = "https://fieldlink.example.com/api"
		return cfg
	}
	require.NoError(t, valid().Validate())

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad mode", func(c *Config) { c.Server.Mode = "prod" }, "server.mode"},
		{"missing base url", func(c *Config) { c.Upstream.BaseURL = "" }, "upstream.base_url"},
		{"negative retries", func(c *Config) { c.Upstream.RetryMax = -1 }, "retry_max"},
		{"zero tick", func(c *Config) { c.Engine.TickInterval = 0 }, "tick_interval"},
		{"missing timezone", func(c *Config) { c.Engine.Timezone = "" }, "engine.timezone"},
		{"zero bulk concurrency", func(c *Config) { c.Engine.BulkConcurrency = 0 }, "bulk_concurrency"},
		{"redis enabled without addr", func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }, "redis.addr"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"metrics without namespace", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Namespace = "" }, "metrics.namespace"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
