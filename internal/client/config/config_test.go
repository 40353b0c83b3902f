package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDefaults(t *testing.T, c *Config) {
	t.Helper()
	assert.Equal(t, "http://127.0.0.1:8080", c.ServerURL)
	assert.Equal(t, "127.0.0.1:50051", c.HealthEndpointAddr)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, "portfolio_cache.db", c.CacheDSN)
	assert.Equal(t, BackendRemote, c.Backend)
	assert.Equal(t, "warn", c.LogLevel)
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()
	assertDefaults(t, &c)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assertDefaults(t, cfg)
}

func TestParseEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORTFOLIO_CLIENT_SERVER_URL", "https://api.example.com")
	t.Setenv("PORTFOLIO_CLIENT_BACKEND", "local")
	t.Setenv("PORTFOLIO_CLIENT_CHECK_INTERVAL", "10s")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, "https://api.example.com", c.ServerURL)
	assert.Equal(t, BackendLocal, c.Backend)
	assert.Equal(t, 10*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, "portfolio_cache.db", c.CacheDSN)
}
