package config

import "time"

// Backend selects where portfolio data is written.
type Backend string

const (
	// BackendRemote talks to the portfolio server.
	BackendRemote Backend = "remote"
	// BackendLocal keeps everything in the local cache; cloud storage is
	// unavailable.
	BackendLocal Backend = "local"
)

// Config holds runtime settings for the admin CLI.
//
// Fields:
//   - ServerURL: base URL of the portfolio HTTP API.
//   - HealthEndpointAddr: host:port of the gRPC health service.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - RequestTimeout: per-request timeout of API calls.
//   - CacheDSN: SQLite DSN of the local cache.
//   - Backend: "remote" or "local".
//   - LogLevel: slog level name.
type Config struct {
	ServerURL           string
	HealthEndpointAddr  string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	CacheDSN            string
	Backend             Backend
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.HealthEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.CacheDSN = "portfolio_cache.db"
	c.Backend = BackendRemote
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
