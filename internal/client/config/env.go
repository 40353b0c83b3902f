package config

import "github.com/dmitrijs2005/portfolio/internal/envx"

// parseEnv overlays Config with PORTFOLIO_CLIENT_* variables, reading .env
// first when present.
func parseEnv(c *Config) {
	if err := envx.Load(); err != nil {
		panic(err)
	}

	c.ServerURL = envx.String("PORTFOLIO_CLIENT_SERVER_URL", c.ServerURL)
	c.HealthEndpointAddr = envx.String("PORTFOLIO_CLIENT_HEALTH_ADDR", c.HealthEndpointAddr)
	c.OnlineCheckInterval = envx.Duration("PORTFOLIO_CLIENT_CHECK_INTERVAL", c.OnlineCheckInterval)
	c.RequestTimeout = envx.Duration("PORTFOLIO_CLIENT_REQUEST_TIMEOUT", c.RequestTimeout)
	c.CacheDSN = envx.String("PORTFOLIO_CLIENT_CACHE_DSN", c.CacheDSN)
	c.Backend = Backend(envx.String("PORTFOLIO_CLIENT_BACKEND", string(c.Backend)))
	c.LogLevel = envx.String("PORTFOLIO_CLIENT_LOG_LEVEL", c.LogLevel)
}
