package config

import "github.com/dmitrijs2005/portfolio/internal/envx"

// parseEnv overlays Config with PORTFOLIO_* environment variables. A .env
// file in the working directory is read first when present.
func parseEnv(c *Config) {
	if err := envx.Load(); err != nil {
		panic(err)
	}

	c.EndpointAddrHTTP = envx.String("PORTFOLIO_HTTP_ADDR", c.EndpointAddrHTTP)
	c.EndpointAddrGRPC = envx.String("PORTFOLIO_GRPC_ADDR", c.EndpointAddrGRPC)
	c.DatabaseDSN = envx.String("PORTFOLIO_DATABASE_DSN", c.DatabaseDSN)
	c.SecretKey = envx.String("PORTFOLIO_SECRET_KEY", c.SecretKey)
	c.AccessTokenValidityDuration = envx.Duration("PORTFOLIO_TOKEN_TTL", c.AccessTokenValidityDuration)
	c.AdminPasswordHash = envx.String("PORTFOLIO_ADMIN_PASSWORD_HASH", c.AdminPasswordHash)
	c.LogLevel = envx.String("PORTFOLIO_LOG_LEVEL", c.LogLevel)
	c.HealthCheckInterval = envx.Duration("PORTFOLIO_HEALTH_INTERVAL", c.HealthCheckInterval)
	c.S3RootUser = envx.String("PORTFOLIO_S3_USER", c.S3RootUser)
	c.S3RootPassword = envx.String("PORTFOLIO_S3_PASSWORD", c.S3RootPassword)
	c.S3ResumeBucket = envx.String("PORTFOLIO_S3_RESUME_BUCKET", c.S3ResumeBucket)
	c.S3CertificateBucket = envx.String("PORTFOLIO_S3_CERTIFICATE_BUCKET", c.S3CertificateBucket)
	c.S3Region = envx.String("PORTFOLIO_S3_REGION", c.S3Region)
	c.S3BaseEndpoint = envx.String("PORTFOLIO_S3_ENDPOINT", c.S3BaseEndpoint)
	c.S3PublicBaseURL = envx.String("PORTFOLIO_S3_PUBLIC_URL", c.S3PublicBaseURL)
}
