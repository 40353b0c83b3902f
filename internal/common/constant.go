package common

// AuthorizationHeaderName carries the admin bearer token on API requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the scheme prefix expected in AuthorizationHeaderName.
const BearerPrefix = "Bearer "

// MaxResumeSize is the upper bound for an uploaded resume, in bytes.
const MaxResumeSize = 10 * 1024 * 1024

// MaxCertificateSize is the upper bound for a certificate attachment, in bytes.
const MaxCertificateSize = 10 * 1024 * 1024

// HealthServiceName is the gRPC health service the server reports and the
// admin client probes.
const HealthServiceName = "portfolio"
