package client

import "errors"

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrLocalMode is returned by LocalBackend for operations that need the
	// server.
	ErrLocalMode = errors.New("cloud storage is not available in local mode")
)
