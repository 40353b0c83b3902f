// Package common defines shared constants, helpers and sentinel errors used
// across the portfolio server and the admin client. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid, malformed or expired token).
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrPasswordNotSetUp = errors.New("admin password is not configured")

	// Portfolio content errors.
	ErrUnknownSection = errors.New("unknown section")
	ErrEmptyPortfolio = errors.New("no portfolio data")

	// Validation errors. Concrete causes wrap ErrValidation.
	ErrValidation          = errors.New("validation error")
	ErrFileTooLarge        = errors.New("file is too large")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrEmptyFile           = errors.New("empty file")

	// Resume content errors.
	ErrNoContentReference = errors.New("resume has no content reference")
	ErrResumeNotFound     = errors.New("resume not found")
)
