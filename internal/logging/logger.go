// Package logging defines the structured-logging interface used across the
// portfolio server and admin client, with slog and zap implementations.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "section saved", "section", "projects", "bytes", n)
type Logger interface {
	Info(ctx context.Context, msg string, args ...any)

	// Warn is for degraded but recoverable paths, such as a fallback tier
	// being used or a storage object left behind.
	Warn(ctx context.Context, msg string, args ...any)

	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
