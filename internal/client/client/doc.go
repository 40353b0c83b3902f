// Package client contains the admin CLI's connections to the outside world.
//
// # Overview
//
// The package provides:
//  1. APIClient, an HTTP client of the portfolio server's JSON API. It keeps
//     the admin session token and maps transport failures and status codes
//     to sentinel errors.
//  2. LocalBackend, used when the CLI runs without a server: writes are
//     accepted and only land in the local cache, cloud operations fail
//     with ErrLocalMode.
//  3. HealthClient, a gRPC health probe used by the online-status watcher.
//  4. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Callers match with errors.Is: ErrUnavailable, ErrUnauthorized,
// ErrLocalMode, common.ErrorNotFound, common.ErrValidation and
// common.ErrEmptyPortfolio.
//
// All operations accept context.Context and honor cancellation.
package client
