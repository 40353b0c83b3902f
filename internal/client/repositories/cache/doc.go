// Package cache provides the admin client's local key/value cache.
//
// # Overview
//
// The package defines a Repository interface over opaque byte values and a
// SQLite-backed implementation (SQLiteRepository) that works on a dbx.DBTX
// (either *sql.DB or *sql.Tx). The Data Manager keeps the last known
// portfolio document here under a single key.
//
// Get returns (nil, nil) when the key is absent, so callers can tell "no
// entry" from a storage failure without errors.Is.
//
// Typical Usage
//
//	repo := cache.NewSQLiteRepository(db)
//	_ = repo.Set(ctx, "portfolio_data", raw)
//	raw, _ := repo.Get(ctx, "portfolio_data")
//	_ = repo.Delete(ctx, "portfolio_data")
package cache
