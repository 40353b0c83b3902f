// Package cli provides the interactive portfolio admin client.
//
// It wires configuration, the local SQLite cache, the data and resume
// managers and an interactive REPL. The backend is chosen once from config:
// "remote" talks to the portfolio server, "local" keeps everything in the
// cache and disables cloud storage.
//
// Key features:
//   - Login against the admin password (remote mode)
//   - Show / edit portfolio sections, reset to defaults
//   - Export / import JSON backups
//   - Resume upload, download, rename, delete, cloud migration and sync
//   - Certificate attachment upload / delete
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// In remote mode a background watcher probes the server's health endpoint
// and keeps the prompt's online/offline status current.
package cli
