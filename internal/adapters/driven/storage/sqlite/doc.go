// Package sqlite provides a SQLite-based implementation of the driven storage ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. It implements several store interfaces over a single database connection:
//
//   - PostStore: local posts and their sync baselines
//   - SiteStore: the connected site configuration
//   - SessionStore: daily writing sessions for goal tracking
//
// Secrets are never written to the database; see the secret adapters.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files,
// and applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.quill/data/quill.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses WAL mode and a single connection,
// so batch writes run as one transaction without contending for the write lock.
package sqlite
