// Package sqlite persists document store snapshots in a SQLite database.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements driven.SnapshotStore:
// each Save replaces the documents table inside one transaction, so the database
// always holds a complete, self-consistent snapshot.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.unisearch/data/documents.db
package sqlite
