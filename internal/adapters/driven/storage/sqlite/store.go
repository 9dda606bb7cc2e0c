package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/unisearch/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/unisearch/internal/core/domain"
	"github.com/custodia-labs/unisearch/internal/core/ports/driven"
)

// FileName is the database file name within the data directory.
const FileName = "documents.db"

// Ensure Store implements the interface.
var _ driven.SnapshotStore = (*Store)(nil)

// Store is a SQLite-backed snapshot store.
type Store struct {
	db     *sql.DB
	path   string
	closed atomic.Bool
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.unisearch/data/documents.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".unisearch", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, FileName)

	// WAL lets readers proceed while a snapshot is being written
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the last saved snapshot. Returns nil if nothing was saved yet.
func (s *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	if s.closed.Load() {
		return nil, domain.ErrStoreClosed
	}
	snap := &domain.Snapshot{Documents: make(map[string]domain.Document)}

	var savedAt sql.NullTime
	err := s.db.QueryRowContext(ctx, `SELECT version, saved_at FROM snapshot_meta WHERE id = 1`).
		Scan(&snap.Version, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot metadata: %w", err)
	}
	if snap.Version > domain.SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d is newer than supported version %d",
			snap.Version, domain.SnapshotVersion)
	}
	if savedAt.Valid {
		snap.SavedAt = savedAt.Time
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_name, display_name, content, sections, word_count, last_updated
		FROM documents ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		snap.Documents[doc.ID] = *doc
		snap.Order = append(snap.Order, doc.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return snap, nil
}

// Save replaces the stored snapshot in a single transaction.
func (s *Store) Save(ctx context.Context, snap *domain.Snapshot) error {
	if s.closed.Load() {
		return domain.ErrStoreClosed
	}
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", domain.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clearing documents: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, position, source_name, display_name, content, sections, word_count, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, doc := range snap.Ordered() {
		sectionsJSON, err := json.Marshal(doc.Sections)
		if err != nil {
			return fmt.Errorf("marshalling sections: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, doc.ID, i, doc.SourceName, doc.DisplayName,
			doc.Content, string(sectionsJSON), doc.WordCount, doc.LastUpdated.UTC()); err != nil {
			return fmt.Errorf("inserting document %s: %w", doc.ID, err)
		}
	}

	version := snap.Version
	if version == 0 {
		version = domain.SnapshotVersion
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshot_meta (id, version, saved_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			version = excluded.version,
			saved_at = excluded.saved_at
	`, version, snap.SavedAt.UTC()); err != nil {
		return fmt.Errorf("saving snapshot metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// scanDocument scans a single document row.
func scanDocument(rows *sql.Rows) (*domain.Document, error) {
	var doc domain.Document
	var sectionsJSON string
	var lastUpdated sql.NullTime
	if err := rows.Scan(&doc.ID, &doc.SourceName, &doc.DisplayName, &doc.Content,
		&sectionsJSON, &doc.WordCount, &lastUpdated); err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	if err := json.Unmarshal([]byte(sectionsJSON), &doc.Sections); err != nil {
		return nil, fmt.Errorf("unmarshaling sections: %w", err)
	}
	if lastUpdated.Valid {
		doc.LastUpdated = lastUpdated.Time
	}
	return &doc, nil
}
