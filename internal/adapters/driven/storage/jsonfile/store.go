// Package jsonfile persists document store snapshots as a single JSON file.
//
// Writes go to a temporary file in the same directory which is then renamed
// over the target, so readers never observe a partially written snapshot.
//
// # Data Location
//
// By default, the snapshot is stored at ~/.unisearch/data/documents.json
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/unisearch/internal/core/domain"
	"github.com/custodia-labs/unisearch/internal/core/ports/driven"
)

// FileName is the snapshot file name within the data directory.
const FileName = "documents.json"

// Ensure Store implements the interface.
var _ driven.SnapshotStore = (*Store)(nil)

// Store reads and writes snapshot files.
type Store struct {
	path string
}

// NewStore creates a snapshot store in dataDir.
// If dataDir is empty, defaults to ~/.unisearch/data.
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

	return &Store{path: filepath.Join(dataDir, FileName)}, nil
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the snapshot. Returns nil if the file does not exist.
func (s *Store) Load(_ context.Context) (*domain.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", s.path, err)
	}
	if snap.Version > domain.SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d is newer than supported version %d",
			snap.Version, domain.SnapshotVersion)
	}
	if snap.Documents == nil {
		snap.Documents = make(map[string]domain.Document)
	}
	return &snap, nil
}

// Save atomically replaces the snapshot file.
func (s *Store) Save(_ context.Context, snap *domain.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", domain.ErrInvalidInput)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".documents-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		return fmt.Errorf("setting snapshot permissions: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

// Close releases resources. The file store holds none.
func (s *Store) Close() error {
	return nil
}
