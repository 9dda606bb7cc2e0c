package driven

import (
	"context"

	"github.com/custodia-labs/unisearch/internal/core/domain"
)

// DocumentStore is the sole owner of processed documents.
// Mutations are serialised and each one persists a complete snapshot.
// Persistence failures are logged, never returned: in-memory state stays authoritative.
// Callers always receive copies.
type DocumentStore interface {
	// Add upserts a document keyed by its ID.
	// Returns ErrInvalidInput when the document has no ID.
	Add(ctx context.Context, doc domain.Document) error

	// ReplaceSource removes every document of sourceName and stores docs in one mutation.
	ReplaceSource(ctx context.Context, sourceName string, docs []domain.Document) error

	// Remove deletes a document by ID. Returns false if it was absent.
	Remove(ctx context.Context, id string) bool

	// RemoveSource deletes every document of sourceName and returns how many were removed.
	RemoveSource(ctx context.Context, sourceName string) int

	// Get returns a document by ID.
	Get(ctx context.Context, id string) (domain.Document, bool)

	// List returns all documents in insertion order.
	List(ctx context.Context) []domain.Document

	// Size returns the number of stored documents.
	Size(ctx context.Context) int
}

// SnapshotStore persists whole-store snapshots.
type SnapshotStore interface {
	// Load returns the last saved snapshot, or nil if none exists.
	Load(ctx context.Context) (*domain.Snapshot, error)

	// Save replaces the persisted snapshot.
	Save(ctx context.Context, snapshot *domain.Snapshot) error

	// Close releases resources.
	Close() error
}
