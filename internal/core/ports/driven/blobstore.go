package driven

import (
	"context"

	"github.com/custodia-labs/unisearch/internal/core/domain"
)

// BlobStore supplies raw source bytes by name.
type BlobStore interface {
	// Fetch returns the raw document stored under name.
	// Returns ErrNotFound if the blob does not exist.
	Fetch(ctx context.Context, name string) (*domain.RawDocument, error)

	// List returns the names of all available blobs.
	List(ctx context.Context) ([]string, error)

	// Put stores content under name, replacing any existing blob.
	Put(ctx context.Context, name string, content []byte) error
}

// BlobWatcher pushes blob changes as they happen.
type BlobWatcher interface {
	// Watch emits changes until ctx is cancelled, then closes the channel.
	Watch(ctx context.Context) (<-chan domain.BlobChange, error)
}
