package driving

import (
	"context"

	"github.com/custodia-labs/unisearch/internal/core/domain"
)

// DocumentService manages stored documents.
type DocumentService interface {
	// List returns the inventory of stored documents.
	List(ctx context.Context) domain.Inventory

	// Get retrieves a document by ID.
	// Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (domain.Document, error)

	// Remove deletes every document of a source. Returns false if none existed.
	Remove(ctx context.Context, sourceName string) bool
}
