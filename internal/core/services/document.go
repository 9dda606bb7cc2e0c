package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/unisearch/internal/core/domain"
	"github.com/custodia-labs/unisearch/internal/core/ports/driven"
	"github.com/custodia-labs/unisearch/internal/core/ports/driving"
	"github.com/custodia-labs/unisearch/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService exposes management operations over the document store.
type DocumentService struct {
	store driven.DocumentStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(store driven.DocumentStore) *DocumentService {
	return &DocumentService{store: store}
}

// List returns the inventory of stored documents in insertion order.
func (s *DocumentService) List(ctx context.Context) domain.Inventory {
	docs := s.store.List(ctx)
	inv := domain.Inventory{
		TotalDocuments: len(docs),
		Documents:      make([]domain.DocumentSummary, 0, len(docs)),
	}
	for _, doc := range docs {
		inv.Documents = append(inv.Documents, doc.Summary())
	}
	return inv
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (domain.Document, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Document{}, fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}
	doc, ok := s.store.Get(ctx, id)
	if !ok {
		return domain.Document{}, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return doc, nil
}

// Remove deletes every document of a source. Returns false if none existed.
func (s *DocumentService) Remove(ctx context.Context, sourceName string) bool {
	n := s.store.RemoveSource(ctx, sourceName)
	if n > 0 {
		logger.Info("Removed %d document(s) for %s", n, sourceName)
	}
	return n > 0
}
