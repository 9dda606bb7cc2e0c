// Package memory provides the owned, in-memory document index.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/unisearch/internal/core/domain"
	"github.com/custodia-labs/unisearch/internal/core/ports/driven"
	"github.com/custodia-labs/unisearch/internal/logger"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is the in-memory implementation of driven.DocumentStore.
// It keeps documents in insertion order and writes a full snapshot after
// every mutation while still holding the write lock.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	order     []string
	snapshots driven.SnapshotStore
	now       func() time.Time
}

// NewDocumentStore creates an empty document store.
// snapshots may be nil, in which case nothing is persisted.
func NewDocumentStore(snapshots driven.SnapshotStore) *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		snapshots: snapshots,
		now:       time.Now,
	}
}

// OpenDocumentStore creates a document store primed from the last snapshot.
// A missing snapshot yields an empty store.
func OpenDocumentStore(ctx context.Context, snapshots driven.SnapshotStore) (*DocumentStore, error) {
	s := NewDocumentStore(snapshots)
	if snapshots == nil {
		return s, nil
	}

	snap, err := snapshots.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	if snap == nil {
		logger.Debug("no snapshot found, starting with an empty store")
		return s, nil
	}

	for _, doc := range snap.Ordered() {
		s.put(doc)
	}
	logger.Debug("loaded %d documents from snapshot saved at %s", len(s.order), snap.SavedAt.Format(time.RFC3339))
	return s, nil
}

// Add upserts a document and persists a snapshot.
func (s *DocumentStore) Add(ctx context.Context, doc domain.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("%w: document has no identifier", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(s.stamp(doc))
	s.persist(ctx)
	return nil
}

// ReplaceSource swaps every document of a source for docs and persists one snapshot.
func (s *DocumentStore) ReplaceSource(ctx context.Context, sourceName string, docs []domain.Document) error {
	for _, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("%w: document has no identifier", domain.ErrInvalidInput)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeWhere(func(d domain.Document) bool { return d.SourceName == sourceName })
	for _, doc := range docs {
		s.put(s.stamp(doc))
	}
	s.persist(ctx)
	return nil
}

// Remove deletes a document by ID.
func (s *DocumentStore) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[id]; !ok {
		return false
	}
	s.removeWhere(func(d domain.Document) bool { return d.ID == id })
	s.persist(ctx)
	return true
}

// RemoveSource deletes every document of a source.
func (s *DocumentStore) RemoveSource(ctx context.Context, sourceName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.removeWhere(func(d domain.Document) bool { return d.SourceName == sourceName })
	if n > 0 {
		s.persist(ctx)
	}
	return n
}

// Get returns a copy of a document.
func (s *DocumentStore) Get(_ context.Context, id string) (domain.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	return doc, ok
}

// List returns copies of all documents in insertion order.
func (s *DocumentStore) List(_ context.Context) []domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.Document, 0, len(s.order))
	for _, id := range s.order {
		docs = append(docs, s.documents[id])
	}
	return docs
}

// Size returns the number of stored documents.
func (s *DocumentStore) Size(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// stamp fills derived fields. LastUpdated is the time of this write.
func (s *DocumentStore) stamp(doc domain.Document) domain.Document {
	doc.WordCount = domain.CountWords(doc.Content)
	doc.LastUpdated = s.now().UTC()
	return doc
}

// put inserts or replaces a document, keeping the original position on replace.
// Caller must hold the write lock.
func (s *DocumentStore) put(doc domain.Document) {
	if _, exists := s.documents[doc.ID]; !exists {
		s.order = append(s.order, doc.ID)
	}
	s.documents[doc.ID] = doc
}

// removeWhere deletes matching documents and returns how many were removed.
// Caller must hold the write lock.
func (s *DocumentStore) removeWhere(match func(domain.Document) bool) int {
	kept := s.order[:0]
	removed := 0
	for _, id := range s.order {
		if match(s.documents[id]) {
			delete(s.documents, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return removed
}

// persist writes the full store. Failures are logged and swallowed.
// Caller must hold the write lock.
func (s *DocumentStore) persist(ctx context.Context) {
	if s.snapshots == nil {
		return
	}

	docs := make([]domain.Document, 0, len(s.order))
	for _, id := range s.order {
		docs = append(docs, s.documents[id])
	}
	snap := domain.NewSnapshot(docs)
	snap.SavedAt = s.now().UTC()

	if err := s.snapshots.Save(context.WithoutCancel(ctx), snap); err != nil {
		logger.Error("failed to persist document store (%d documents kept in memory): %v", len(docs), err)
		return
	}
	logger.Debug("persisted snapshot with %d documents", len(docs))
}
