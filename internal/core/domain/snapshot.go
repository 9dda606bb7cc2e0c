package domain

import (
	"sort"
	"time"
)

// SnapshotVersion is the current persisted snapshot layout.
const SnapshotVersion = 1

// Snapshot is the complete persisted state of the document store.
// It is always written whole, never patched.
type Snapshot struct {
	Version   int                 `json:"version"`
	SavedAt   time.Time           `json:"savedAt"`
	Documents map[string]Document `json:"documents"`

	// Order is the store's insertion order of identifiers.
	Order []string `json:"order,omitempty"`
}

// NewSnapshot creates a snapshot at the current version from documents in insertion order.
func NewSnapshot(docs []Document) *Snapshot {
	m := make(map[string]Document, len(docs))
	order := make([]string, 0, len(docs))
	for i := range docs {
		if _, dup := m[docs[i].ID]; !dup {
			order = append(order, docs[i].ID)
		}
		m[docs[i].ID] = docs[i]
	}
	return &Snapshot{
		Version:   SnapshotVersion,
		SavedAt:   time.Now(),
		Documents: m,
		Order:     order,
	}
}

// Ordered returns the documents in insertion order.
// Identifiers missing from Order follow, sorted by identifier.
func (s *Snapshot) Ordered() []Document {
	if s == nil {
		return nil
	}
	seen := make(map[string]bool, len(s.Documents))
	docs := make([]Document, 0, len(s.Documents))
	for _, id := range s.Order {
		doc, ok := s.Documents[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		if doc.ID == "" {
			doc.ID = id
		}
		docs = append(docs, doc)
	}

	var rest []string
	for id := range s.Documents {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		doc := s.Documents[id]
		if doc.ID == "" {
			doc.ID = id
		}
		docs = append(docs, doc)
	}
	return docs
}
