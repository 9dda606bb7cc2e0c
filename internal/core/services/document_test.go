package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/unisearch/internal/core/domain"
)

func TestDocumentService_List(t *testing.T) {
	store := newTestStore(t,
		domain.Document{ID: "uct.pdf", DisplayName: "UCT", Content: "one two three"},
		domain.Document{ID: "wits.pdf", DisplayName: "Wits", Content: "four five"},
	)
	svc := NewDocumentService(store)

	inv := svc.List(context.Background())

	assert.Equal(t, 2, inv.TotalDocuments)
	require.Len(t, inv.Documents, 2)
	assert.Equal(t, "uct.pdf", inv.Documents[0].ID)
	assert.Equal(t, "UCT", inv.Documents[0].DisplayName)
	assert.Equal(t, "wits.pdf", inv.Documents[1].ID)
	assert.False(t, inv.Documents[0].LastUpdated.IsZero())
}

func TestDocumentService_List_Empty(t *testing.T) {
	inv := NewDocumentService(newTestStore(t)).List(context.Background())

	assert.Zero(t, inv.TotalDocuments)
	assert.NotNil(t, inv.Documents)
	assert.Empty(t, inv.Documents)
}

func TestDocumentService_Get(t *testing.T) {
	svc := NewDocumentService(newTestStore(t, domain.Document{ID: "uct.pdf", Content: "fees"}))
	ctx := context.Background()

	doc, err := svc.Get(ctx, "uct.pdf")
	require.NoError(t, err)
	assert.Equal(t, "fees", doc.Content)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(ctx, " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentService_Remove(t *testing.T) {
	store := newTestStore(t,
		domain.Document{ID: "wits.txt#chunk-1", SourceName: "wits.txt", Content: "a"},
		domain.Document{ID: "wits.txt#chunk-2", SourceName: "wits.txt", Content: "b"},
		domain.Document{ID: "uct.txt", Content: "c"},
	)
	svc := NewDocumentService(store)
	ctx := context.Background()

	assert.True(t, svc.Remove(ctx, "wits.txt"))
	assert.Equal(t, 1, store.Size(ctx))
	assert.False(t, svc.Remove(ctx, "wits.txt"))
}
