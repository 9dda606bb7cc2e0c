package mcp

import (
	"context"

	"github.com/custodia-labs/unisearch/internal/core/domain"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	result    domain.AnswerResult
	scored    []domain.ScoredDocument
	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockAnswerService) SearchWithAI(_ context.Context, query string, opts domain.SearchOptions) domain.AnswerResult {
	m.lastQuery, m.lastOpts = query, opts
	return m.result
}

func (m *mockAnswerService) Search(_ context.Context, query string, opts domain.SearchOptions) []domain.ScoredDocument {
	m.lastQuery, m.lastOpts = query, opts
	return m.scored
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	err       error
}

func (m *mockDocumentService) List(_ context.Context) domain.Inventory {
	inv := domain.Inventory{TotalDocuments: len(m.documents), Documents: []domain.DocumentSummary{}}
	for _, d := range m.documents {
		inv.Documents = append(inv.Documents, d.Summary())
	}
	return inv
}

func (m *mockDocumentService) Get(_ context.Context, id string) (domain.Document, error) {
	if m.err != nil {
		return domain.Document{}, m.err
	}
	for _, d := range m.documents {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Document{}, domain.ErrNotFound
}

func (m *mockDocumentService) Remove(_ context.Context, _ string) bool {
	return false
}
