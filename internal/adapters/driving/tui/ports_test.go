package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/unisearch/internal/core/domain"
)

// MockAnswerService implements driving.AnswerService for testing.
type MockAnswerService struct {
	SearchWithAIFunc func(ctx context.Context, query string, opts domain.SearchOptions) domain.AnswerResult
}

func (m *MockAnswerService) SearchWithAI(ctx context.Context, query string, opts domain.SearchOptions) domain.AnswerResult {
	if m.SearchWithAIFunc != nil {
		return m.SearchWithAIFunc(ctx, query, opts)
	}
	return domain.NoData("No documents loaded.")
}

func (m *MockAnswerService) Search(_ context.Context, _ string, _ domain.SearchOptions) []domain.ScoredDocument {
	return nil
}

// MockDocumentService implements driving.DocumentService for testing.
type MockDocumentService struct {
	Docs []domain.Document
}

func (m *MockDocumentService) List(_ context.Context) domain.Inventory {
	inv := domain.Inventory{TotalDocuments: len(m.Docs), Documents: []domain.DocumentSummary{}}
	for _, d := range m.Docs {
		inv.Documents = append(inv.Documents, d.Summary())
	}
	return inv
}

func (m *MockDocumentService) Get(_ context.Context, id string) (domain.Document, error) {
	for _, d := range m.Docs {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Document{}, domain.ErrNotFound
}

func (m *MockDocumentService) Remove(_ context.Context, _ string) bool {
	return false
}

func TestNewPorts(t *testing.T) {
	answer := &MockAnswerService{}
	docs := &MockDocumentService{}

	ports := NewPorts(answer, docs)

	assert.Equal(t, answer, ports.Answer)
	assert.Equal(t, docs, ports.Document)
	assert.NoError(t, ports.Validate())
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name  string
		ports *Ports
		want  error
	}{
		{"missing answer", &Ports{Document: &MockDocumentService{}}, ErrMissingAnswerService},
		{"missing document", &Ports{Answer: &MockAnswerService{}}, ErrMissingDocumentService},
		{"empty", &Ports{}, ErrMissingAnswerService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.ports.Validate(), tt.want)
		})
	}
}
