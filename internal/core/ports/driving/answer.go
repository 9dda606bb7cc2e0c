package driving

import (
	"context"

	"github.com/custodia-labs/unisearch/internal/core/domain"
)

// AnswerService answers questions against the stored prospectuses.
type AnswerService interface {
	// SearchWithAI scores the store against the query, assembles a bounded context
	// and asks the completion model. It never fails: every outcome is a well-formed result.
	SearchWithAI(ctx context.Context, query string, opts domain.SearchOptions) domain.AnswerResult

	// Search returns the ranked documents for a query without calling the model.
	Search(ctx context.Context, query string, opts domain.SearchOptions) []domain.ScoredDocument
}
