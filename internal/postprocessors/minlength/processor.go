// Package minlength removes chunks too short to be worth storing.
package minlength

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/unisearch/internal/core/domain"
	"github.com/custodia-labs/unisearch/internal/postprocessors/chunker"
)

// DefaultMinLength is the default minimum substantial chunk length.
const DefaultMinLength = 100

// Processor drops short chunks from multi-chunk documents.
// A document that produced a single chunk is always kept whole.
type Processor struct {
	minLength int
}

// New creates a new minlength processor. Non-positive values use the default.
func New(minLength int) *Processor {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	return &Processor{minLength: minLength}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "minlength"
}

// Process filters chunks and reassigns their indexes.
func (p *Processor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if len(chunks) <= 1 {
		return chunks, nil
	}

	kept := make([]domain.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if utf8.RuneCountInString(strings.TrimSpace(c.Text)) >= p.minLength {
			kept = append(kept, c)
		}
	}

	return chunker.Reindex(kept), nil
}
