// Package normalise cleans text produced by extraction.
package normalise

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/unisearch/internal/core/domain"
)

var (
	digitLines = regexp.MustCompile(`(?m)^[ \t]*\d+[ \t]*$`)
	pageMarker = regexp.MustCompile(`(?i)\bpage\s+\d+\b`)
	whitespace = regexp.MustCompile(`\s+`)
	dotRuns    = regexp.MustCompile(`\.{3,}`)
	dashRuns   = regexp.MustCompile(`-{3,}`)
	joinedWord = regexp.MustCompile(`([a-z])([A-Z])`)
)

// Normalise collapses whitespace, strips page markers and digit-only lines,
// shortens dot and dash runs and splits words joined by PDF extraction.
// Digit-only lines are removed before newlines are collapsed.
func Normalise(raw string) string {
	s := digitLines.ReplaceAllString(raw, "")
	s = pageMarker.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, " ")
	s = dotRuns.ReplaceAllString(s, "...")
	s = dashRuns.ReplaceAllString(s, "---")
	s = joinedWord.ReplaceAllString(s, "${1} ${2}")
	return strings.TrimSpace(s)
}

// Processor normalises document content in place.
// It implements the PostProcessor interface.
type Processor struct{}

// New creates a new normalise processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "normalise"
}

// Process rewrites doc.Content and passes chunks through unchanged.
func (p *Processor) Process(_ context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	doc.Content = Normalise(doc.Content)
	return chunks, nil
}
