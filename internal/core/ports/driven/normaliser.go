package driven

import (
	"context"

	"github.com/custodia-labs/unisearch/internal/core/domain"
)

// Normaliser extracts plain text from raw documents.
// Each normaliser handles specific MIME types (e.g., PDF, Markdown).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Generic MIME normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise extracts text from a raw document.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of extraction.
// Cleanup and chunking are handled by the PostProcessor pipeline.
type NormaliseResult struct {
	// Text is the extracted plain text.
	Text string

	// Title is a best-effort title, used as a display name fallback.
	Title string
}
