// Package chunker splits text into overlapping, sentence-aware windows.
package chunker

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/unisearch/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 2000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// DefaultBreakThreshold is the fraction of the chunk size a sentence break must lie beyond.
const DefaultBreakThreshold = 0.5

// DefaultMinChunkLength drops trimmed chunks of this length or shorter.
const DefaultMinChunkLength = 50

// Processor splits document content into chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize      int
	overlap        int
	breakThreshold float64
	minChunkLength int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
// Overlap may exceed the chunk size; the cursor still advances.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithBreakThreshold sets how far into a window a sentence break must be to be used.
func WithBreakThreshold(threshold float64) Option {
	return func(p *Processor) {
		if threshold >= 0 && threshold <= 1 {
			p.breakThreshold = threshold
		}
	}
}

// WithMinChunkLength sets the trimmed length a chunk must exceed to be kept.
func WithMinChunkLength(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.minChunkLength = n
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:      DefaultChunkSize,
		overlap:        DefaultChunkOverlap,
		breakThreshold: DefaultBreakThreshold,
		minChunkLength: DefaultMinChunkLength,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	return p.Split(doc.Content), nil
}

// Split cuts text into windows of at most chunkSize characters.
//
// Each window ends at the last '.' or '\n' at or before the tentative end,
// provided that break lies beyond breakThreshold of the window; otherwise the
// cut is hard. The cursor then moves to max(cursor+1, end-overlap), where end
// is the tentative or adjusted end before clamping to the text. Windows whose
// trimmed length does not exceed minChunkLength are dropped.
//
// Text that fits in one window yields a single chunk regardless of length.
func (p *Processor) Split(text string) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	n := len(runes)

	if n <= p.chunkSize {
		return []domain.Chunk{{
			Text:        strings.TrimSpace(text),
			Index:       0,
			TotalChunks: 1,
			Start:       0,
			End:         n,
		}}
	}

	step := p.chunkSize - p.overlap
	if step < 1 {
		step = 1
	}
	chunks := make([]domain.Chunk, 0, n/step+1)

	for cursor := 0; cursor < n; {
		end := cursor + p.chunkSize
		if end < n {
			minBreak := float64(cursor) + float64(p.chunkSize)*p.breakThreshold
			for i := end; float64(i) > minBreak; i-- {
				if runes[i] == '.' || runes[i] == '\n' {
					end = i + 1
					break
				}
			}
		}

		sliceEnd := min(end, n)
		piece := strings.TrimSpace(string(runes[cursor:sliceEnd]))
		if utf8.RuneCountInString(piece) > p.minChunkLength {
			chunks = append(chunks, domain.Chunk{
				Text:  piece,
				Start: cursor,
				End:   sliceEnd,
			})
		}

		cursor = max(cursor+1, end-p.overlap)
	}

	return Reindex(chunks)
}

// Reindex assigns sequential indexes and the total count to chunks in place.
func Reindex(chunks []domain.Chunk) []domain.Chunk {
	for i := range chunks {
		chunks[i].Index = i
		chunks[i].TotalChunks = len(chunks)
	}
	return chunks
}
