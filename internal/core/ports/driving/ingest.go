package driving

import (
	"context"

	"github.com/custodia-labs/unisearch/internal/core/domain"
)

// IngestService turns source material into stored documents.
type IngestService interface {
	// AddDocument normalises, sections and optionally chunks rawText, then replaces
	// every stored document of sourceName with the result.
	AddDocument(ctx context.Context, sourceName, rawText string, opts domain.IngestOptions) ([]domain.Document, error)

	// IngestFile fetches a blob, extracts its text and adds it.
	// Extraction failures store a placeholder document instead of failing.
	IngestFile(ctx context.Context, name string, opts domain.IngestOptions) ([]domain.Document, error)

	// IngestBatch ingests files sequentially with paced bursts.
	// Per-file failures are reported, not returned; only cancellation stops the batch.
	IngestBatch(ctx context.Context, items []BatchItem) (*BatchReport, error)

	// IngestLibrary ingests every blob currently in storage as one batch.
	IngestLibrary(ctx context.Context) (*BatchReport, error)

	// Follow ingests blob changes as they happen until ctx is cancelled.
	Follow(ctx context.Context) error
}

// BatchItem is one file of a batch ingestion.
type BatchItem struct {
	// Name is the blob name.
	Name string

	// Content, when set, is stored under Name before ingestion.
	Content []byte

	// Options tunes the ingestion of this file.
	Options domain.IngestOptions
}

// BatchReport summarises a batch ingestion.
type BatchReport struct {
	// Files is the number of files processed successfully.
	Files int

	// Documents is the number of documents stored.
	Documents int

	// Failed maps file names to the reason they were skipped.
	Failed map[string]string
}
