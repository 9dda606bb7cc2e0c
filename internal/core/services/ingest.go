package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/unisearch/internal/core/domain"
	"github.com/custodia-labs/unisearch/internal/core/ports/driven"
	"github.com/custodia-labs/unisearch/internal/core/ports/driving"
	"github.com/custodia-labs/unisearch/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns prospectus files and raw text into stored documents.
type IngestService struct {
	store       driven.DocumentStore
	pipeline    driven.PostProcessorPipeline
	blobs       driven.BlobStore
	watcher     driven.BlobWatcher
	normalisers driven.NormaliserRegistry
	limiter     *rate.Limiter
}

// NewIngestService creates a new ingest service.
// The blobs, watcher and normalisers parameters are optional: without them only
// AddDocument is available.
func NewIngestService(
	store driven.DocumentStore,
	pipeline driven.PostProcessorPipeline,
	blobs driven.BlobStore,
	watcher driven.BlobWatcher,
	normalisers driven.NormaliserRegistry,
	settings domain.IngestSettings,
) *IngestService {
	return &IngestService{
		store:       store,
		pipeline:    pipeline,
		blobs:       blobs,
		watcher:     watcher,
		normalisers: normalisers,
		limiter:     newBatchLimiter(settings),
	}
}

// newBatchLimiter allows BatchSize files per BatchPause.
func newBatchLimiter(settings domain.IngestSettings) *rate.Limiter {
	if settings.BatchSize <= 0 || settings.BatchPause <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	every := settings.BatchPause / time.Duration(settings.BatchSize)
	return rate.NewLimiter(rate.Every(every), settings.BatchSize)
}

// AddDocument processes rawText and replaces every stored document of sourceName.
func (s *IngestService) AddDocument(
	ctx context.Context,
	sourceName, rawText string,
	opts domain.IngestOptions,
) ([]domain.Document, error) {
	return s.add(ctx, sourceName, rawText, "", opts)
}

func (s *IngestService) add(
	ctx context.Context,
	sourceName, rawText, title string,
	opts domain.IngestOptions,
) ([]domain.Document, error) {
	if strings.TrimSpace(sourceName) == "" {
		return nil, fmt.Errorf("%w: source name is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(rawText) == "" {
		return nil, fmt.Errorf("%w: %s has no text", domain.ErrInvalidInput, sourceName)
	}

	start := time.Now()
	doc := domain.Document{
		ID:          sourceName,
		SourceName:  sourceName,
		DisplayName: strings.TrimSpace(opts.DisplayName),
		Content:     rawText,
	}

	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", sourceName, err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s has no text after normalisation", domain.ErrInvalidInput, sourceName)
	}

	if doc.DisplayName == "" {
		doc.DisplayName = fallbackDisplayName(title, sourceName)
	}

	docs := buildDocuments(doc, chunks)
	if err := s.store.ReplaceSource(ctx, sourceName, docs); err != nil {
		return nil, fmt.Errorf("store %s: %w", sourceName, err)
	}

	logger.Info("Added %s as %d document(s) for %s", sourceName, len(docs), doc.DisplayName)
	logger.Elapsed("Ingest "+sourceName, start)
	return docs, nil
}

// buildDocuments stores a single-chunk source whole and a multi-chunk source one document per chunk.
func buildDocuments(doc domain.Document, chunks []domain.Chunk) []domain.Document {
	if len(chunks) == 1 {
		return []domain.Document{doc}
	}

	docs := make([]domain.Document, 0, len(chunks))
	for _, c := range chunks {
		docs = append(docs, domain.Document{
			ID:          domain.DocumentID(doc.SourceName, c.Index, len(chunks)),
			SourceName:  doc.SourceName,
			DisplayName: doc.DisplayName,
			Content:     c.Text,
			Sections:    c.Sections,
		})
	}
	return docs
}

func fallbackDisplayName(title, sourceName string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	base := filepath.Base(sourceName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IngestFile fetches a blob, extracts its text and adds it.
// A file whose text cannot be extracted is stored as a placeholder document.
// Cancellation during extraction returns the error and leaves the store unchanged.
func (s *IngestService) IngestFile(ctx context.Context, name string, opts domain.IngestOptions) ([]domain.Document, error) {
	if s.blobs == nil || s.normalisers == nil {
		return nil, errors.New("blob storage not configured")
	}

	raw, err := s.blobs.Fetch(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}

	result, err := s.normalisers.Normalise(ctx, raw)
	if err != nil {
		// Cancellation leaves stored documents untouched.
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("extract %s: %w", name, err)
		}
		logger.Warn("Extracting text from %s failed: %v", name, err)
		return s.storePlaceholder(ctx, name, opts, err)
	}
	if strings.TrimSpace(result.Text) == "" {
		return s.storePlaceholder(ctx, name, opts, errors.New("no text found"))
	}

	return s.add(ctx, name, result.Text, result.Title, opts)
}

// storePlaceholder records that a file exists but could not be read.
func (s *IngestService) storePlaceholder(
	ctx context.Context,
	name string,
	opts domain.IngestOptions,
	cause error,
) ([]domain.Document, error) {
	display := strings.TrimSpace(opts.DisplayName)
	if display == "" {
		display = fallbackDisplayName("", name)
	}
	doc := domain.Document{
		ID:          name,
		SourceName:  name,
		DisplayName: display,
		Content: fmt.Sprintf("%s: %s could not be read (%v). Convert it to text and add it again.",
			domain.ErrExtractionFailed, name, cause),
	}
	if err := s.store.ReplaceSource(ctx, name, []domain.Document{doc}); err != nil {
		return nil, fmt.Errorf("store %s: %w", name, err)
	}
	return []domain.Document{doc}, nil
}

// IngestBatch ingests items in order, pausing between bursts.
func (s *IngestService) IngestBatch(ctx context.Context, items []driving.BatchItem) (*driving.BatchReport, error) {
	report := &driving.BatchReport{Failed: make(map[string]string)}

	for _, item := range items {
		if err := s.limiter.Wait(ctx); err != nil {
			return report, err
		}

		docs, err := s.ingestItem(ctx, item)
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			logger.Warn("Skipping %s: %v", item.Name, err)
			report.Failed[item.Name] = err.Error()
			continue
		}
		report.Files++
		report.Documents += len(docs)
	}

	logger.Info("Batch finished: %d file(s), %d document(s), %d failed",
		report.Files, report.Documents, len(report.Failed))
	return report, nil
}

func (s *IngestService) ingestItem(ctx context.Context, item driving.BatchItem) ([]domain.Document, error) {
	if item.Content != nil {
		if s.blobs == nil {
			return nil, errors.New("blob storage not configured")
		}
		if err := s.blobs.Put(ctx, item.Name, item.Content); err != nil {
			return nil, fmt.Errorf("store %s: %w", item.Name, err)
		}
	}
	return s.IngestFile(ctx, item.Name, item.Options)
}

// IngestLibrary ingests every blob in storage.
func (s *IngestService) IngestLibrary(ctx context.Context) (*driving.BatchReport, error) {
	if s.blobs == nil {
		return nil, errors.New("blob storage not configured")
	}
	names, err := s.blobs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}

	logger.Section("Library")
	logger.Debug("Found %d file(s)", len(names))

	items := make([]driving.BatchItem, 0, len(names))
	for _, name := range names {
		items = append(items, driving.BatchItem{Name: name})
	}
	return s.IngestBatch(ctx, items)
}

// Follow applies blob changes to the store until ctx is cancelled.
func (s *IngestService) Follow(ctx context.Context) error {
	if s.watcher == nil {
		return errors.New("blob watching not configured")
	}

	changes, err := s.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			s.apply(ctx, change)
		}
	}
}

func (s *IngestService) apply(ctx context.Context, change domain.BlobChange) {
	logger.Debug("Blob %s %s", change.Name, change.Type)

	switch change.Type {
	case domain.ChangeCreated, domain.ChangeUpdated:
		if err := s.limiter.Wait(ctx); err != nil {
			return
		}
		if _, err := s.IngestFile(ctx, change.Name, domain.IngestOptions{}); err != nil {
			logger.Warn("Ingesting %s failed: %v", change.Name, err)
		}
	case domain.ChangeDeleted:
		n := s.store.RemoveSource(ctx, change.Name)
		logger.Info("Removed %d document(s) for %s", n, change.Name)
	}
}
