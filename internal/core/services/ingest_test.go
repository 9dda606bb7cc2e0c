package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/unisearch/internal/core/domain"
	"github.com/custodia-labs/unisearch/internal/core/ports/driving"
)

const uctText = "University of Cape Town prospectus. Annual tuition fees are R65000. " +
	"Admission requirements include a National Senior Certificate."

func longProspectus() string {
	return strings.Repeat("Wits offers engineering, law and medicine degrees in Johannesburg ", 80)
}

func newTestIngestService(t *testing.T) (*IngestService, *mockBlobStore) {
	t.Helper()
	blobs := newMockBlobStore()
	svc := NewIngestService(
		newTestStore(t),
		newTestPipeline(t),
		blobs,
		blobs,
		&mockNormalisers{fail: map[string]error{}},
		domain.IngestSettings{},
	)
	return svc, blobs
}

func TestIngestService_AddDocument_SingleChunk(t *testing.T) {
	svc, _ := newTestIngestService(t)

	docs, err := svc.AddDocument(context.Background(), "uct.txt", uctText, domain.IngestOptions{})
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "uct.txt", docs[0].ID)
	assert.Equal(t, "uct.txt", docs[0].SourceName)
	assert.Equal(t, "University of Cape Town", docs[0].DisplayName)
	assert.NotEmpty(t, docs[0].Sections.Fees)
	assert.NotEmpty(t, docs[0].Sections.Admissions)
	assert.Equal(t, 1, svc.store.Size(context.Background()))
}

func TestIngestService_AddDocument_MultipleChunks(t *testing.T) {
	svc, _ := newTestIngestService(t)

	docs, err := svc.AddDocument(context.Background(), "wits.txt", longProspectus(), domain.IngestOptions{DisplayName: "Wits"})
	require.NoError(t, err)

	require.Greater(t, len(docs), 1)
	for i, doc := range docs {
		assert.Equal(t, domain.DocumentID("wits.txt", i, len(docs)), doc.ID)
		assert.Equal(t, "wits.txt", doc.SourceName)
		assert.Equal(t, "Wits", doc.DisplayName)
		assert.NotEmpty(t, doc.Content)
	}
	assert.Equal(t, len(docs), svc.store.Size(context.Background()))
}

func TestIngestService_AddDocument_ReplacesSource(t *testing.T) {
	svc, _ := newTestIngestService(t)
	ctx := context.Background()

	_, err := svc.AddDocument(ctx, "wits.txt", longProspectus(), domain.IngestOptions{})
	require.NoError(t, err)
	_, err = svc.AddDocument(ctx, "uct.txt", uctText, domain.IngestOptions{})
	require.NoError(t, err)

	_, err = svc.AddDocument(ctx, "wits.txt", "Wits University moved its open day to May.", domain.IngestOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, svc.store.Size(ctx))
	doc, ok := svc.store.Get(ctx, "wits.txt")
	require.True(t, ok)
	assert.Contains(t, doc.Content, "open day")
}

func TestIngestService_AddDocument_DisplayNameFallback(t *testing.T) {
	svc, _ := newTestIngestService(t)

	docs, err := svc.AddDocument(context.Background(), "guides/open-day.txt", "Open day starts at nine in the main hall.", domain.IngestOptions{})
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "open-day", docs[0].DisplayName)
}

func TestIngestService_AddDocument_InvalidInput(t *testing.T) {
	svc, _ := newTestIngestService(t)
	ctx := context.Background()

	_, err := svc.AddDocument(ctx, "", uctText, domain.IngestOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.AddDocument(ctx, "empty.txt", "  \n\t ", domain.IngestOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Zero(t, svc.store.Size(ctx))
}

func TestIngestService_IngestFile(t *testing.T) {
	svc, blobs := newTestIngestService(t)
	blobs.put("uct.txt", "text/plain", uctText)

	docs, err := svc.IngestFile(context.Background(), "uct.txt", domain.IngestOptions{DisplayName: "UCT"})
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "UCT", docs[0].DisplayName)
}

func TestIngestService_IngestFile_NotFound(t *testing.T) {
	svc, _ := newTestIngestService(t)

	_, err := svc.IngestFile(context.Background(), "missing.pdf", domain.IngestOptions{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestService_IngestFile_Placeholder(t *testing.T) {
	svc, blobs := newTestIngestService(t)
	blobs.put("scan.pdf", "application/pdf", "%PDF-1.4 image only")
	svc.normalisers = &mockNormalisers{fail: map[string]error{"scan.pdf": domain.ErrExtractionFailed}}

	docs, err := svc.IngestFile(context.Background(), "scan.pdf", domain.IngestOptions{})
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "scan.pdf", docs[0].ID)
	assert.Equal(t, "scan", docs[0].DisplayName)
	assert.Contains(t, docs[0].Content, "could not be read")
	assert.Equal(t, 1, svc.store.Size(context.Background()))
}

func TestIngestService_IngestFile_CancelledKeepsStoredDocuments(t *testing.T) {
	svc, blobs := newTestIngestService(t)
	blobs.put("uct.txt", "text/plain", uctText)

	_, err := svc.IngestFile(context.Background(), "uct.txt", domain.IngestOptions{})
	require.NoError(t, err)
	before, ok := svc.store.Get(context.Background(), "uct.txt")
	require.True(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.normalisers = &mockNormalisers{fail: map[string]error{"uct.txt": ctx.Err()}}

	docs, err := svc.IngestFile(ctx, "uct.txt", domain.IngestOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, docs)

	after, ok := svc.store.Get(context.Background(), "uct.txt")
	require.True(t, ok)
	assert.Equal(t, before.Content, after.Content)
	assert.NotContains(t, after.Content, "could not be read")
}

func TestIngestService_IngestFile_DeadlineKeepsStoredDocuments(t *testing.T) {
	svc, blobs := newTestIngestService(t)
	blobs.put("uct.txt", "text/plain", uctText)

	_, err := svc.IngestFile(context.Background(), "uct.txt", domain.IngestOptions{})
	require.NoError(t, err)
	before, ok := svc.store.Get(context.Background(), "uct.txt")
	require.True(t, ok)

	svc.normalisers = &mockNormalisers{fail: map[string]error{"uct.txt": context.DeadlineExceeded}}

	_, err = svc.IngestFile(context.Background(), "uct.txt", domain.IngestOptions{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	after, ok := svc.store.Get(context.Background(), "uct.txt")
	require.True(t, ok)
	assert.Equal(t, before.Content, after.Content)
}

func TestIngestService_AddDocument_IdenticalTextIsIdempotent(t *testing.T) {
	svc, _ := newTestIngestService(t)
	ctx := context.Background()

	docs, err := svc.AddDocument(ctx, "wits.txt", longProspectus(), domain.IngestOptions{})
	require.NoError(t, err)
	size := svc.store.Size(ctx)
	first := make(map[string]domain.Document, len(docs))
	for _, d := range docs {
		stored, ok := svc.store.Get(ctx, d.ID)
		require.True(t, ok)
		first[d.ID] = stored
	}

	time.Sleep(5 * time.Millisecond)

	again, err := svc.AddDocument(ctx, "wits.txt", longProspectus(), domain.IngestOptions{})
	require.NoError(t, err)

	assert.Equal(t, size, svc.store.Size(ctx))
	require.Len(t, again, len(docs))
	for _, d := range again {
		prev, ok := first[d.ID]
		require.True(t, ok, "unexpected document %s", d.ID)
		stored, ok := svc.store.Get(ctx, d.ID)
		require.True(t, ok)
		assert.Equal(t, prev.Content, stored.Content)
		assert.True(t, stored.LastUpdated.After(prev.LastUpdated),
			"LastUpdated of %s should move forward", d.ID)
	}
}

func TestIngestService_IngestFile_NotConfigured(t *testing.T) {
	svc := NewIngestService(newTestStore(t), newTestPipeline(t), nil, nil, nil, domain.IngestSettings{})

	_, err := svc.IngestFile(context.Background(), "uct.txt", domain.IngestOptions{})
	assert.Error(t, err)
	assert.Error(t, svc.Follow(context.Background()))
}

func TestIngestService_IngestBatch(t *testing.T) {
	svc, blobs := newTestIngestService(t)
	blobs.put("uct.txt", "text/plain", uctText)
	blobs.put("wits.txt", "text/plain", longProspectus())

	report, err := svc.IngestBatch(context.Background(), []driving.BatchItem{
		{Name: "uct.txt"},
		{Name: "missing.txt"},
		{Name: "wits.txt", Options: domain.IngestOptions{DisplayName: "Wits"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Files)
	assert.Equal(t, svc.store.Size(context.Background()), report.Documents)
	require.Contains(t, report.Failed, "missing.txt")
	assert.Len(t, report.Failed, 1)
}

func TestIngestService_IngestBatch_StoresContent(t *testing.T) {
	svc, blobs := newTestIngestService(t)

	report, err := svc.IngestBatch(context.Background(), []driving.BatchItem{
		{Name: "uct.txt", Content: []byte(uctText)},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Files)
	assert.Contains(t, blobs.files, "uct.txt")
	assert.Equal(t, 1, svc.store.Size(context.Background()))
}

func TestIngestService_IngestLibrary(t *testing.T) {
	svc, blobs := newTestIngestService(t)
	blobs.put("uct.txt", "text/plain", uctText)
	blobs.put("wits.txt", "text/plain", longProspectus())

	report, err := svc.IngestLibrary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Files)
	assert.Empty(t, report.Failed)
	assert.Equal(t, report.Documents, svc.store.Size(context.Background()))
}

func TestIngestService_IngestBatch_Paced(t *testing.T) {
	blobs := newMockBlobStore()
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		blobs.put(name, "text/plain", uctText)
	}
	settings := domain.IngestSettings{BatchSize: 1, BatchPause: 30 * time.Millisecond}
	svc := NewIngestService(newTestStore(t), newTestPipeline(t), blobs, blobs, &mockNormalisers{}, settings)

	start := time.Now()
	report, err := svc.IngestBatch(context.Background(), []driving.BatchItem{{Name: "a.txt"}, {Name: "b.txt"}, {Name: "c.txt"}})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Files)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestIngestService_IngestBatch_Cancelled(t *testing.T) {
	svc, blobs := newTestIngestService(t)
	blobs.put("uct.txt", "text/plain", uctText)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.IngestBatch(ctx, []driving.BatchItem{{Name: "uct.txt"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIngestService_Follow(t *testing.T) {
	svc, blobs := newTestIngestService(t)
	blobs.put("uct.txt", "text/plain", uctText)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Follow(ctx) }()

	blobs.changes <- domain.BlobChange{Type: domain.ChangeCreated, Name: "uct.txt"}
	require.Eventually(t, func() bool {
		return svc.store.Size(context.Background()) == 1
	}, time.Second, 5*time.Millisecond)

	blobs.changes <- domain.BlobChange{Type: domain.ChangeDeleted, Name: "uct.txt"}
	require.Eventually(t, func() bool {
		return svc.store.Size(context.Background()) == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Follow did not return after cancel")
	}
}

func TestIngestService_Follow_WatchError(t *testing.T) {
	svc, blobs := newTestIngestService(t)
	blobs.watchErr = errors.New("too many open files")

	err := svc.Follow(context.Background())
	assert.ErrorContains(t, err, "too many open files")
}
