package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/unisearch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/unisearch/internal/core/domain"
	"github.com/custodia-labs/unisearch/internal/core/ports/driven"
	"github.com/custodia-labs/unisearch/internal/postprocessors"
)

// --- Mock implementations ---

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	mu       sync.Mutex
	answer   string
	err      error
	block    bool
	calls    int
	system   string
	user     string
	lastOpts driven.CompletionOptions
	deadline time.Time
}

func (m *mockLLM) Complete(ctx context.Context, system, user string, opts driven.CompletionOptions) (string, error) {
	m.mu.Lock()
	m.calls++
	m.system, m.user, m.lastOpts = system, user, opts
	m.deadline, _ = ctx.Deadline()
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.answer, m.err
}

func (m *mockLLM) ModelName() string            { return "mock-model" }
func (m *mockLLM) Ping(_ context.Context) error { return m.err }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) lastUser() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// mockPrompts implements driven.PromptStore for testing.
type mockPrompts struct {
	prompts map[string]string
}

func (m *mockPrompts) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", errors.New("prompt not found")
	}
	return p, nil
}

func (m *mockPrompts) Reload() {}

// mockBlobStore implements driven.BlobStore and driven.BlobWatcher for testing.
type mockBlobStore struct {
	files    map[string]*domain.RawDocument
	changes  chan domain.BlobChange
	watchErr error
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{
		files:   make(map[string]*domain.RawDocument),
		changes: make(chan domain.BlobChange, 8),
	}
}

func (m *mockBlobStore) put(name, mimeType, content string) {
	m.files[name] = &domain.RawDocument{Name: name, MIMEType: mimeType, Content: []byte(content)}
}

func (m *mockBlobStore) Fetch(_ context.Context, name string) (*domain.RawDocument, error) {
	raw, ok := m.files[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return raw, nil
}

func (m *mockBlobStore) List(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	return names, nil
}

func (m *mockBlobStore) Put(_ context.Context, name string, content []byte) error {
	m.put(name, "text/plain", string(content))
	return nil
}

func (m *mockBlobStore) Watch(_ context.Context) (<-chan domain.BlobChange, error) {
	if m.watchErr != nil {
		return nil, m.watchErr
	}
	return m.changes, nil
}

// mockNormalisers implements driven.NormaliserRegistry by returning content as text.
type mockNormalisers struct {
	fail map[string]error
}

func (m *mockNormalisers) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if err := m.fail[raw.Name]; err != nil {
		return nil, err
	}
	return &driven.NormaliseResult{Text: string(raw.Content)}, nil
}

func (m *mockNormalisers) Register(_ driven.Normaliser) {}

func (m *mockNormalisers) SupportedMIMETypes() []string { return []string{"text/plain"} }

// mockAIValidator implements driven.AIConfigValidator for testing.
type mockAIValidator struct {
	err    error
	called bool
}

func (m *mockAIValidator) ValidateLLM(_ *domain.LLMSettings) error {
	m.called = true
	return m.err
}

// --- Helpers ---

func newTestStore(t *testing.T, docs ...domain.Document) *memory.DocumentStore {
	t.Helper()
	store := memory.NewDocumentStore(nil)
	for _, doc := range docs {
		if doc.SourceName == "" {
			doc.SourceName = doc.ID
		}
		require.NoError(t, store.Add(context.Background(), doc))
	}
	return store
}

func newTestPipeline(t *testing.T) driven.PostProcessorPipeline {
	t.Helper()
	r := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(r)
	p, err := postprocessors.BuildPipeline(r, domain.DefaultPipelineConfig())
	require.NoError(t, err)
	return p
}

func testSettings() domain.AppSettings {
	return domain.DefaultAppSettings()
}
