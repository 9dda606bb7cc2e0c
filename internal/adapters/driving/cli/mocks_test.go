package cli

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/custodia-labs/unisearch/internal/core/domain"
	"github.com/custodia-labs/unisearch/internal/core/ports/driving"
)

// mockAnswerService implements driving.AnswerService for testing.
type mockAnswerService struct {
	result    domain.AnswerResult
	scored    []domain.ScoredDocument
	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockAnswerService) SearchWithAI(_ context.Context, query string, opts domain.SearchOptions) domain.AnswerResult {
	m.lastQuery, m.lastOpts = query, opts
	return m.result
}

func (m *mockAnswerService) Search(_ context.Context, query string, opts domain.SearchOptions) []domain.ScoredDocument {
	m.lastQuery, m.lastOpts = query, opts
	return m.scored
}

// mockIngestService implements driving.IngestService for testing.
type mockIngestService struct {
	items      []driving.BatchItem
	report     *driving.BatchReport
	addedName  string
	addedText  string
	addedOpts  domain.IngestOptions
	followed   bool
	libraryRun bool
}

func (m *mockIngestService) AddDocument(
	_ context.Context, sourceName, rawText string, opts domain.IngestOptions,
) ([]domain.Document, error) {
	m.addedName, m.addedText, m.addedOpts = sourceName, rawText, opts
	name := opts.DisplayName
	if name == "" {
		name = sourceName
	}
	return []domain.Document{{ID: sourceName, SourceName: sourceName, DisplayName: name}}, nil
}

func (m *mockIngestService) IngestFile(
	_ context.Context, name string, _ domain.IngestOptions,
) ([]domain.Document, error) {
	return []domain.Document{{ID: name}}, nil
}

func (m *mockIngestService) IngestBatch(_ context.Context, items []driving.BatchItem) (*driving.BatchReport, error) {
	m.items = items
	if m.report != nil {
		return m.report, nil
	}
	return &driving.BatchReport{Files: len(items), Documents: len(items), Failed: map[string]string{}}, nil
}

func (m *mockIngestService) IngestLibrary(_ context.Context) (*driving.BatchReport, error) {
	m.libraryRun = true
	return &driving.BatchReport{Files: 2, Documents: 3, Failed: map[string]string{}}, nil
}

func (m *mockIngestService) Follow(_ context.Context) error {
	m.followed = true
	return nil
}

// mockDocumentService implements driving.DocumentService for testing.
type mockDocumentService struct {
	docs    []domain.Document
	removed []string
}

func (m *mockDocumentService) List(_ context.Context) domain.Inventory {
	inv := domain.Inventory{TotalDocuments: len(m.docs), Documents: []domain.DocumentSummary{}}
	for _, d := range m.docs {
		inv.Documents = append(inv.Documents, d.Summary())
	}
	return inv
}

func (m *mockDocumentService) Get(_ context.Context, id string) (domain.Document, error) {
	for _, d := range m.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Document{}, domain.ErrNotFound
}

func (m *mockDocumentService) Remove(_ context.Context, sourceName string) bool {
	for _, d := range m.docs {
		if d.SourceName == sourceName {
			m.removed = append(m.removed, sourceName)
			return true
		}
	}
	return false
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	llmErr      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}
	m.settings.LLM = domain.LLMSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) SetStorageBackend(backend domain.StorageBackend) error {
	if !backend.IsValid() {
		return domain.ErrInvalidInput
	}
	m.settings.Storage.Backend = backend
	return nil
}

func (m *mockSettingsService) Validate() error                 { return m.validateErr }
func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
func (m *mockSettingsService) ValidateLLMConfig() error        { return m.llmErr }

type testServices struct {
	answer   *mockAnswerService
	ingest   *mockIngestService
	document *mockDocumentService
	settings *mockSettingsService
}

// setupTestServices installs mock services and returns a cleanup function.
func setupTestServices() (*testServices, func()) {
	origAnswer, origIngest, origDocument, origSettings := answerService, ingestService, documentService, settingsService

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	ts := &testServices{
		answer: &mockAnswerService{},
		ingest: &mockIngestService{},
		document: &mockDocumentService{docs: []domain.Document{
			{
				ID:          "uct.pdf",
				SourceName:  "uct.pdf",
				DisplayName: "University of Cape Town",
				Content:     "Annual tuition is R65000.",
				Sections:    domain.Sections{Fees: "Annual tuition is R65000."},
				WordCount:   4,
				LastUpdated: now,
			},
		}},
		settings: &mockSettingsService{settings: domain.DefaultAppSettings()},
	}

	SetAnswerService(ts.answer)
	SetIngestService(ts.ingest)
	SetDocumentService(ts.document)
	SetSettingsService(ts.settings)

	return ts, func() {
		answerService, ingestService, documentService, settingsService = origAnswer, origIngest, origDocument, origSettings
	}
}

// execute runs the root command with args and returns its combined output.
func execute(args []string, stdin string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags()
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores flag variables shared between executions.
func resetFlags() {
	addName, addManifest, addText = "", "", ""
	askTopK, askJSON = 0, false
	searchTopK, searchJSON = 0, false
	documentListJSON = false
	verbose = false
	mcpPort = 0
}
