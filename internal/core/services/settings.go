package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/unisearch/internal/core/domain"
	"github.com/custodia-labs/unisearch/internal/core/ports/driven"
	"github.com/custodia-labs/unisearch/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider = "llm.provider"
	keyLLMModel    = "llm.model"
	keyLLMBaseURL  = "llm.base_url"
	keyLLMAPIKey   = "llm.api_key"

	keyChunkSize            = "pipeline.chunk_size"
	keyChunkOverlap         = "pipeline.chunk_overlap"
	keyBreakThreshold       = "pipeline.break_threshold"
	keyMinChunkLength       = "pipeline.min_chunk_length"
	keyMinSubstantialLength = "pipeline.min_substantial_length"
	keySectionLength        = "pipeline.section_length"

	keyTopK              = "retrieval.top_k"
	keyContextBudget     = "retrieval.context_budget"
	keyNameBonus         = "retrieval.name_bonus"
	keyTopicBonus        = "retrieval.topic_bonus"
	keyGeneralInfoLength = "retrieval.general_info_length"
	keyExcerptLength     = "retrieval.excerpt_length"

	keyAnswerTimeout     = "answer.timeout"
	keyAnswerMaxTokens   = "answer.max_tokens"
	keyAnswerTemperature = "answer.temperature"

	keyStorageBackend = "storage.backend"
	keyStorageDataDir = "storage.data_dir"
	keyStorageBlobDir = "storage.blob_dir"

	keyBatchSize  = "ingest.batch_size"
	keyBatchPause = "ingest.batch_pause"
)

// defaultOllamaBaseURL is used for local providers without an explicit endpoint.
const defaultOllamaBaseURL = "http://localhost:11434"

// llmValidationTimeout bounds ValidateLLMConfig.
const llmValidationTimeout = 5 * time.Second

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: s.getProvider(d.LLM.Provider),
			Model:    s.getString(keyLLMModel, d.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Pipeline: domain.PipelineSettings{
			ChunkSize:            s.getInt(keyChunkSize, d.Pipeline.ChunkSize),
			ChunkOverlap:         s.getInt(keyChunkOverlap, d.Pipeline.ChunkOverlap),
			BreakThreshold:       s.getFloat(keyBreakThreshold, d.Pipeline.BreakThreshold),
			MinChunkLength:       s.getInt(keyMinChunkLength, d.Pipeline.MinChunkLength),
			MinSubstantialLength: s.getInt(keyMinSubstantialLength, d.Pipeline.MinSubstantialLength),
			SectionLength:        s.getInt(keySectionLength, d.Pipeline.SectionLength),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:              s.getInt(keyTopK, d.Retrieval.TopK),
			ContextBudget:     s.getInt(keyContextBudget, d.Retrieval.ContextBudget),
			NameBonus:         s.getInt(keyNameBonus, d.Retrieval.NameBonus),
			TopicBonus:        s.getInt(keyTopicBonus, d.Retrieval.TopicBonus),
			GeneralInfoLength: s.getInt(keyGeneralInfoLength, d.Retrieval.GeneralInfoLength),
			ExcerptLength:     s.getInt(keyExcerptLength, d.Retrieval.ExcerptLength),
		},
		Answer: domain.AnswerSettings{
			Timeout:     s.getDuration(keyAnswerTimeout, d.Answer.Timeout),
			MaxTokens:   s.getInt(keyAnswerMaxTokens, d.Answer.MaxTokens),
			Temperature: s.getFloat(keyAnswerTemperature, d.Answer.Temperature),
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(d.Storage.Backend),
			DataDir: s.configStore.GetString(keyStorageDataDir),
			BlobDir: s.configStore.GetString(keyStorageBlobDir),
		},
		Ingest: domain.IngestSettings{
			BatchSize:  s.getInt(keyBatchSize, d.Ingest.BatchSize),
			BatchPause: s.getDuration(keyBatchPause, d.Ingest.BatchPause),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},

		{keyChunkSize, settings.Pipeline.ChunkSize},
		{keyChunkOverlap, settings.Pipeline.ChunkOverlap},
		{keyBreakThreshold, settings.Pipeline.BreakThreshold},
		{keyMinChunkLength, settings.Pipeline.MinChunkLength},
		{keyMinSubstantialLength, settings.Pipeline.MinSubstantialLength},
		{keySectionLength, settings.Pipeline.SectionLength},

		{keyTopK, settings.Retrieval.TopK},
		{keyContextBudget, settings.Retrieval.ContextBudget},
		{keyNameBonus, settings.Retrieval.NameBonus},
		{keyTopicBonus, settings.Retrieval.TopicBonus},
		{keyGeneralInfoLength, settings.Retrieval.GeneralInfoLength},
		{keyExcerptLength, settings.Retrieval.ExcerptLength},

		{keyAnswerTimeout, settings.Answer.Timeout.String()},
		{keyAnswerMaxTokens, settings.Answer.MaxTokens},
		{keyAnswerTemperature, settings.Answer.Temperature},

		{keyStorageBackend, settings.Storage.Backend.String()},
		{keyStorageDataDir, settings.Storage.DataDir},
		{keyStorageBlobDir, settings.Storage.BlobDir},

		{keyBatchSize, settings.Ingest.BatchSize},
		{keyBatchPause, settings.Ingest.BatchPause.String()},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = defaultOllamaBaseURL
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetStorageBackend selects the snapshot backend. Takes effect on next start.
func (s *SettingsService) SetStorageBackend(backend domain.StorageBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("invalid storage backend: %s", backend)
	}
	return s.configStore.Set(keyStorageBackend, backend.String())
}

// Validate checks that the current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	p := settings.Pipeline
	if p.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive", domain.ErrInvalidInput)
	}
	if p.ChunkOverlap < 0 {
		return fmt.Errorf("%w: chunk overlap must not be negative", domain.ErrInvalidInput)
	}
	if p.BreakThreshold < 0 || p.BreakThreshold > 1 {
		return fmt.Errorf("%w: break threshold must be between 0 and 1", domain.ErrInvalidInput)
	}

	r := settings.Retrieval
	if r.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive", domain.ErrInvalidInput)
	}
	if r.ContextBudget <= 0 {
		return fmt.Errorf("%w: context budget must be positive", domain.ErrInvalidInput)
	}

	if settings.Answer.Timeout <= 0 {
		return fmt.Errorf("%w: answer timeout must be positive", domain.ErrInvalidInput)
	}

	if !settings.Storage.Backend.IsValid() {
		return fmt.Errorf("invalid storage backend: %s", settings.Storage.Backend)
	}

	// An unset provider is valid: questions then resolve to not_configured.
	if settings.LLM.Provider != "" && !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %s is not fully configured", settings.LLM.Provider)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- s.aiValidator.ValidateLLM(&settings.LLM)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), llmValidationTimeout)
	defer cancel()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("%w: %s did not respond within %s",
			domain.ErrLLMUnavailable, settings.LLM.Provider, llmValidationTimeout)
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return defaultVal
	}
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(keyLLMProvider)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(keyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
