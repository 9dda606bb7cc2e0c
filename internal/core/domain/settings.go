package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies a completion model provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API or any compatible endpoint.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// LLMSettings holds completion model provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint. Empty uses the provider default.
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// PipelineSettings controls how ingested text is normalised and chunked.
type PipelineSettings struct {
	// ChunkSize is the target chunk length in characters.
	ChunkSize int

	// ChunkOverlap is the number of characters repeated between chunks.
	ChunkOverlap int

	// BreakThreshold is the fraction of ChunkSize a sentence break must lie beyond.
	BreakThreshold float64

	// MinChunkLength drops trimmed chunks not longer than this.
	MinChunkLength int

	// MinSubstantialLength excludes shorter chunks from persistence.
	MinSubstantialLength int

	// SectionLength caps each derived section excerpt.
	SectionLength int
}

// RetrievalSettings controls scoring and context assembly.
type RetrievalSettings struct {
	// TopK is the default number of scored documents kept.
	TopK int

	// ContextBudget caps the assembled context in characters.
	ContextBudget int

	// NameBonus and TopicBonus are the scorer's flat bonuses.
	NameBonus  int
	TopicBonus int

	// GeneralInfoLength is how much content each GENERAL INFO block shows.
	GeneralInfoLength int

	// ExcerptLength caps citation excerpts.
	ExcerptLength int
}

// Weights returns the scoring weights.
func (r RetrievalSettings) Weights() ScoringWeights {
	return ScoringWeights{NameBonus: r.NameBonus, TopicBonus: r.TopicBonus}
}

// AnswerSettings controls the completion call.
type AnswerSettings struct {
	// Timeout bounds the completion model call. Scoring and context assembly are local and not included.
	Timeout time.Duration

	// MaxTokens bounds the completion length.
	MaxTokens int

	// Temperature controls randomness.
	Temperature float64
}

// StorageBackend selects how store snapshots are persisted.
type StorageBackend string

// Available storage backends.
const (
	// StorageBackendJSON writes the snapshot as a single JSON file.
	StorageBackendJSON StorageBackend = "json"

	// StorageBackendSQLite writes the snapshot into a SQLite database.
	StorageBackendSQLite StorageBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	return b == StorageBackendJSON || b == StorageBackendSQLite
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// StorageSettings controls snapshot persistence.
type StorageSettings struct {
	// Backend is the snapshot backend.
	Backend StorageBackend

	// DataDir holds snapshot files. Empty uses ~/.unisearch/data.
	DataDir string

	// BlobDir is where prospectus files are fetched from. Empty uses ~/.unisearch/files.
	BlobDir string
}

// IngestSettings controls batch ingestion pacing.
type IngestSettings struct {
	// BatchSize is how many files are processed per burst.
	BatchSize int

	// BatchPause is the pause between bursts.
	BatchPause time.Duration
}

// AppSettings holds all application settings.
type AppSettings struct {
	LLM       LLMSettings
	Pipeline  PipelineSettings
	Retrieval RetrievalSettings
	Answer    AnswerSettings
	Storage   StorageSettings
	Ingest    IngestSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The LLM is left unconfigured by default.
func DefaultAppSettings() AppSettings {
	weights := DefaultScoringWeights()
	return AppSettings{
		LLM: LLMSettings{},
		Pipeline: PipelineSettings{
			ChunkSize:            2000,
			ChunkOverlap:         200,
			BreakThreshold:       0.5,
			MinChunkLength:       50,
			MinSubstantialLength: 100,
			SectionLength:        1000,
		},
		Retrieval: RetrievalSettings{
			TopK:              5,
			ContextBudget:     8000,
			NameBonus:         weights.NameBonus,
			TopicBonus:        weights.TopicBonus,
			GeneralInfoLength: 500,
			ExcerptLength:     200,
		},
		Answer: AnswerSettings{
			Timeout:     15 * time.Second,
			MaxTokens:   1000,
			Temperature: 0.3,
		},
		Storage: StorageSettings{
			Backend: StorageBackendJSON,
		},
		Ingest: IngestSettings{
			BatchSize:  5,
			BatchPause: time.Second,
		},
	}
}

// AllLLMProviders returns providers that support completions.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config for extensibility - new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// PipelineConfigFor returns the ingestion pipeline configuration for the given settings.
// Order matters: text is normalised before chunking, and sections are derived
// once the final chunks are known.
func PipelineConfigFor(p PipelineSettings) PipelineConfig {
	return PipelineConfig{
		Processors: []string{"normalise", "chunker", "minlength", "sections"},
		ProcessorConfigs: map[string]map[string]any{
			"sections": {
				"section_length": p.SectionLength,
			},
			"chunker": {
				"chunk_size":       p.ChunkSize,
				"overlap":          p.ChunkOverlap,
				"break_threshold":  p.BreakThreshold,
				"min_chunk_length": p.MinChunkLength,
			},
			"minlength": {
				"min_length": p.MinSubstantialLength,
			},
		},
	}
}

// DefaultPipelineConfig returns the default pipeline configuration.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfigFor(DefaultAppSettings().Pipeline)
}
