// Package env overlays environment variables on a driven.ConfigStore.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/custodia-labs/unisearch/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// Overrides are the environment variables that take precedence over the config file.
// Unset variables leave the file value in place.
type Overrides struct {
	LLMProvider string `env:"UNISEARCH_LLM_PROVIDER"`
	LLMModel    string `env:"UNISEARCH_LLM_MODEL"`
	LLMBaseURL  string `env:"UNISEARCH_LLM_BASE_URL"`
	LLMAPIKey   string `env:"UNISEARCH_LLM_API_KEY"`

	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	OllamaURL       string `env:"OLLAMA_URL"`

	ChunkSize    int `env:"UNISEARCH_CHUNK_SIZE"`
	ChunkOverlap int `env:"UNISEARCH_CHUNK_OVERLAP"`

	TopK          int `env:"UNISEARCH_TOP_K"`
	ContextBudget int `env:"UNISEARCH_CONTEXT_BUDGET"`

	AnswerTimeout     time.Duration `env:"UNISEARCH_ANSWER_TIMEOUT"`
	AnswerMaxTokens   int           `env:"UNISEARCH_ANSWER_MAX_TOKENS"`
	AnswerTemperature *float64      `env:"UNISEARCH_ANSWER_TEMPERATURE"`

	StorageBackend string `env:"UNISEARCH_STORAGE_BACKEND"`
	DataDir        string `env:"UNISEARCH_DATA_DIR"`
	BlobDir        string `env:"UNISEARCH_BLOB_DIR"`
}

// Parse loads the optional dotenv files, then reads the overrides from the environment.
// Missing dotenv files are ignored. With no paths, ./.env is tried.
func Parse(dotenvPaths ...string) (Overrides, error) {
	if err := godotenv.Load(dotenvPaths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Overrides{}, fmt.Errorf("load dotenv: %w", err)
	}

	var o Overrides
	if err := env.Parse(&o); err != nil {
		return Overrides{}, fmt.Errorf("parse environment: %w", err)
	}
	return o, nil
}

// values maps the set overrides to config keys.
func (o Overrides) values() map[string]any {
	m := make(map[string]any)
	setString := func(key, v string) {
		if v != "" {
			m[key] = v
		}
	}
	setInt := func(key string, v int) {
		if v != 0 {
			m[key] = v
		}
	}

	setString("llm.provider", o.LLMProvider)
	setString("llm.model", o.LLMModel)
	setString("llm.base_url", o.LLMBaseURL)
	setString("llm.api_key", o.LLMAPIKey)

	setInt("pipeline.chunk_size", o.ChunkSize)
	setInt("pipeline.chunk_overlap", o.ChunkOverlap)
	setInt("retrieval.top_k", o.TopK)
	setInt("retrieval.context_budget", o.ContextBudget)
	setInt("answer.max_tokens", o.AnswerMaxTokens)
	if o.AnswerTimeout > 0 {
		m["answer.timeout"] = o.AnswerTimeout.String()
	}
	if o.AnswerTemperature != nil {
		m["answer.temperature"] = *o.AnswerTemperature
	}

	setString("storage.backend", o.StorageBackend)
	setString("storage.data_dir", o.DataDir)
	setString("storage.blob_dir", o.BlobDir)
	return m
}

// ConfigStore reads overrides first and falls through to the wrapped store.
// Writes go to the wrapped store; an override keeps shadowing the written value.
type ConfigStore struct {
	base      driven.ConfigStore
	overrides Overrides
	values    map[string]any
}

// NewConfigStore wraps base with the given overrides.
func NewConfigStore(base driven.ConfigStore, overrides Overrides) *ConfigStore {
	return &ConfigStore{
		base:      base,
		overrides: overrides,
		values:    overrides.values(),
	}
}

// Get returns the override for key if set, otherwise the wrapped value.
func (s *ConfigStore) Get(key string) (any, bool) {
	if v, ok := s.values[key]; ok {
		return v, true
	}
	if v, ok := s.providerDefault(key); ok {
		return v, true
	}
	return s.base.Get(key)
}

// providerDefault fills the API key and local endpoint from provider-specific variables.
func (s *ConfigStore) providerDefault(key string) (string, bool) {
	provider, _ := s.Get("llm.provider")
	switch key {
	case "llm.api_key":
		switch provider {
		case "openai":
			return s.overrides.OpenAIAPIKey, s.overrides.OpenAIAPIKey != ""
		case "anthropic":
			return s.overrides.AnthropicAPIKey, s.overrides.AnthropicAPIKey != ""
		}
	case "llm.base_url":
		if provider == "ollama" {
			return s.overrides.OllamaURL, s.overrides.OllamaURL != ""
		}
	}
	return "", false
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

// GetInt retrieves an integer configuration value.
func (s *ConfigStore) GetInt(key string) int {
	v, _ := s.Get(key)
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	default:
		return 0
	}
}

// GetBool retrieves a boolean configuration value.
func (s *ConfigStore) GetBool(key string) bool {
	v, _ := s.Get(key)
	b, _ := v.(bool)
	return b
}

// GetStringSlice retrieves a string slice configuration value.
func (s *ConfigStore) GetStringSlice(key string) []string {
	return s.base.GetStringSlice(key)
}

// Set stores a value in the wrapped store.
func (s *ConfigStore) Set(key string, value any) error {
	return s.base.Set(key, value)
}

// Save persists the wrapped store.
func (s *ConfigStore) Save() error {
	return s.base.Save()
}

// Load reloads the wrapped store. Overrides are fixed at construction.
func (s *ConfigStore) Load() error {
	return s.base.Load()
}

// Path returns the wrapped store's path.
func (s *ConfigStore) Path() string {
	return s.base.Path()
}
