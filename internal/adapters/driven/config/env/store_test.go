package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/unisearch/internal/adapters/driven/config/file"
)

func newBase(t *testing.T) *file.ConfigStore {
	t.Helper()
	base, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return base
}

func TestParse_ReadsEnvironment(t *testing.T) {
	t.Setenv("UNISEARCH_LLM_PROVIDER", "ollama")
	t.Setenv("UNISEARCH_TOP_K", "3")
	t.Setenv("UNISEARCH_ANSWER_TIMEOUT", "20s")
	t.Setenv("UNISEARCH_ANSWER_TEMPERATURE", "0")

	o, err := Parse(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "ollama", o.LLMProvider)
	assert.Equal(t, 3, o.TopK)
	assert.Equal(t, "20s", o.AnswerTimeout.String())
	require.NotNil(t, o.AnswerTemperature)
	assert.Zero(t, *o.AnswerTemperature)
}

func TestParse_LoadsDotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("UNISEARCH_LLM_MODEL=llama3.2\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("UNISEARCH_LLM_MODEL") })

	o, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, "llama3.2", o.LLMModel)
}

func TestParse_InvalidValue(t *testing.T) {
	t.Setenv("UNISEARCH_TOP_K", "many")

	_, err := Parse(filepath.Join(t.TempDir(), "missing.env"))

	assert.Error(t, err)
}

func TestConfigStore_OverridesWin(t *testing.T) {
	base := newBase(t)
	require.NoError(t, base.Set("llm.model", "gpt-4o-mini"))
	require.NoError(t, base.Set("retrieval.top_k", 5))
	require.NoError(t, base.Set("storage.backend", "json"))

	store := NewConfigStore(base, Overrides{LLMModel: "gpt-4o", TopK: 2})

	assert.Equal(t, "gpt-4o", store.GetString("llm.model"))
	assert.Equal(t, 2, store.GetInt("retrieval.top_k"))
	assert.Equal(t, "json", store.GetString("storage.backend"))
}

func TestConfigStore_ProviderAPIKey(t *testing.T) {
	base := newBase(t)
	require.NoError(t, base.Set("llm.provider", "anthropic"))

	store := NewConfigStore(base, Overrides{OpenAIAPIKey: "sk-openai", AnthropicAPIKey: "sk-ant"})
	assert.Equal(t, "sk-ant", store.GetString("llm.api_key"))

	explicit := NewConfigStore(base, Overrides{LLMAPIKey: "sk-explicit", AnthropicAPIKey: "sk-ant"})
	assert.Equal(t, "sk-explicit", explicit.GetString("llm.api_key"))
}

func TestConfigStore_OllamaURL(t *testing.T) {
	base := newBase(t)
	require.NoError(t, base.Set("llm.provider", "ollama"))
	require.NoError(t, base.Set("llm.base_url", "http://localhost:11434"))

	store := NewConfigStore(base, Overrides{OllamaURL: "http://gpu-box:11434"})

	assert.Equal(t, "http://gpu-box:11434", store.GetString("llm.base_url"))
}

func TestConfigStore_SetWritesThrough(t *testing.T) {
	base := newBase(t)
	store := NewConfigStore(base, Overrides{})

	require.NoError(t, store.Set("llm.provider", "openai"))

	assert.Equal(t, "openai", base.GetString("llm.provider"))
	assert.Equal(t, base.Path(), store.Path())
}
