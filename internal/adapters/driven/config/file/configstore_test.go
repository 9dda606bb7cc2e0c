package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, ConfigFileName), store.Path())
}

func TestNewConfigStore_CreatesNestedDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "a", "b")

	_, err := NewConfigStore(nested)
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_CorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("not toml {{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "ollama"))
	require.NoError(t, store.Set("retrieval.top_k", 3))
	require.NoError(t, store.Set("debug", true))
	require.NoError(t, store.Set("tags", []string{"a", "b"}))

	assert.Equal(t, "ollama", store.GetString("llm.provider"))
	assert.Equal(t, 3, store.GetInt("retrieval.top_k"))
	assert.True(t, store.GetBool("debug"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("tags"))

	// Wrong types and missing keys read as zero values.
	assert.Empty(t, store.GetString("retrieval.top_k"))
	assert.Zero(t, store.GetInt("llm.provider"))
	assert.False(t, store.GetBool("missing"))
	assert.Nil(t, store.GetStringSlice("missing"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_SaveReload_PreservesData(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.model", "llama3.2"))
	require.NoError(t, store.Set("retrieval.context_budget", int64(6000)))
	require.NoError(t, store.Set("answer.temperature", 0.2))
	require.NoError(t, store.Set("answer.timeout", "20s"))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "llama3.2", reopened.GetString("llm.model"))
	assert.Equal(t, 6000, reopened.GetInt("retrieval.context_budget"))
	assert.Equal(t, "20s", reopened.GetString("answer.timeout"))
	temp, ok := reopened.Get("answer.temperature")
	require.True(t, ok)
	assert.InDelta(t, 0.2, temp, 0.00001)
}

func TestConfigStore_Load_FlattensTables(t *testing.T) {
	tmpDir := t.TempDir()
	content := []byte(`
[llm]
provider = "anthropic"
model = "claude-3-5-sonnet-latest"

[retrieval]
top_k = 3
`)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ConfigFileName), content, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", store.GetString("llm.provider"))
	assert.Equal(t, "claude-3-5-sonnet-latest", store.GetString("llm.model"))
	assert.Equal(t, 3, store.GetInt("retrieval.top_k"))
}

func TestConfigStore_Load_CommentOnlyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("# nothing\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, ok := store.Get("llm.provider")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.api_key", "sk-test"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Set_WriteError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("a", "b"))

	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("c", "d"))
}

func TestConfigStore_Set_UnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set("channel", make(chan int)))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("retrieval.top_k", n+1)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("retrieval.top_k")
		}()
	}
	wg.Wait()

	assert.Positive(t, store.GetInt("retrieval.top_k"))
}
