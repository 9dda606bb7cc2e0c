package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/unisearch/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testSnapshot(updated time.Time) *domain.Snapshot {
	snap := domain.NewSnapshot([]domain.Document{
		{
			ID: "uct.pdf#chunk-1", SourceName: "uct.pdf", DisplayName: "University of Cape Town",
			Content: "Annual tuition is R65000", WordCount: 4, LastUpdated: updated,
			Sections: domain.Sections{Fees: "Annual tuition is R65000"},
		},
		{
			ID: "uct.pdf#chunk-2", SourceName: "uct.pdf", DisplayName: "University of Cape Town",
			Content: "Residence is guaranteed", WordCount: 3, LastUpdated: updated,
			Sections: domain.Sections{Accommodation: "Residence is guaranteed"},
		},
		{ID: "a.pdf", SourceName: "a.pdf", Content: "First added", WordCount: 2, LastUpdated: updated},
	})
	snap.SavedAt = updated
	return snap
}

func TestNewStore(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, FileName), store.Path())
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	var count int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestStore_Load_Empty(t *testing.T) {
	store := setupTestStore(t)

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestStore_SaveLoad(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	updated := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, testSnapshot(updated)))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, domain.SnapshotVersion, loaded.Version)
	assert.True(t, loaded.SavedAt.Equal(updated))
	assert.Equal(t, []string{"uct.pdf#chunk-1", "uct.pdf#chunk-2", "a.pdf"}, loaded.Order)

	doc := loaded.Documents["uct.pdf#chunk-1"]
	assert.Equal(t, "University of Cape Town", doc.DisplayName)
	assert.Equal(t, "Annual tuition is R65000", doc.Sections.Fees)
	assert.Equal(t, 4, doc.WordCount)
	assert.True(t, doc.LastUpdated.Equal(updated))
}

func TestStore_Save_ReplacesPreviousSnapshot(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot(time.Now())))
	require.NoError(t, store.Save(ctx, domain.NewSnapshot([]domain.Document{
		{ID: "b.pdf", SourceName: "b.pdf", Content: "only one", LastUpdated: time.Now()},
	})))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Documents, 1)
	assert.Contains(t, loaded.Documents, "b.pdf")
}

func TestStore_Save_EmptySnapshot(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot(time.Now())))
	require.NoError(t, store.Save(ctx, domain.NewSnapshot(nil)))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded, "an empty snapshot is still a snapshot")
	assert.Empty(t, loaded.Documents)
}

func TestStore_Save_Nil(t *testing.T) {
	store := setupTestStore(t)
	assert.ErrorIs(t, store.Save(context.Background(), nil), domain.ErrInvalidInput)
}

func TestStore_Load_FutureVersion(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	_, err := store.db.Exec(`INSERT INTO snapshot_meta (id, version, saved_at) VALUES (1, 99, ?)`, time.Now())
	require.NoError(t, err)

	_, err = store.Load(ctx)
	assert.Error(t, err)
}

func TestStore_Save_CancelledContext(t *testing.T) {
	store := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, store.Save(ctx, testSnapshot(time.Now())))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, loaded, "a failed save leaves nothing behind")
}

func TestStore_UseAfterClose(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.Close())

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreClosed)

	err = store.Save(context.Background(), testSnapshot(time.Now()))
	assert.ErrorIs(t, err, domain.ErrStoreClosed)

	assert.NoError(t, store.Close())
}
