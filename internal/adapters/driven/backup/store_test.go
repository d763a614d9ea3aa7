package backup

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/parasol/internal/core/domain"
)

func writeCorpus(t *testing.T, root string) {
	t.Helper()
	files := map[string]string{
		"services/consulting/service.md":                                             "# コンサル\n",
		"services/consulting/capabilities/delivery/operations/deliver/pages/a.md":    "# A画面\n",
		"services/consulting/capabilities/delivery/operations/deliver/usecases/a.md": "# ユースケース：A\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func newFixture(t *testing.T) (root string, store *Store) {
	t.Helper()
	base := t.TempDir()
	root = filepath.Join(base, "parasol")
	writeCorpus(t, root)
	return root, NewStore(filepath.Join(base, ".parasol-backups"))
}

func TestStore_Create(t *testing.T) {
	root, store := newFixture(t)

	snap, err := store.Create(context.Background(), root, "before migration")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^parasol-backup-\d{8}T\d{6}Z-[0-9a-f]{8}$`), snap.ID)
	assert.Equal(t, root, snap.OriginalPath)
	assert.Equal(t, "1.0.0", snap.MigrationVersion)
	assert.Equal(t, "before migration", snap.Description)
	assert.Equal(t, 3, snap.FileCount)

	copied, err := os.ReadFile(filepath.Join(snap.Location, "tree", "services", "consulting", "service.md"))
	require.NoError(t, err)
	assert.Equal(t, "# コンサル\n", string(copied))

	data, err := os.ReadFile(filepath.Join(snap.Location, "manifest.json"))
	require.NoError(t, err)
	var manifest map[string]any
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.Equal(t, root, manifest["originalPath"])
	assert.Equal(t, "1.0.0", manifest["migrationVersion"])
	assert.Equal(t, "before migration", manifest["description"])
	_, err = time.Parse(time.RFC3339, manifest["timestamp"].(string))
	assert.NoError(t, err)
}

func TestStore_CreateRejectsBackupInsideRoot(t *testing.T) {
	root, _ := newFixture(t)
	store := NewStore(filepath.Join(root, "backups"))

	_, err := store.Create(context.Background(), root, "")
	assert.ErrorIs(t, err, domain.ErrBackupFailure)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NoDirExists(t, filepath.Join(root, "backups"))
}

func TestStore_CreateMissingRoot(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Create(context.Background(), filepath.Join(t.TempDir(), "missing"), "")
	assert.ErrorIs(t, err, domain.ErrBackupFailure)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_CreateCancelledLeavesNothing(t *testing.T) {
	root, store := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Create(ctx, root, "")
	assert.ErrorIs(t, err, domain.ErrBackupFailure)

	list, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_Restore(t *testing.T) {
	ctx := context.Background()
	root, store := newFixture(t)
	snap, err := store.Create(ctx, root, "")
	require.NoError(t, err)

	// Simulate a migration.
	pages := filepath.Join(root, "services/consulting/capabilities/delivery/operations/deliver/pages")
	require.NoError(t, os.RemoveAll(pages))
	require.NoError(t, os.WriteFile(filepath.Join(root, "new.md"), []byte("x"), 0o644))

	require.NoError(t, store.Restore(ctx, snap.ID))

	assert.FileExists(t, filepath.Join(pages, "a.md"))
	assert.NoFileExists(t, filepath.Join(root, "new.md"))
	assert.NoDirExists(t, root+".parasol-restore")
	assert.NoDirExists(t, root+".parasol-replaced")
}

func TestStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	root, store := newFixture(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	store.now = func() time.Time { return base }
	older, err := store.Create(ctx, root, "older")
	require.NoError(t, err)
	store.now = func() time.Time { return base.Add(time.Hour) }
	newer, err := store.Create(ctx, root, "newer")
	require.NoError(t, err)

	// A stray directory without a manifest is ignored.
	require.NoError(t, os.MkdirAll(filepath.Join(store.Dir(), idPrefix+"broken"), 0o755))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
	assert.Contains(t, older.ID, "20260102T030405Z")
}

func TestStore_ListWithoutDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "none"))
	list, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	root, store := newFixture(t)
	snap, err := store.Create(ctx, root, "")
	require.NoError(t, err)

	got, err := store.Get(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, got.ID)
	assert.Equal(t, snap.FileCount, got.FileCount)

	require.NoError(t, store.Delete(ctx, snap.ID))
	assert.NoDirExists(t, snap.Location)

	_, err = store.Get(ctx, snap.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, snap.ID), domain.ErrNotFound)
	assert.ErrorIs(t, store.Restore(ctx, snap.ID), domain.ErrNotFound)
}

func TestStore_GetRejectsPaths(t *testing.T) {
	store := NewStore(t.TempDir())
	for _, id := range []string{"", "..", "a/b", `a\b`} {
		_, err := store.Get(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, id)
	}
}
