package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	t.Run("implements corpus interfaces", func(t *testing.T) {
		c := New()
		var _ driven.CorpusFS = c
		var _ driven.CorpusWriter = c
	})
}

func TestCorpus_ReadDir(t *testing.T) {
	t.Run("lists entries sorted by name", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("b"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("a"), 0o644))
		require.NoError(t, os.Mkdir(filepath.Join(dir, "pages"), 0o755))

		entries, err := New().ReadDir(dir)

		require.NoError(t, err)
		assert.Equal(t, []driven.Entry{
			{Name: "a.md"},
			{Name: "b.md"},
			{Name: "pages", IsDir: true},
		}, entries)
	})

	t.Run("missing directory is not found", func(t *testing.T) {
		_, err := New().ReadDir(filepath.Join(t.TempDir(), "missing"))

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCorpus_ReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "usecase.md")
	require.NoError(t, os.WriteFile(path, []byte("# 提出"), 0o644))

	c := New()

	data, err := c.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# 提出", string(data))

	_, err = c.ReadFile(filepath.Join(dir, "nope.md"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCorpus_WriteAndRemove(t *testing.T) {
	dir := t.TempDir()
	c := New()

	target := filepath.Join(dir, "usecases", "submit-report")
	require.NoError(t, c.MkdirAll(target))
	assert.True(t, c.IsDir(target))

	file := filepath.Join(target, "page.md")
	require.NoError(t, c.WriteFile(file, []byte("# page")))
	assert.True(t, c.Exists(file))
	assert.False(t, c.IsDir(file))

	require.NoError(t, c.Remove(file))
	assert.False(t, c.Exists(file))

	// Removing twice is not an error.
	require.NoError(t, c.Remove(file))

	require.NoError(t, c.RemoveAll(filepath.Join(dir, "usecases")))
	assert.False(t, c.Exists(target))
}
