package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/parasol/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/parasol/internal/core/domain"
)

func TestSnapshotService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	c := legacyCorpus()
	store := memory.NewSnapshotStore(c)
	svc := NewSnapshotService(store)

	snap, err := store.Create(ctx, corpusRoot, "before")
	require.NoError(t, err)
	c.AddFile(corpusRoot+"/services/new/service.md", "# 新規\n")

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, snap.ID, list[0].ID)

	require.NoError(t, svc.Restore(ctx, snap.ID))
	assert.False(t, c.Exists(corpusRoot+"/services/new/service.md"))

	require.NoError(t, svc.Delete(ctx, snap.ID))
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSnapshotService_Errors(t *testing.T) {
	ctx := context.Background()
	svc := NewSnapshotService(memory.NewSnapshotStore(memory.NewCorpus()))

	assert.ErrorIs(t, svc.Restore(ctx, ""), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Delete(ctx, ""), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Restore(ctx, "missing"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), domain.ErrNotFound)
}
