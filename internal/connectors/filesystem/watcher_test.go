package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsChanges(t *testing.T) {
	root := t.TempDir()
	ops := filepath.Join(root, "services", "consulting")
	require.NoError(t, os.MkdirAll(ops, 0o755))

	w, err := NewWatcher(root, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, root, w.Root())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changes := make(chan []string, 1)
	go func() {
		_ = w.Run(ctx, func(paths []string) {
			select {
			case changes <- paths:
			default:
			}
		})
	}()

	target := filepath.Join(ops, "service.md")
	require.NoError(t, os.WriteFile(target, []byte("# コンサルティング"), 0o644))

	select {
	case paths := <-changes:
		assert.Contains(t, paths, target)
	case <-ctx.Done():
		t.Fatal("no change reported")
	}
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), 0)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, w.Run(ctx, func([]string) {}))
}

func TestNewWatcher_MissingRoot(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "missing"), 0)
	require.NoError(t, err)
	defer w.Close()
}
