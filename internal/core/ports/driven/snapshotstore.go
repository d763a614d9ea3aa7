package driven

import (
	"context"

	"github.com/custodia-labs/parasol/internal/core/domain"
)

// SnapshotStore takes and restores full copies of the corpus.
// A snapshot is the only rollback mechanism for a migration.
type SnapshotStore interface {
	// Create copies the tree at root and records a manifest.
	// The snapshot is complete when Create returns without error.
	Create(ctx context.Context, root, description string) (*domain.Snapshot, error)

	// Restore replaces the original tree with the snapshot's copy.
	Restore(ctx context.Context, id string) error

	// Get returns a snapshot manifest by ID.
	Get(ctx context.Context, id string) (*domain.Snapshot, error)

	// List returns all snapshots, newest first.
	List(ctx context.Context) ([]domain.Snapshot, error)

	// Delete removes a snapshot. This is the only end of a snapshot's lifecycle.
	Delete(ctx context.Context, id string) error
}
