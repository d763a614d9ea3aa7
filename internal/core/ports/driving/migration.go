package driving

import (
	"context"

	"github.com/custodia-labs/parasol/internal/core/domain"
)

// Migrator restructures the corpus into the one-to-one layout.
type Migrator interface {
	// Migrate normalises every operation under root.
	// The returned result is non-nil even when err is non-nil.
	Migrate(ctx context.Context, root string, opts domain.MigrationOptions) (*domain.MigrationResult, error)

	// Restore rolls the corpus back to a snapshot.
	Restore(ctx context.Context, snapshotID string) error
}

// SnapshotService manages backup lifecycle.
type SnapshotService interface {
	// List returns all snapshots, newest first.
	List(ctx context.Context) ([]domain.Snapshot, error)

	// Restore rolls the corpus back to a snapshot.
	Restore(ctx context.Context, id string) error

	// Delete removes a snapshot.
	Delete(ctx context.Context, id string) error
}

// Publisher hands the normalised corpus to the record sink.
type Publisher interface {
	// Publish writes one record per service, capability, operation,
	// use case and page. Failures are reported per item.
	Publish(ctx context.Context, root string) (*domain.PublishResult, error)
}

// TreeService renders persisted records as a tree.
type TreeService interface {
	// Services lists the persisted services.
	Services(ctx context.Context) ([]domain.ServiceRow, error)

	// Tree builds the tree of one service.
	Tree(ctx context.Context, serviceID string) (*domain.TreeNode, error)
}
