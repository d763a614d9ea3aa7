package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/core/ports/driven"
	"github.com/custodia-labs/parasol/internal/core/ports/driving"
	"github.com/custodia-labs/parasol/internal/logger"
)

// Ensure SnapshotService implements the interface.
var _ driving.SnapshotService = (*SnapshotService)(nil)

// SnapshotService manages the lifecycle of pre-migration backups.
type SnapshotService struct {
	store driven.SnapshotStore
}

// NewSnapshotService creates a snapshot service.
func NewSnapshotService(store driven.SnapshotStore) *SnapshotService {
	return &SnapshotService{store: store}
}

// List returns all snapshots, newest first.
func (s *SnapshotService) List(ctx context.Context) ([]domain.Snapshot, error) {
	return s.store.List(ctx)
}

// Restore rolls the corpus back to a snapshot.
func (s *SnapshotService) Restore(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: snapshot id is required", domain.ErrInvalidInput)
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	logger.Info("Restoring snapshot %s", id)
	return s.store.Restore(ctx, id)
}

// Delete removes a snapshot.
func (s *SnapshotService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: snapshot id is required", domain.ErrInvalidInput)
	}
	logger.Info("Deleting snapshot %s", id)
	return s.store.Delete(ctx, id)
}
