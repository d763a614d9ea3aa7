package driven

import (
	"context"

	"github.com/custodia-labs/parasol/internal/core/domain"
)

// RecordSink receives records after a migration.
// Writes are independent; there is no transaction across records.
type RecordSink interface {
	// Write stores or updates one record, keyed by its natural key.
	Write(ctx context.Context, record domain.Record) error
}

// RecordReader supplies persisted rows for the tree view.
type RecordReader interface {
	// ListServices returns all persisted services.
	ListServices(ctx context.Context) ([]domain.ServiceRow, error)

	// LoadService returns a service with its capabilities and operations.
	// Returns domain.ErrNotFound if the service has no records.
	LoadService(ctx context.Context, serviceID string) (
		*domain.ServiceRow, []domain.CapabilityRow, []domain.OperationRow, error)
}

// RecordStore is a sink that can also be read back.
type RecordStore interface {
	RecordSink
	RecordReader

	// Close releases the store's resources.
	Close() error
}
