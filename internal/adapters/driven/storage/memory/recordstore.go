package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
// Records are upserted by natural key and kept in first-write order.
type RecordStore struct {
	mu      sync.RWMutex
	records []domain.Record
	index   map[string]int
	closed  bool

	// FailOn makes Write fail for records whose natural key is listed.
	FailOn map[string]error
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		index:  make(map[string]int),
		FailOn: make(map[string]error),
	}
}

// Write stores or updates one record.
func (s *RecordStore) Write(_ context.Context, record domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrStoreClosed
	}
	key := record.NaturalKey()
	if err, ok := s.FailOn[key]; ok {
		return err
	}
	if i, ok := s.index[key]; ok {
		record.ID = s.records[i].ID
		s.records[i] = record
		return nil
	}
	s.index[key] = len(s.records)
	s.records = append(s.records, record)
	return nil
}

// Records returns a copy of all stored records in write order.
func (s *RecordStore) Records() []domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Record(nil), s.records...)
}

// ListServices returns all services that have records, sorted by ID.
func (s *RecordStore) ListServices(_ context.Context) ([]domain.ServiceRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, domain.ErrStoreClosed
	}

	rows := make(map[string]domain.ServiceRow)
	for _, r := range s.records {
		if r.Kind == domain.KindService {
			rows[r.ServiceID] = domain.ServiceRow{
				ID: r.ServiceID, Name: r.Name, DisplayName: r.DisplayName, Content: r.Content,
			}
		} else if _, ok := rows[r.ServiceID]; !ok {
			rows[r.ServiceID] = domain.ServiceRow{ID: r.ServiceID, Name: r.ServiceID, DisplayName: r.ServiceID}
		}
	}

	out := make([]domain.ServiceRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// LoadService returns a service with its capabilities and operations.
func (s *RecordStore) LoadService(_ context.Context, serviceID string) (
	*domain.ServiceRow, []domain.CapabilityRow, []domain.OperationRow, error,
) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, nil, nil, domain.ErrStoreClosed
	}
	return domain.AssembleService(serviceID, s.records)
}

// Close marks the store closed.
func (s *RecordStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
