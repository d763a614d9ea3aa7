package memory

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

type snapshotCopy struct {
	seq   int
	meta  domain.Snapshot
	files map[string][]byte
	dirs  []string
}

// SnapshotStore keeps corpus snapshots in memory. IDs are sequential so
// restore tests are deterministic.
type SnapshotStore struct {
	mu        sync.RWMutex
	corpus    *Corpus
	snapshots map[string]snapshotCopy
	seq       int
	now       func() time.Time

	// FailCreate makes Create return an error, for backup failure tests.
	FailCreate error
}

// NewSnapshotStore creates a snapshot store over an in-memory corpus.
func NewSnapshotStore(corpus *Corpus) *SnapshotStore {
	return &SnapshotStore{
		corpus:    corpus,
		snapshots: make(map[string]snapshotCopy),
		now:       time.Now,
	}
}

// Create copies every file under root.
func (s *SnapshotStore) Create(ctx context.Context, root, description string) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.FailCreate != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackupFailure, s.FailCreate)
	}
	root = filepath.Clean(root)
	if !s.corpus.IsDir(root) {
		return nil, fmt.Errorf("%w: %w: %s", domain.ErrBackupFailure, domain.ErrNotFound, root)
	}

	files, dirs := s.corpus.tree(root)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := fmt.Sprintf("memory-snapshot-%d", s.seq)
	snap := domain.Snapshot{
		ID:               id,
		Timestamp:        s.now().UTC(),
		OriginalPath:     root,
		MigrationVersion: domain.MigrationVersion,
		Description:      description,
		Location:         ":memory:",
		FileCount:        len(files),
	}
	s.snapshots[id] = snapshotCopy{seq: s.seq, meta: snap, files: files, dirs: dirs}
	return &snap, nil
}

// Restore replaces the original tree with the snapshot content.
func (s *SnapshotStore) Restore(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	sc, ok := s.snapshots[id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: snapshot %s", domain.ErrNotFound, id)
	}
	s.corpus.replaceTree(sc.meta.OriginalPath, sc.files, sc.dirs)
	return nil
}

// Get returns a snapshot manifest.
func (s *SnapshotStore) Get(_ context.Context, id string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.snapshots[id]
	if !ok {
		return nil, fmt.Errorf("%w: snapshot %s", domain.ErrNotFound, id)
	}
	snap := sc.meta
	return &snap, nil
}

// List returns all snapshots, newest first.
func (s *SnapshotStore) List(_ context.Context) ([]domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copies := make([]snapshotCopy, 0, len(s.snapshots))
	for _, sc := range s.snapshots {
		copies = append(copies, sc)
	}
	sort.Slice(copies, func(i, j int) bool { return copies[i].seq > copies[j].seq })

	out := make([]domain.Snapshot, len(copies))
	for i, sc := range copies {
		out[i] = sc.meta
	}
	return out, nil
}

// Delete removes a snapshot.
func (s *SnapshotStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snapshots[id]; !ok {
		return fmt.Errorf("%w: snapshot %s", domain.ErrNotFound, id)
	}
	delete(s.snapshots, id)
	return nil
}
