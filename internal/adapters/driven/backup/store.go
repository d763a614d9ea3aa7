// Package backup implements the snapshot store over the local filesystem.
// Each snapshot is a directory holding a full copy of the corpus tree and
// a manifest.json.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/core/ports/driven"
	"github.com/custodia-labs/parasol/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.SnapshotStore = (*Store)(nil)

const (
	idPrefix     = "parasol-backup-"
	manifestFile = "manifest.json"
	treeDir      = "tree"
	timeFormat   = "20060102T150405Z"
	dirPerm      = 0o755
)

// Store keeps snapshots under a backup directory.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a snapshot store rooted at dir. The directory is
// created on the first snapshot.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the backup directory.
func (s *Store) Dir() string {
	return s.dir
}

// Create copies root into a new snapshot. The snapshot exists only once
// the copy and manifest are complete; a partial copy is removed.
func (s *Store) Create(ctx context.Context, root, description string) (*domain.Snapshot, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackupFailure, err)
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %w: corpus root %s", domain.ErrBackupFailure, domain.ErrNotFound, abs)
	}
	if domain.IsWithin(s.dir, abs) {
		return nil, fmt.Errorf("%w: %w: backup dir %s is inside %s",
			domain.ErrBackupFailure, domain.ErrInvalidInput, s.dir, abs)
	}

	now := s.now().UTC()
	id := idPrefix + now.Format(timeFormat) + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	dest := filepath.Join(s.dir, id)
	logger.Info("Backing up %s to %s", abs, dest)

	count, err := copyTree(ctx, abs, filepath.Join(dest, treeDir))
	if err != nil {
		_ = os.RemoveAll(dest)
		return nil, fmt.Errorf("%w: copying %s: %w", domain.ErrBackupFailure, abs, err)
	}

	snap := &domain.Snapshot{
		ID:               id,
		Timestamp:        now,
		OriginalPath:     abs,
		MigrationVersion: domain.MigrationVersion,
		Description:      description,
		Location:         dest,
		FileCount:        count,
	}
	if err := writeManifest(dest, snap); err != nil {
		_ = os.RemoveAll(dest)
		return nil, fmt.Errorf("%w: %w", domain.ErrBackupFailure, err)
	}
	return snap, nil
}

// Restore replaces the original tree with the snapshot's copy. The copy
// is staged next to the original and swapped in by rename.
func (s *Store) Restore(ctx context.Context, id string) error {
	snap, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	original := snap.OriginalPath
	staging := original + ".parasol-restore"
	replaced := original + ".parasol-replaced"
	_ = os.RemoveAll(staging)
	_ = os.RemoveAll(replaced)

	if _, err := copyTree(ctx, filepath.Join(snap.Location, treeDir), staging); err != nil {
		_ = os.RemoveAll(staging)
		return fmt.Errorf("staging snapshot %s: %w", id, err)
	}

	if _, err := os.Stat(original); err == nil {
		if err := os.Rename(original, replaced); err != nil {
			_ = os.RemoveAll(staging)
			return fmt.Errorf("moving %s aside: %w", original, err)
		}
	}
	if err := os.Rename(staging, original); err != nil {
		// Put the previous tree back.
		_ = os.Rename(replaced, original)
		return fmt.Errorf("restoring %s: %w", original, err)
	}
	if err := os.RemoveAll(replaced); err != nil {
		logger.Warn("Could not remove %s: %v", replaced, err)
	}
	logger.Info("Restored %s from %s", original, id)
	return nil
}

// Get returns a snapshot manifest by ID.
func (s *Store) Get(_ context.Context, id string) (*domain.Snapshot, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, fmt.Errorf("%w: snapshot id %q", domain.ErrInvalidInput, id)
	}
	return readManifest(filepath.Join(s.dir, id))
}

// List returns all snapshots, newest first. Directories without a
// readable manifest are skipped.
func (s *Store) List(_ context.Context) ([]domain.Snapshot, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.Snapshot{}, nil
		}
		return nil, err
	}

	snapshots := []domain.Snapshot{}
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), idPrefix) {
			continue
		}
		snap, err := readManifest(filepath.Join(s.dir, e.Name()))
		if err != nil {
			logger.Warn("Skipping %s: %v", e.Name(), err)
			continue
		}
		snapshots = append(snapshots, *snap)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		if !snapshots[i].Timestamp.Equal(snapshots[j].Timestamp) {
			return snapshots[i].Timestamp.After(snapshots[j].Timestamp)
		}
		return snapshots[i].ID > snapshots[j].ID
	})
	return snapshots, nil
}

// Delete removes a snapshot directory.
func (s *Store) Delete(ctx context.Context, id string) error {
	snap, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(snap.Location); err != nil {
		return fmt.Errorf("deleting snapshot %s: %w", id, err)
	}
	return nil
}

func writeManifest(dir string, snap *domain.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	tmp := filepath.Join(dir, manifestFile+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(dir, manifestFile))
}

func readManifest(dir string) (*domain.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: snapshot %s", domain.ErrNotFound, filepath.Base(dir))
		}
		return nil, err
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: manifest %s: %w", domain.ErrInvalidInput, dir, err)
	}
	snap.Location = dir
	return &snap, nil
}

// copyTree copies src into dst and returns the number of files copied.
// Cancellation is checked per entry.
func copyTree(ctx context.Context, src, dst string) (int, error) {
	count := 0
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, dirPerm)
		case d.Type().IsRegular():
			if err := copyFile(path, target); err != nil {
				return err
			}
			count++
			return nil
		default:
			logger.Debug("Not copying %s: not a regular file", path)
			return nil
		}
	})
	return count, err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
