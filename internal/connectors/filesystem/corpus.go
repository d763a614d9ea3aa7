// Package filesystem implements the corpus ports over the OS filesystem.
package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/core/ports/driven"
)

// Ensure Corpus implements the interfaces.
var (
	_ driven.CorpusFS     = (*Corpus)(nil)
	_ driven.CorpusWriter = (*Corpus)(nil)
)

// File and directory permissions for created corpus entries.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Corpus reads and writes corpus files on the local filesystem.
type Corpus struct{}

// New creates a filesystem corpus accessor.
func New() *Corpus {
	return &Corpus{}
}

// ReadDir lists a directory sorted by name.
func (c *Corpus) ReadDir(path string) ([]driven.Entry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading directory %s: %w", path, err)
	}

	out := make([]driven.Entry, 0, len(entries))
	for _, e := range entries {
		isDir := e.IsDir()
		if e.Type()&fs.ModeSymlink != 0 {
			// Follow links so linked operation directories are scanned.
			if info, err := os.Stat(filepath.Join(path, e.Name())); err == nil {
				isDir = info.IsDir()
			}
		}
		out = append(out, driven.Entry{Name: e.Name(), IsDir: isDir})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ReadFile returns a file's content.
func (c *Corpus) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}

// Exists reports whether the path exists.
func (c *Corpus) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether the path exists and is a directory.
func (c *Corpus) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// MkdirAll creates a directory and any missing parents.
func (c *Corpus) MkdirAll(path string) error {
	if err := os.MkdirAll(path, dirPerm); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}

// WriteFile writes a file, replacing any existing content.
func (c *Corpus) WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	return nil
}

// Remove deletes a file or empty directory.
func (c *Corpus) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// RemoveAll deletes a path and everything below it.
func (c *Corpus) RemoveAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}
