package memory

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/core/ports/driven"
)

// Ensure Corpus implements the interfaces.
var (
	_ driven.CorpusFS     = (*Corpus)(nil)
	_ driven.CorpusWriter = (*Corpus)(nil)
)

// Corpus is an in-memory corpus tree. It counts mutating calls so tests
// can assert that a run touched nothing.
type Corpus struct {
	mu        sync.RWMutex
	files     map[string][]byte
	dirs      map[string]bool
	mutations int
}

// NewCorpus creates an empty in-memory corpus.
func NewCorpus() *Corpus {
	return &Corpus{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

// AddFile seeds a file and its parent directories. Seeding is not
// counted as a mutation.
func (c *Corpus) AddFile(path, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	path = filepath.Clean(path)
	c.addDirs(filepath.Dir(path))
	c.files[path] = []byte(content)
}

// AddDir seeds an empty directory.
func (c *Corpus) AddDir(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addDirs(filepath.Clean(path))
}

// Mutations returns how many mutating calls succeeded.
func (c *Corpus) Mutations() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mutations
}

// Files returns every file path under root, sorted.
func (c *Corpus) Files(root string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	root = filepath.Clean(root)
	var out []string
	for p := range c.files {
		if within(p, root) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Content returns a file's content, or "" if absent.
func (c *Corpus) Content(path string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return string(c.files[filepath.Clean(path)])
}

// ReadDir lists a directory sorted by name.
func (c *Corpus) ReadDir(path string) ([]driven.Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	path = filepath.Clean(path)
	if !c.dirs[path] {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}

	seen := make(map[string]bool)
	var out []driven.Entry
	for d := range c.dirs {
		if d != path && filepath.Dir(d) == path && !seen[d] {
			seen[d] = true
			out = append(out, driven.Entry{Name: filepath.Base(d), IsDir: true})
		}
	}
	for f := range c.files {
		if filepath.Dir(f) == path {
			out = append(out, driven.Entry{Name: filepath.Base(f)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ReadFile returns a file's content.
func (c *Corpus) ReadFile(path string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.files[filepath.Clean(path)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	return append([]byte(nil), data...), nil
}

// Exists reports whether the path exists.
func (c *Corpus) Exists(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	path = filepath.Clean(path)
	_, isFile := c.files[path]
	return isFile || c.dirs[path]
}

// IsDir reports whether the path is a directory.
func (c *Corpus) IsDir(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirs[filepath.Clean(path)]
}

// MkdirAll creates a directory and any missing parents.
func (c *Corpus) MkdirAll(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	path = filepath.Clean(path)
	if _, isFile := c.files[path]; isFile {
		return fmt.Errorf("creating directory %s: file exists", path)
	}
	c.addDirs(path)
	c.mutations++
	return nil
}

// WriteFile writes a file. The parent directory must exist.
func (c *Corpus) WriteFile(path string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	path = filepath.Clean(path)
	if !c.dirs[filepath.Dir(path)] {
		return fmt.Errorf("writing file %s: %w: parent directory", path, domain.ErrNotFound)
	}
	if c.dirs[path] {
		return fmt.Errorf("writing file %s: is a directory", path)
	}
	c.files[path] = append([]byte(nil), data...)
	c.mutations++
	return nil
}

// Remove deletes a file or empty directory. Missing paths are ignored.
func (c *Corpus) Remove(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	path = filepath.Clean(path)
	if _, ok := c.files[path]; ok {
		delete(c.files, path)
		c.mutations++
		return nil
	}
	if !c.dirs[path] {
		return nil
	}
	for p := range c.files {
		if within(p, path) {
			return fmt.Errorf("removing %s: directory not empty", path)
		}
	}
	for d := range c.dirs {
		if d != path && within(d, path) {
			return fmt.Errorf("removing %s: directory not empty", path)
		}
	}
	delete(c.dirs, path)
	c.mutations++
	return nil
}

// RemoveAll deletes a path and everything below it.
func (c *Corpus) RemoveAll(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeTree(filepath.Clean(path))
	c.mutations++
	return nil
}

// tree returns copies of every file and directory under root.
func (c *Corpus) tree(root string) (map[string][]byte, []string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	files := make(map[string][]byte)
	for p, data := range c.files {
		if within(p, root) {
			files[p] = append([]byte(nil), data...)
		}
	}
	var dirs []string
	for d := range c.dirs {
		if within(d, root) {
			dirs = append(dirs, d)
		}
	}
	return files, dirs
}

// replaceTree swaps everything under root for the given content.
func (c *Corpus) replaceTree(root string, files map[string][]byte, dirs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeTree(root)
	for _, d := range dirs {
		c.addDirs(d)
	}
	for p, data := range files {
		c.addDirs(filepath.Dir(p))
		c.files[p] = append([]byte(nil), data...)
	}
	c.mutations++
}

func (c *Corpus) removeTree(path string) {
	for p := range c.files {
		if within(p, path) {
			delete(c.files, p)
		}
	}
	for d := range c.dirs {
		if within(d, path) {
			delete(c.dirs, d)
		}
	}
}

func (c *Corpus) addDirs(path string) {
	for {
		c.dirs[path] = true
		parent := filepath.Dir(path)
		if parent == path {
			return
		}
		path = parent
	}
}

// within reports whether path is root or below it.
func within(path, root string) bool {
	if path == root {
		return true
	}
	if root == string(filepath.Separator) {
		return strings.HasPrefix(path, root)
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
