package driven

// Entry is one item of a corpus directory listing.
type Entry struct {
	Name  string
	IsDir bool
}

// CorpusFS reads the corpus directory tree.
// Paths are OS paths; the implementation does not restrict them to a root.
type CorpusFS interface {
	// ReadDir lists a directory sorted by name.
	// A missing directory returns an error matching domain.ErrNotFound.
	ReadDir(path string) ([]Entry, error)

	// ReadFile returns a file's content.
	ReadFile(path string) ([]byte, error)

	// Exists reports whether the path exists.
	Exists(path string) bool

	// IsDir reports whether the path exists and is a directory.
	IsDir(path string) bool
}

// CorpusWriter mutates the corpus. Only the migrator holds one.
type CorpusWriter interface {
	CorpusFS

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string) error

	// WriteFile writes a file, replacing any existing content.
	WriteFile(path string, data []byte) error

	// Remove deletes a file or empty directory.
	Remove(path string) error

	// RemoveAll deletes a path and everything below it.
	RemoveAll(path string) error
}
