package domain

import (
	"fmt"
	"path/filepath"
)

// Default settings values.
const (
	DefaultCorpusRoot     = "docs/parasol"
	DefaultParallelism    = 4
	DefaultMatchThreshold = 0.3
	DefaultBackupDirName  = ".parasol-backups"
	DefaultDatabaseName   = "records.db"
	DefaultDataDirName    = "data"
	DefaultConfigDirName  = ".parasol"
)

// Settings is the typed view of the configuration file.
type Settings struct {
	Corpus  CorpusSettings
	Matcher MatcherSettings
	Backup  BackupSettings
	Storage StorageSettings
}

// CorpusSettings locates and scans the corpus.
type CorpusSettings struct {
	// Root is the Parasol root (the directory holding services/).
	Root string

	// Parallelism bounds how many service subtrees are scanned at once.
	Parallelism int
}

// MatcherSettings tunes fuzzy file pairing.
type MatcherSettings struct {
	// Threshold is the similarity a match must exceed.
	Threshold float64
}

// BackupSettings controls pre-migration snapshots.
type BackupSettings struct {
	Enabled bool

	// Dir holds snapshots. Empty means a sibling of the corpus root.
	Dir string
}

// StorageSettings locates the record store.
type StorageSettings struct {
	// DataDir holds the SQLite database. Empty means ~/.parasol/data.
	DataDir string
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() Settings {
	return Settings{
		Corpus:  CorpusSettings{Root: DefaultCorpusRoot, Parallelism: DefaultParallelism},
		Matcher: MatcherSettings{Threshold: DefaultMatchThreshold},
		Backup:  BackupSettings{Enabled: true},
	}
}

// BackupDir resolves the snapshot directory.
func (s Settings) BackupDir() string {
	if s.Backup.Dir != "" {
		return s.Backup.Dir
	}
	root := filepath.Clean(s.Corpus.Root)
	return filepath.Join(filepath.Dir(root), DefaultBackupDirName)
}

// Validate checks the settings are usable.
func (s Settings) Validate() error {
	if s.Corpus.Root == "" {
		return fmt.Errorf("%w: corpus.root is required", ErrInvalidInput)
	}
	if s.Corpus.Parallelism < 1 {
		return fmt.Errorf("%w: corpus.parallelism must be at least 1", ErrInvalidInput)
	}
	if s.Matcher.Threshold < 0 || s.Matcher.Threshold >= 1 {
		return fmt.Errorf("%w: matcher.threshold must be in [0, 1)", ErrInvalidInput)
	}
	if IsWithin(s.BackupDir(), s.Corpus.Root) {
		return fmt.Errorf("%w: backup.dir must be outside the corpus root", ErrInvalidInput)
	}
	return nil
}

// IsWithin returns true if path equals root or lies below it.
func IsWithin(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !filepath.IsAbs(rel) && !hasParentPrefix(rel))
}

func hasParentPrefix(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
