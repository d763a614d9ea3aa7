package domain

import "time"

// Snapshot is a full copy of the corpus taken before migration.
// It is the only recovery mechanism; it lives until explicitly deleted.
type Snapshot struct {
	ID               string    `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	OriginalPath     string    `json:"originalPath"`
	MigrationVersion string    `json:"migrationVersion"`
	Description      string    `json:"description"`

	// Location is where the copy is held (a directory for the
	// filesystem store).
	Location  string `json:"location,omitempty"`
	FileCount int    `json:"fileCount"`
}
