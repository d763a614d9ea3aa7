package domain

import "time"

// MigrationVersion is written into every backup manifest.
const MigrationVersion = "1.0.0"

// OperationState is the migration state of one operation directory.
type OperationState string

// Operation states. An operation moves from NotMigrated to either
// Skipped, or Migrating and then Migrated or Failed.
const (
	StateNotMigrated OperationState = "not-migrated"
	StateSkipped     OperationState = "skipped"
	StateMigrating   OperationState = "migrating"
	StateMigrated    OperationState = "migrated"
	StateFailed      OperationState = "failed"
)

// IsTerminal returns true if no further transition is possible.
func (s OperationState) IsTerminal() bool {
	return s == StateSkipped || s == StateMigrated || s == StateFailed
}

// MigrationOptions controls a migration run.
type MigrationOptions struct {
	// DryRun derives mappings and logs intended actions without touching disk.
	DryRun bool

	// BackupOriginal snapshots the corpus before any destructive step.
	BackupOriginal bool

	// Description is written into the backup manifest.
	Description string

	// Operations restricts the run to the given operation keys
	// (service/capability/operation). Empty means all.
	Operations []string
}

// DefaultMigrationOptions returns options with backup enabled.
func DefaultMigrationOptions() MigrationOptions {
	return MigrationOptions{BackupOriginal: true}
}

// Includes returns true if the operation key is selected by the options.
func (o MigrationOptions) Includes(key string) bool {
	if len(o.Operations) == 0 {
		return true
	}
	for _, k := range o.Operations {
		if k == key {
			return true
		}
	}
	return false
}

// OperationMigration is the outcome for one operation directory.
type OperationMigration struct {
	ServiceID    string               `json:"serviceId"`
	CapabilityID string               `json:"capabilityId"`
	OperationID  string               `json:"operationId"`
	Path         string               `json:"path"`
	State        OperationState       `json:"state"`
	Mappings     []UseCasePageMapping `json:"mappings,omitempty"`
	Created      []string             `json:"created,omitempty"`
	Removed      []string             `json:"removed,omitempty"`
}

// Key returns service/capability/operation.
func (m OperationMigration) Key() string {
	return m.ServiceID + "/" + m.CapabilityID + "/" + m.OperationID
}

// MigrationResult is the structured outcome of a migration run.
type MigrationResult struct {
	Success             bool                 `json:"success"`
	DryRun              bool                 `json:"dryRun"`
	OperationsProcessed int                  `json:"operationsProcessed"`
	OperationsSkipped   int                  `json:"operationsSkipped"`
	DirectoriesCreated  int                  `json:"directoriesCreated"`
	FilesRelocated      int                  `json:"filesRelocated"`
	FilesSynthesized    int                  `json:"filesSynthesized"`
	Errors              []*MigrationError    `json:"errors"`
	BackupPath          string               `json:"backupPath,omitempty"`
	SnapshotID          string               `json:"snapshotId,omitempty"`
	StartedAt           time.Time            `json:"startedAt"`
	FinishedAt          time.Time            `json:"finishedAt"`
	Operations          []OperationMigration `json:"operations"`
}

// AddError records a failure and clears the success flag.
func (r *MigrationResult) AddError(err *MigrationError) {
	r.Errors = append(r.Errors, err)
	r.Success = false
}

// FailedOperations returns the keys of operations that failed.
func (r *MigrationResult) FailedOperations() []string {
	var keys []string
	for _, op := range r.Operations {
		if op.State == StateFailed {
			keys = append(keys, op.Key())
		}
	}
	return keys
}
