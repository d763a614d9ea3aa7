package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Corpus Errors.

	// ErrScanSkip indicates a missing corpus directory was skipped.
	// Recoverable: the scan continues with sibling branches.
	ErrScanSkip = errors.New("scan skipped")

	// ErrParseDegraded indicates a document had no heading and
	// its filesystem name was used as display name.
	ErrParseDegraded = errors.New("parse degraded")

	// ErrMatchMiss indicates no candidate cleared the similarity threshold.
	// Recoverable: templated content is synthesized instead.
	ErrMatchMiss = errors.New("no match above threshold")

	// Migration Errors.

	// ErrWriteFailure indicates a filesystem write failed during migration.
	// Fatal for the operation unit only.
	ErrWriteFailure = errors.New("write failure")

	// ErrBackupFailure indicates the pre-migration backup could not be completed.
	// Fatal for the whole run; nothing is mutated.
	ErrBackupFailure = errors.New("backup failure")

	// ErrAborted indicates the run was cancelled between operations.
	ErrAborted = errors.New("migration aborted")

	// ErrMigrationInProgress indicates another migration holds the corpus.
	ErrMigrationInProgress = errors.New("migration in progress")

	// Storage Errors.

	// ErrStoreClosed indicates the record store has been closed.
	ErrStoreClosed = errors.New("store closed")

	// ErrUnsupportedPayload indicates an unknown payload kind or version.
	ErrUnsupportedPayload = errors.New("unsupported payload")
)

// MigrationError records a failure together with the corpus location it
// happened at, so operators can re-run only the failed operations.
type MigrationError struct {
	ServiceID    string `json:"serviceId"`
	CapabilityID string `json:"capabilityId,omitempty"`
	OperationID  string `json:"operationId,omitempty"`
	Path         string `json:"path,omitempty"`
	Err          error  `json:"-"`
}

// Error implements the error interface.
func (e *MigrationError) Error() string {
	loc := e.ServiceID
	if e.CapabilityID != "" {
		loc += "/" + e.CapabilityID
	}
	if e.OperationID != "" {
		loc += "/" + e.OperationID
	}
	if e.Path != "" {
		return fmt.Sprintf("%s (%s): %v", loc, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", loc, e.Err)
}

// Unwrap returns the underlying error.
func (e *MigrationError) Unwrap() error {
	return e.Err
}

// Message returns the error text for JSON reports.
func (e *MigrationError) Message() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// MarshalJSON includes the error message alongside its location.
func (e *MigrationError) MarshalJSON() ([]byte, error) {
	type alias MigrationError
	return json.Marshal(struct {
		*alias
		Error string `json:"error"`
	}{alias: (*alias)(e), Error: e.Message()})
}
