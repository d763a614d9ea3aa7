package domain

import "path/filepath"

// Kind identifies what a document describes.
type Kind string

// Document kinds found in the corpus.
const (
	KindService    Kind = "service"
	KindCapability Kind = "capability"
	KindOperation  Kind = "operation"
	KindUseCase    Kind = "usecase"
	KindPage       Kind = "page"

	// KindAPIUsage is a use case's api-usage.md. It is published but
	// not scanned.
	KindAPIUsage Kind = "api-usage"
)

// IsValid returns true if the kind is recognised.
func (k Kind) IsValid() bool {
	switch k {
	case KindService, KindCapability, KindOperation, KindUseCase, KindPage, KindAPIUsage:
		return true
	default:
		return false
	}
}

// SourceType identifies which corpus layout a document was read from.
type SourceType string

// Source types.
const (
	// SourceCurrent is the legacy flat layout (pages/*.md, usecases/*.md).
	SourceCurrent SourceType = "current"

	// SourceUseCaseCurrent is the per-use-case directory layout.
	SourceUseCaseCurrent SourceType = "usecase-current"

	// SourceShared is a shared-usecases/ entry.
	SourceShared SourceType = "shared"
)

// Document is a Markdown specification file read from the corpus.
// It is created by the scanner and never modified afterwards.
type Document struct {
	// Path is the filesystem path. It is the document's identity.
	Path string `json:"path"`

	// RawContent is the file content as read.
	RawContent string `json:"-"`

	// CleanContent is RawContent with terminal escape codes removed.
	CleanContent string `json:"-"`

	// DisplayName is the first heading with known prefixes stripped,
	// or the filesystem name when the file has no heading.
	DisplayName string `json:"displayName"`

	ServiceID    string `json:"serviceId"`
	CapabilityID string `json:"capabilityId,omitempty"`
	OperationID  string `json:"operationId,omitempty"`

	// UseCaseID is the use case directory or loose file name, if any.
	UseCaseID string `json:"useCaseId,omitempty"`

	SourceType SourceType `json:"sourceType"`
	Kind       Kind       `json:"kind"`

	// Degraded is true when DisplayName came from the filesystem.
	Degraded bool `json:"degraded,omitempty"`

	// Metadata holds extracted key-value pairs (pattern, category, ...).
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ID returns the document identity.
func (d Document) ID() string {
	return d.Path
}

// BaseName returns the file name without directory.
func (d Document) BaseName() string {
	return filepath.Base(d.Path)
}

// OperationKey identifies the operation a document belongs to.
func (d Document) OperationKey() string {
	return d.ServiceID + "/" + d.CapabilityID + "/" + d.OperationID
}

// Meta returns a metadata value or the empty string.
func (d Document) Meta(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}

// ScanError records a corpus branch that could not be read.
type ScanError struct {
	ServiceID    string `json:"serviceId"`
	CapabilityID string `json:"capabilityId,omitempty"`
	OperationID  string `json:"operationId,omitempty"`
	Path         string `json:"path"`
	Reason       string `json:"error"`
}

// Error implements the error interface.
func (e ScanError) Error() string {
	loc := e.ServiceID
	if e.CapabilityID != "" {
		loc += "/" + e.CapabilityID
	}
	if e.OperationID != "" {
		loc += "/" + e.OperationID
	}
	if loc == "" {
		return e.Reason + ": " + e.Path
	}
	return loc + ": " + e.Reason + ": " + e.Path
}

// Unwrap lets callers match with errors.Is(err, ErrScanSkip).
func (e ScanError) Unwrap() error {
	return ErrScanSkip
}

// ScanResult is the output of a corpus scan.
type ScanResult struct {
	Root      string      `json:"root"`
	Documents []Document  `json:"documents"`
	Errors    []ScanError `json:"errors"`
}

// ByKind returns the documents of the given kinds, in scan order.
func (r ScanResult) ByKind(kinds ...Kind) []Document {
	var out []Document
	for _, d := range r.Documents {
		for _, k := range kinds {
			if d.Kind == k {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// OperationRef locates one operation directory in the corpus.
type OperationRef struct {
	ServiceID    string `json:"serviceId"`
	CapabilityID string `json:"capabilityId"`
	OperationID  string `json:"operationId"`
	Path         string `json:"path"`
}

// Key returns service/capability/operation.
func (r OperationRef) Key() string {
	return r.ServiceID + "/" + r.CapabilityID + "/" + r.OperationID
}
