package domain

import "fmt"

// ConsolidationType guesses how a duplicate cluster should be merged.
type ConsolidationType string

// Consolidation types, in rule priority order.
const (
	ConsolidationDeliverableSubmission ConsolidationType = "deliverable-submission"
	ConsolidationMemberSelection       ConsolidationType = "member-selection"
	ConsolidationApprovalWorkflow      ConsolidationType = "approval-workflow"
	ConsolidationProgressReporting     ConsolidationType = "progress-reporting"
	ConsolidationListSearch            ConsolidationType = "list-search"
	ConsolidationGeneralShared         ConsolidationType = "general-shared"
)

// DuplicateCluster groups documents that share one display name.
// Clusters are derived on every analysis run and have no stored identity.
type DuplicateCluster struct {
	DisplayName       string            `json:"displayName"`
	Kind              Kind              `json:"kind"`
	Members           []Document        `json:"members"`
	ConsolidationType ConsolidationType `json:"consolidationType"`
	RecommendedAction string            `json:"recommendedAction"`
}

// NewDuplicateCluster builds a cluster. A cluster always has at least two members.
func NewDuplicateCluster(name string, kind Kind, members []Document) (DuplicateCluster, error) {
	if len(members) < 2 {
		return DuplicateCluster{}, fmt.Errorf("%w: cluster %q needs 2 members, got %d",
			ErrInvalidInput, name, len(members))
	}
	return DuplicateCluster{
		DisplayName: name,
		Kind:        kind,
		Members:     members,
	}, nil
}

// Operations returns the distinct operation keys the members belong to.
func (c DuplicateCluster) Operations() []string {
	seen := make(map[string]bool, len(c.Members))
	var ops []string
	for _, m := range c.Members {
		key := m.OperationKey()
		if !seen[key] {
			seen[key] = true
			ops = append(ops, key)
		}
	}
	return ops
}

// ConsolidationCandidate is a cluster recommended for merging into a shared layer.
type ConsolidationCandidate struct {
	DisplayName       string            `json:"displayName"`
	Kind              Kind              `json:"kind"`
	Occurrences       int               `json:"occurrences"`
	Operations        []string          `json:"operations"`
	ConsolidationType ConsolidationType `json:"consolidationType"`
	RecommendedAction string            `json:"recommendedAction"`
}

// SharingAnalysis is the output of the duplicate and sharing analyzer.
type SharingAnalysis struct {
	TotalUseCases           int                      `json:"totalUseCases"`
	UniqueUseCases          int                      `json:"uniqueUseCases"`
	SharedCandidates        []DuplicateCluster       `json:"sharedCandidates"`
	ConsolidationCandidates []ConsolidationCandidate `json:"consolidationCandidates"`
	SharingReduction        int                      `json:"sharingReduction"`
}

// DuplicateDocuments returns the number of documents belonging to any cluster.
func (a SharingAnalysis) DuplicateDocuments() int {
	n := 0
	for _, c := range a.SharedCandidates {
		n += len(c.Members)
	}
	return n
}

// Scope narrows an analysis to a subtree of the corpus.
// Empty fields match everything.
type Scope struct {
	ServiceID    string
	CapabilityID string
	OperationID  string
}

// Contains returns true if the document lies inside the scope.
func (s Scope) Contains(d Document) bool {
	if s.ServiceID != "" && d.ServiceID != s.ServiceID {
		return false
	}
	if s.CapabilityID != "" && d.CapabilityID != s.CapabilityID {
		return false
	}
	if s.OperationID != "" && d.OperationID != s.OperationID {
		return false
	}
	return true
}
