package services

import (
	"strings"

	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/core/ports/driving"
	"github.com/custodia-labs/parasol/internal/logger"
)

// Ensure Analyzer implements the interface.
var _ driving.SharingAnalyzer = (*Analyzer)(nil)

// consolidationRule maps display-name keywords to a consolidation type.
type consolidationRule struct {
	kind     domain.ConsolidationType
	keywords []string
	action   string
}

// consolidationRules are evaluated in order; the first match wins.
var consolidationRules = []consolidationRule{
	{
		kind:     domain.ConsolidationDeliverableSubmission,
		keywords: []string{"成果物", "提出", "deliverable", "submit"},
		action:   "Merge into one shared deliverable submission use case and reference it from each operation",
	},
	{
		kind:     domain.ConsolidationMemberSelection,
		keywords: []string{"メンバー", "選定", "アサイン", "member", "assign"},
		action:   "Extract a shared member selection use case",
	},
	{
		kind:     domain.ConsolidationApprovalWorkflow,
		keywords: []string{"承認", "approve", "approval"},
		action:   "Move into a shared approval workflow",
	},
	{
		kind:     domain.ConsolidationProgressReporting,
		keywords: []string{"進捗", "報告", "progress", "report"},
		action:   "Merge into a shared progress reporting use case",
	},
	{
		kind:     domain.ConsolidationListSearch,
		keywords: []string{"一覧", "検索", "list", "search"},
		action:   "Replace with an operation-level list and search page",
	},
}

var generalShared = consolidationRule{
	kind:   domain.ConsolidationGeneralShared,
	action: "Review for promotion to shared-usecases",
}

// Analyzer finds use cases and pages that are duplicated across operations.
type Analyzer struct{}

// NewAnalyzer creates a sharing analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

type groupKey struct {
	kind domain.Kind
	name string
}

// Analyze groups use case and page documents by exact display name.
// Groups of two or more become clusters, in first-seen order.
func (a *Analyzer) Analyze(docs []domain.Document) domain.SharingAnalysis {
	var keys []groupKey
	groups := make(map[groupKey][]domain.Document)
	total := 0
	for _, d := range docs {
		if d.Kind != domain.KindUseCase && d.Kind != domain.KindPage {
			continue
		}
		total++
		key := groupKey{kind: d.Kind, name: d.DisplayName}
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], d)
	}

	result := domain.SharingAnalysis{
		TotalUseCases:           total,
		UniqueUseCases:          len(keys),
		SharedCandidates:        []domain.DuplicateCluster{},
		ConsolidationCandidates: []domain.ConsolidationCandidate{},
		SharingReduction:        total - len(keys),
	}

	for _, key := range keys {
		cluster, err := domain.NewDuplicateCluster(key.name, key.kind, groups[key])
		if err != nil {
			continue
		}
		rule := consolidationFor(key.name)
		cluster.ConsolidationType = rule.kind
		cluster.RecommendedAction = rule.action
		result.SharedCandidates = append(result.SharedCandidates, cluster)
		result.ConsolidationCandidates = append(result.ConsolidationCandidates, domain.ConsolidationCandidate{
			DisplayName:       cluster.DisplayName,
			Kind:              cluster.Kind,
			Occurrences:       len(cluster.Members),
			Operations:        cluster.Operations(),
			ConsolidationType: cluster.ConsolidationType,
			RecommendedAction: cluster.RecommendedAction,
		})
		logger.Debug("Duplicate %s %q x%d (%s)", key.kind, key.name, len(cluster.Members), rule.kind)
	}
	return result
}

// AnalyzeScope analyses only the documents inside scope.
func (a *Analyzer) AnalyzeScope(docs []domain.Document, scope domain.Scope) domain.SharingAnalysis {
	var scoped []domain.Document
	for _, d := range docs {
		if scope.Contains(d) {
			scoped = append(scoped, d)
		}
	}
	return a.Analyze(scoped)
}

// consolidationFor returns the first rule whose keywords appear in the
// display name.
func consolidationFor(displayName string) consolidationRule {
	name := strings.ToLower(displayName)
	for _, rule := range consolidationRules {
		if containsAny(name, rule.keywords) {
			return rule
		}
	}
	return generalShared
}

// ConsolidationType returns the consolidation type for a display name.
func ConsolidationType(displayName string) domain.ConsolidationType {
	return consolidationFor(displayName).kind
}

func containsAny(s string, keywords []string) bool {
	_, ok := firstKeyword(s, keywords)
	return ok
}

func firstKeyword(s string, keywords []string) (string, bool) {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return k, true
		}
	}
	return "", false
}
