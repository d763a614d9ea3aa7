package driving

import (
	"context"

	"github.com/custodia-labs/parasol/internal/core/domain"
)

// CorpusScanner walks a corpus and reads its documents.
type CorpusScanner interface {
	// Scan reads every document under root. Missing branches are
	// reported in the result, not returned as errors.
	Scan(ctx context.Context, root string) (*domain.ScanResult, error)
}

// SharingAnalyzer detects documents shared across operations.
type SharingAnalyzer interface {
	// Analyze groups documents by display name across the whole input.
	Analyze(docs []domain.Document) domain.SharingAnalysis

	// AnalyzeScope restricts the analysis to a subtree.
	AnalyzeScope(docs []domain.Document, scope domain.Scope) domain.SharingAnalysis
}

// LayerClassifier recommends a sharing layer per document.
type LayerClassifier interface {
	// Classify returns the recommended layer of one document.
	Classify(doc domain.Document) domain.ClassificationResult

	// ClassifyAll classifies use case and page documents, preserving order.
	ClassifyAll(docs []domain.Document) []domain.ClassificationResult
}

// MigrationPlanner builds the phased migration plan.
type MigrationPlanner interface {
	// Plan combines classifications and sharing analysis into a plan.
	Plan(classified []domain.ClassificationResult, sharing domain.SharingAnalysis) domain.MigrationPlan
}

// CorpusReport bundles one inspection of the corpus.
type CorpusReport struct {
	Scan            *domain.ScanResult            `json:"scan"`
	Sharing         domain.SharingAnalysis        `json:"sharing"`
	Classifications []domain.ClassificationResult `json:"classifications"`
}

// LayerCounts returns how many documents were classified into each layer.
func (r *CorpusReport) LayerCounts() map[domain.Layer]int {
	counts := make(map[domain.Layer]int, 3)
	for _, c := range r.Classifications {
		counts[c.RecommendedLayer]++
	}
	return counts
}

// CorpusService runs scan, analysis, classification and planning together.
type CorpusService interface {
	// Inspect scans the corpus and analyses the documents inside scope.
	Inspect(ctx context.Context, root string, scope domain.Scope) (*CorpusReport, error)

	// Plan inspects the whole corpus and returns its migration plan.
	Plan(ctx context.Context, root string) (*domain.MigrationPlan, error)
}
