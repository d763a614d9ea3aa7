package services

import (
	"context"

	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/core/ports/driving"
	"github.com/custodia-labs/parasol/internal/logger"
)

// Ensure CorpusService implements the interface.
var _ driving.CorpusService = (*CorpusService)(nil)

// CorpusService runs the read-only half of the pipeline: scan, analyse,
// classify and plan.
type CorpusService struct {
	scanner    driving.CorpusScanner
	analyzer   driving.SharingAnalyzer
	classifier driving.LayerClassifier
	planner    driving.MigrationPlanner
}

// NewCorpusService creates a corpus service.
func NewCorpusService(
	scanner driving.CorpusScanner,
	analyzer driving.SharingAnalyzer,
	classifier driving.LayerClassifier,
	planner driving.MigrationPlanner,
) *CorpusService {
	return &CorpusService{
		scanner:    scanner,
		analyzer:   analyzer,
		classifier: classifier,
		planner:    planner,
	}
}

// Inspect scans the corpus and analyses the documents inside scope.
// Scan errors are part of the report.
func (s *CorpusService) Inspect(ctx context.Context, root string, scope domain.Scope) (*driving.CorpusReport, error) {
	result, err := s.scanner.Scan(ctx, root)
	if err != nil {
		return nil, err
	}

	var docs []domain.Document
	for _, d := range result.Documents {
		if scope.Contains(d) {
			docs = append(docs, d)
		}
	}

	report := &driving.CorpusReport{
		Scan:            result,
		Sharing:         s.analyzer.Analyze(docs),
		Classifications: s.classifier.ClassifyAll(docs),
	}
	logger.Info("Inspected %d documents: %d duplicate clusters, %d scan errors",
		len(docs), len(report.Sharing.SharedCandidates), len(result.Errors))
	return report, nil
}

// Plan inspects the whole corpus and returns its migration plan.
func (s *CorpusService) Plan(ctx context.Context, root string) (*domain.MigrationPlan, error) {
	report, err := s.Inspect(ctx, root, domain.Scope{})
	if err != nil {
		return nil, err
	}
	plan := s.planner.Plan(report.Classifications, report.Sharing)
	logger.Info("Plan complexity %d (%s)", plan.Complexity.Score, plan.Complexity.Level)
	return &plan, nil
}
