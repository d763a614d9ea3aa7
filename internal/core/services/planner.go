package services

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/core/ports/driving"
)

// Ensure Planner implements the interface.
var _ driving.MigrationPlanner = (*Planner)(nil)

// Complexity weights and thresholds.
const (
	weightUseCase   = 3
	weightOperation = 2
	weightGlobal    = 1
	weightDuplicate = 2

	lowComplexityBelow    = 100
	mediumComplexityBelow = 300

	globalImpactAbove   = 10
	duplicateRiskAbove  = 20
	operationSplitAbove = 30
)

type phaseTemplate struct {
	name        string
	layer       domain.Layer
	risk        domain.RiskLevel
	description string
	steps       []string
}

// phaseTemplates go from the narrowest layer to the widest.
var phaseTemplates = [3]phaseTemplate{
	{
		name:        "Use case layer",
		layer:       domain.LayerUseCase,
		risk:        domain.RiskLow,
		description: "Move pages used by a single use case into usecases/<slug>/ pairs",
		steps: []string{
			"Create usecases/<slug>/ for every ideal use case",
			"Write usecase.md and page.md for each pair",
			"Remove pages/ and loose usecases/*.md",
		},
	},
	{
		name:        "Operation layer",
		layer:       domain.LayerOperation,
		risk:        domain.RiskMedium,
		description: "Share list, search, submission and approval pages across one operation",
		steps: []string{
			"Merge duplicate pages within each operation",
			"Point use cases at the shared operation page",
			"Verify no use case lost its page",
		},
	},
	{
		name:        "Global layer",
		layer:       domain.LayerGlobal,
		risk:        domain.RiskHigh,
		description: "Promote login, dashboard, notification and error pages to the global layer",
		steps: []string{
			"List every consumer of each global page",
			"Move global pages and update references",
			"Review the change with every affected service",
		},
	},
}

var timelines = map[domain.RiskLevel]domain.Timeline{
	domain.RiskLow:    {Level: domain.RiskLow, Estimate: "3-5 days", Phase1: "1 day", Phase2: "1-2 days", Phase3: "1-2 days"},
	domain.RiskMedium: {Level: domain.RiskMedium, Estimate: "1-2 weeks", Phase1: "2-3 days", Phase2: "3-4 days", Phase3: "3-5 days"},
	domain.RiskHigh:   {Level: domain.RiskHigh, Estimate: "2-3 weeks", Phase1: "3-5 days", Phase2: "1 week", Phase3: "1 week"},
}

// Planner builds the phased migration plan. It never touches the corpus.
type Planner struct {
	backupLocation string
}

// NewPlanner creates a planner. The backup location is reported in
// the plan's backup section.
func NewPlanner(backupLocation string) *Planner {
	return &Planner{backupLocation: backupLocation}
}

// Plan partitions the classified documents into three phases by layer and
// scores the migration. Equal input gives an equal plan.
func (p *Planner) Plan(classified []domain.ClassificationResult, sharing domain.SharingAnalysis) domain.MigrationPlan {
	var plan domain.MigrationPlan
	for i, t := range phaseTemplates {
		plan.Phases[i] = domain.Phase{
			Number:      i + 1,
			Name:        t.name,
			Layer:       t.layer,
			Description: t.description,
			Risk:        t.risk,
			Pages:       []domain.PlannedPage{},
			Steps:       t.steps,
		}
	}

	layers := make(map[string]domain.Layer, len(classified))
	lowConfidence := 0
	for _, c := range classified {
		layers[c.Document.Path] = c.RecommendedLayer
		if c.IsLowConfidence() {
			lowConfidence++
		}
		n := c.RecommendedLayer.Phase()
		if n == 0 {
			continue
		}
		phase := &plan.Phases[n-1]
		phase.Pages = append(phase.Pages, domain.PlannedPage{
			Path:        c.Document.Path,
			DisplayName: c.Document.DisplayName,
			ServiceID:   c.Document.ServiceID,
			OperationID: c.Document.OperationID,
			Confidence:  c.Confidence,
		})
		phase.PageCount++
	}

	plan.Analysis = domain.PlanAnalysis{
		TotalPages:         len(classified),
		DuplicatePages:     sharing.DuplicateDocuments(),
		Layer1Candidates:   plan.Phases[0].PageCount,
		Layer2Candidates:   plan.Phases[1].PageCount,
		Layer3Candidates:   plan.Phases[2].PageCount,
		ConflictsToResolve: conflicts(sharing, layers),
	}
	plan.Complexity = complexity(plan.Analysis, lowConfidence)
	plan.Timeline = timelines[plan.Complexity.Level]
	plan.BackupPlan = domain.BackupPlan{
		Strategy: "full-copy",
		Location: p.backupLocation,
		Steps: []string{
			"Copy the corpus tree into a timestamped backup directory",
			"Write manifest.json with timestamp, original path and migration version",
			"Keep the backup until the migration is verified",
		},
	}
	return plan
}

// conflicts counts clusters whose members were classified into more than one layer.
func conflicts(sharing domain.SharingAnalysis, layers map[string]domain.Layer) int {
	n := 0
	for _, c := range sharing.SharedCandidates {
		seen := make(map[domain.Layer]bool)
		for _, m := range c.Members {
			if l, ok := layers[m.Path]; ok {
				seen[l] = true
			}
		}
		if len(seen) > 1 {
			n++
		}
	}
	return n
}

// ComplexityScore returns the weighted complexity of an analysis.
func ComplexityScore(a domain.PlanAnalysis) int {
	return weightUseCase*a.Layer1Candidates +
		weightOperation*a.Layer2Candidates +
		weightGlobal*a.Layer3Candidates +
		weightDuplicate*a.DuplicatePages
}

// ComplexityLevel maps a complexity score to a risk level.
func ComplexityLevel(score int) domain.RiskLevel {
	switch {
	case score < lowComplexityBelow:
		return domain.RiskLow
	case score < mediumComplexityBelow:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}

func complexity(a domain.PlanAnalysis, lowConfidence int) domain.Complexity {
	score := ComplexityScore(a)
	c := domain.Complexity{
		Score:           score,
		Level:           ComplexityLevel(score),
		RiskFactors:     []string{},
		Recommendations: []string{"Run a dry run and review the mappings before migrating"},
	}

	if a.Layer3Candidates > globalImpactAbove {
		c.RiskFactors = append(c.RiskFactors,
			fmt.Sprintf("%d global pages: requires full-service impact analysis", a.Layer3Candidates))
		c.Recommendations = append(c.Recommendations, "Run a full-service impact analysis before phase 3")
	}
	if a.DuplicatePages > duplicateRiskAbove {
		c.RiskFactors = append(c.RiskFactors,
			fmt.Sprintf("%d duplicate pages across operations", a.DuplicatePages))
		c.Recommendations = append(c.Recommendations, "Consolidate duplicates into shared-usecases before phase 2")
	}
	if a.Layer2Candidates > operationSplitAbove {
		c.RiskFactors = append(c.RiskFactors,
			fmt.Sprintf("%d operation-level pages", a.Layer2Candidates))
		c.Recommendations = append(c.Recommendations, "Split phase 2 into one batch per operation")
	}
	if a.ConflictsToResolve > 0 {
		c.RiskFactors = append(c.RiskFactors,
			fmt.Sprintf("%d duplicate clusters span more than one layer", a.ConflictsToResolve))
		c.Recommendations = append(c.Recommendations, "Decide one layer per duplicate cluster before phase 1")
	}
	if lowConfidence > 0 {
		c.RiskFactors = append(c.RiskFactors,
			fmt.Sprintf("%d classifications below %.1f confidence", lowConfidence, domain.LowConfidence))
		c.Recommendations = append(c.Recommendations, "Review low-confidence classifications by hand")
	}
	if c.Level == domain.RiskHigh {
		c.Recommendations = append(c.Recommendations, "Migrate one service at a time")
	}
	return c
}

// EncodeReport writes the plan in its report shape as indented JSON.
func EncodeReport(w io.Writer, plan domain.MigrationPlan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(plan.Report()); err != nil {
		return fmt.Errorf("encode plan report: %w", err)
	}
	return nil
}

// DecodeReport reads a plan report produced by EncodeReport or by the
// web application.
func DecodeReport(r io.Reader) (domain.MigrationPlan, error) {
	var report domain.PlanReport
	if err := json.NewDecoder(r).Decode(&report); err != nil {
		return domain.MigrationPlan{}, fmt.Errorf("%w: decode plan report: %w", domain.ErrInvalidInput, err)
	}
	return report.Plan(), nil
}
