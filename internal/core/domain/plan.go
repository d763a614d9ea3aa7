package domain

// RiskLevel grades a phase or a whole migration.
type RiskLevel string

// Risk levels.
const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// PlanAnalysis summarises the corpus state a plan was built from.
type PlanAnalysis struct {
	TotalPages         int `json:"totalPages"`
	DuplicatePages     int `json:"duplicatePages"`
	Layer1Candidates   int `json:"layer1Candidates"`
	Layer2Candidates   int `json:"layer2Candidates"`
	Layer3Candidates   int `json:"layer3Candidates"`
	ConflictsToResolve int `json:"conflictsToResolve"`
}

// PlannedPage is one document scheduled in a phase.
type PlannedPage struct {
	Path        string  `json:"path"`
	DisplayName string  `json:"displayName"`
	ServiceID   string  `json:"serviceId"`
	OperationID string  `json:"operationId,omitempty"`
	Confidence  float64 `json:"confidence"`
}

// Phase is one step of the migration, covering a single layer.
type Phase struct {
	Number      int           `json:"number"`
	Name        string        `json:"name"`
	Layer       Layer         `json:"layer"`
	Description string        `json:"description"`
	PageCount   int           `json:"pageCount"`
	Risk        RiskLevel     `json:"risk"`
	Pages       []PlannedPage `json:"pages"`
	Steps       []string      `json:"steps"`
}

// BackupPlan describes how the corpus is protected before mutation.
type BackupPlan struct {
	Strategy string   `json:"strategy"`
	Location string   `json:"location"`
	Steps    []string `json:"steps"`
}

// Timeline maps the complexity level to duration estimates.
type Timeline struct {
	Level    RiskLevel `json:"level"`
	Estimate string    `json:"estimate"`
	Phase1   string    `json:"phase1"`
	Phase2   string    `json:"phase2"`
	Phase3   string    `json:"phase3"`
}

// Complexity is the weighted migration score with its explanation.
type Complexity struct {
	Score           int       `json:"score"`
	Level           RiskLevel `json:"level"`
	RiskFactors     []string  `json:"riskFactors"`
	Recommendations []string  `json:"recommendations"`
}

// MigrationPlan is the phased restructuring plan for a corpus.
// It is regenerated from live corpus state and never persisted.
type MigrationPlan struct {
	Analysis   PlanAnalysis `json:"analysis"`
	Phases     [3]Phase     `json:"phases"`
	BackupPlan BackupPlan   `json:"backupPlan"`
	Timeline   Timeline     `json:"timeline"`
	Complexity Complexity   `json:"complexity"`
}

// PhaseSet is the report form of the three phases.
type PhaseSet struct {
	Phase1 Phase `json:"phase1"`
	Phase2 Phase `json:"phase2"`
	Phase3 Phase `json:"phase3"`
}

// PlanReport is the JSON shape exposed to the web application's API handlers.
type PlanReport struct {
	Analysis   PlanAnalysis `json:"analysis"`
	Migration  PhaseSet     `json:"migration"`
	BackupPlan BackupPlan   `json:"backupPlan"`
	Timeline   Timeline     `json:"timeline"`
	Complexity *Complexity  `json:"complexity,omitempty"`
}

// Report converts the plan to its report shape.
func (p MigrationPlan) Report() PlanReport {
	complexity := p.Complexity
	return PlanReport{
		Analysis: p.Analysis,
		Migration: PhaseSet{
			Phase1: p.Phases[0],
			Phase2: p.Phases[1],
			Phase3: p.Phases[2],
		},
		BackupPlan: p.BackupPlan,
		Timeline:   p.Timeline,
		Complexity: &complexity,
	}
}

// Plan converts a report back into a plan.
func (r PlanReport) Plan() MigrationPlan {
	p := MigrationPlan{
		Analysis:   r.Analysis,
		Phases:     [3]Phase{r.Migration.Phase1, r.Migration.Phase2, r.Migration.Phase3},
		BackupPlan: r.BackupPlan,
		Timeline:   r.Timeline,
	}
	if r.Complexity != nil {
		p.Complexity = *r.Complexity
	}
	return p
}
