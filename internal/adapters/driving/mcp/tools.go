package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/parasol/internal/core/domain"
)

// AnalyzeInput is the input schema for the analyze_corpus tool.
type AnalyzeInput struct {
	Root         string `json:"root,omitempty" jsonschema:"corpus root directory (defaults to the configured root)"`
	ServiceID    string `json:"service_id,omitempty" jsonschema:"restrict the analysis to one service"`
	CapabilityID string `json:"capability_id,omitempty" jsonschema:"restrict the analysis to one capability"`
	OperationID  string `json:"operation_id,omitempty" jsonschema:"restrict the analysis to one operation"`
}

// AnalyzeOutput is the output schema for the analyze_corpus tool.
type AnalyzeOutput struct {
	Documents        int                             `json:"documents"`
	ScanErrors       []string                        `json:"scan_errors,omitempty"`
	TotalUseCases    int                             `json:"total_use_cases"`
	UniqueUseCases   int                             `json:"unique_use_cases"`
	SharingReduction int                             `json:"sharing_reduction"`
	Layers           map[string]int                  `json:"layers"`
	Consolidation    []domain.ConsolidationCandidate `json:"consolidation_candidates"`
	LowConfidence    []ClassificationOutput          `json:"low_confidence,omitempty"`
}

// ClassificationOutput represents a classification needing review.
type ClassificationOutput struct {
	Path       string   `json:"path"`
	Name       string   `json:"name"`
	Layer      string   `json:"layer"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons"`
}

// PlanInput is the input schema for the plan_migration tool.
type PlanInput struct {
	Root string `json:"root,omitempty" jsonschema:"corpus root directory (defaults to the configured root)"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_corpus",
		Description: "Find shared use cases and pages and recommend a sharing layer for each",
	}, s.handleAnalyze)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "plan_migration",
		Description: "Build the phased migration plan for the corpus",
	}, s.handlePlan)
}

func (s *Server) root(root string) (string, error) {
	if root != "" {
		return root, nil
	}
	if s.ports.Root != "" {
		return s.ports.Root, nil
	}
	return "", fmt.Errorf("%w: root is required", domain.ErrInvalidInput)
}

// handleAnalyze handles the analyze_corpus tool invocation.
func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, AnalyzeOutput, error) {
	root, err := s.root(input.Root)
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}

	scope := domain.Scope{
		ServiceID:    input.ServiceID,
		CapabilityID: input.CapabilityID,
		OperationID:  input.OperationID,
	}
	report, err := s.ports.Corpus.Inspect(ctx, root, scope)
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}

	output := AnalyzeOutput{
		Documents:        len(report.Scan.Documents),
		TotalUseCases:    report.Sharing.TotalUseCases,
		UniqueUseCases:   report.Sharing.UniqueUseCases,
		SharingReduction: report.Sharing.SharingReduction,
		Layers:           make(map[string]int),
		Consolidation:    report.Sharing.ConsolidationCandidates,
	}
	for _, e := range report.Scan.Errors {
		output.ScanErrors = append(output.ScanErrors, e.Error())
	}
	for layer, n := range report.LayerCounts() {
		output.Layers[layer.String()] = n
	}
	for _, c := range report.Classifications {
		if !c.IsLowConfidence() {
			continue
		}
		output.LowConfidence = append(output.LowConfidence, ClassificationOutput{
			Path:       c.Document.Path,
			Name:       c.Document.DisplayName,
			Layer:      c.RecommendedLayer.String(),
			Confidence: c.Confidence,
			Reasons:    c.Reasons,
		})
	}

	return nil, output, nil
}

// handlePlan handles the plan_migration tool invocation.
func (s *Server) handlePlan(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PlanInput,
) (*mcp.CallToolResult, domain.PlanReport, error) {
	root, err := s.root(input.Root)
	if err != nil {
		return nil, domain.PlanReport{}, err
	}

	plan, err := s.ports.Corpus.Plan(ctx, root)
	if err != nil {
		return nil, domain.PlanReport{}, err
	}
	return nil, plan.Report(), nil
}
