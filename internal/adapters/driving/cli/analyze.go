package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/core/ports/driving"
)

var (
	analyzeJSON       bool
	analyzeService    string
	analyzeCapability string
	analyzeOperation  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyse sharing and classify documents",
	Long: `Scans the corpus, groups use cases and pages by display name to find
documents duplicated across operations, and recommends a sharing layer
(global, operation or usecase) for each document.

Use --service, --capability and --operation to narrow the analysis.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the report as JSON")
	analyzeCmd.Flags().StringVar(&analyzeService, "service", "", "restrict to one service")
	analyzeCmd.Flags().StringVar(&analyzeCapability, "capability", "", "restrict to one capability")
	analyzeCmd.Flags().StringVar(&analyzeOperation, "operation", "", "restrict to one operation")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	s, err := loadConfiguredServices()
	if err != nil {
		return err
	}

	scope := domain.Scope{
		ServiceID:    analyzeService,
		CapabilityID: analyzeCapability,
		OperationID:  analyzeOperation,
	}
	report, err := s.Corpus.Inspect(commandContext(cmd), s.Root(), scope)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		return writeJSON(cmd.OutOrStdout(), report)
	}
	outputAnalysis(cmd, report)
	return nil
}

func outputAnalysis(cmd *cobra.Command, report *driving.CorpusReport) {
	p := paletteFor(cmd.OutOrStdout())
	sharing := report.Sharing

	printTitle(cmd, p, "Sharing Analysis")
	printField(cmd, p, "Documents", len(report.Scan.Documents))
	printField(cmd, p, "Scan errors", len(report.Scan.Errors))
	printField(cmd, p, "Use cases", sharing.TotalUseCases)
	printField(cmd, p, "Unique use cases", sharing.UniqueUseCases)
	printField(cmd, p, "Shared clusters", len(sharing.SharedCandidates))
	printField(cmd, p, "Sharing reduction", sharing.SharingReduction)
	cmd.Println()

	counts := report.LayerCounts()
	printTitle(cmd, p, "Layers")
	for _, layer := range []domain.Layer{domain.LayerGlobal, domain.LayerOperation, domain.LayerUseCase} {
		printField(cmd, p, layer.String(), counts[layer])
	}

	if len(sharing.ConsolidationCandidates) > 0 {
		cmd.Println()
		printTitle(cmd, p, "Consolidation Candidates")
		for _, c := range sharing.ConsolidationCandidates {
			cmd.Printf("  %s (%s, %d occurrences): %s\n", c.DisplayName, c.ConsolidationType, c.Occurrences, c.RecommendedAction)
		}
	}

	var low []domain.ClassificationResult
	for _, c := range report.Classifications {
		if c.IsLowConfidence() {
			low = append(low, c)
		}
	}
	if len(low) > 0 {
		cmd.Println()
		printTitle(cmd, p, "Needs Review")
		for _, c := range low {
			cmd.Printf("  %s  %s %s\n", c.Document.DisplayName, c.RecommendedLayer,
				p.Warning.Render(fmt.Sprintf("(%.2f)", c.Confidence)))
		}
	}
}
