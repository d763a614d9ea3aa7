package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/parasol/internal/core/domain"
)

var planOutput string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build the phased migration plan",
	Long: `Builds the three-phase migration plan from the current corpus state and
prints it as a JSON report. Phase 1 covers use case specific pages, phase 2
operation shared pages and phase 3 global pages.

The plan is recomputed on every run and never stored.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planOutput, "output", "o", "", "write the report to a file instead of stdout")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	s, err := loadConfiguredServices()
	if err != nil {
		return err
	}

	plan, err := s.Corpus.Plan(commandContext(cmd), s.Root())
	if err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}

	if planOutput == "" {
		return writeJSON(cmd.OutOrStdout(), plan.Report())
	}

	f, err := os.Create(planOutput)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	if err := writeJSON(f, plan.Report()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing report file: %w", err)
	}

	outputPlanSummary(cmd, plan)
	cmd.Printf("\nReport written to %s\n", planOutput)
	return nil
}

func outputPlanSummary(cmd *cobra.Command, plan *domain.MigrationPlan) {
	p := paletteFor(cmd.OutOrStdout())

	printTitle(cmd, p, "Migration Plan")
	printField(cmd, p, "Pages", plan.Analysis.TotalPages)
	printField(cmd, p, "Duplicate pages", plan.Analysis.DuplicatePages)
	printField(cmd, p, "Conflicts", plan.Analysis.ConflictsToResolve)
	printField(cmd, p, "Complexity", fmt.Sprintf("%s (score %d)", plan.Complexity.Level, plan.Complexity.Score))
	printField(cmd, p, "Estimate", plan.Timeline.Estimate)
	for _, phase := range plan.Phases {
		printField(cmd, p, fmt.Sprintf("Phase %d", phase.Number),
			fmt.Sprintf("%s: %d pages, %s risk", phase.Name, phase.PageCount, phase.Risk))
	}
}
