package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/parasol/internal/core/domain"
)

var scanJSON bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List corpus documents",
	Long: `Walks services/, capabilities/ and operations/ under the corpus root and
lists every document read. Missing directories are reported as scan errors
and do not stop the scan.`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "output the scan result as JSON")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, _ []string) error {
	s, err := loadConfiguredServices()
	if err != nil {
		return err
	}

	result, err := s.Scanner.Scan(commandContext(cmd), s.Root())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if scanJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	outputScan(cmd, result)
	return nil
}

func outputScan(cmd *cobra.Command, result *domain.ScanResult) {
	p := paletteFor(cmd.OutOrStdout())

	if len(result.Documents) == 0 {
		cmd.Println("No documents found.")
	} else {
		printTitle(cmd, p, fmt.Sprintf("Documents (%d)", len(result.Documents)))
		for i := range result.Documents {
			d := &result.Documents[i]
			cmd.Printf("  %-10s %s  %s\n", d.Kind, d.DisplayName, p.Muted.Render(d.Path))
		}
	}

	if len(result.Errors) > 0 {
		cmd.Println()
		printTitle(cmd, p, fmt.Sprintf("Scan errors (%d)", len(result.Errors)))
		for _, e := range result.Errors {
			cmd.Printf("  %s\n", p.Warning.Render(e.Error()))
		}
	}
}
