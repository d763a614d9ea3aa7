package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Write corpus records to the record store",
	Long: `Scans the corpus and writes one record per service, capability,
operation, use case and page to the record store. Records are upserted by
their natural key, so publishing twice is safe. Failures are reported per
record and do not stop the run.`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, _ []string) error {
	s, err := loadConfiguredServices()
	if err != nil {
		return err
	}

	result, err := s.Publisher.Publish(commandContext(cmd), s.Root())
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	p := paletteFor(cmd.OutOrStdout())
	printTitle(cmd, p, "Publish")
	printField(cmd, p, "Written", result.Written)
	printField(cmd, p, "Failed", result.Failed)
	for _, err := range result.Errors() {
		cmd.Printf("  %s\n", p.Error.Render(err.Error()))
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d records failed to publish", result.Failed)
	}
	return nil
}
