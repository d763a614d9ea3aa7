package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/parasol/internal/connectors/filesystem"
	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/logger"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the analysis when the corpus changes",
	Long: `Runs the sharing analysis, then watches the corpus and runs it again
whenever a document is created, changed or removed. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", filesystem.DefaultDebounce,
		"wait this long after the last change before re-running")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	s, err := loadConfiguredServices()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	root := s.Root()
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return fmt.Errorf("failed to watch %s: %w", root, domain.ErrNotFound)
	}

	analyse := func() {
		report, err := s.Corpus.Inspect(ctx, root, domain.Scope{})
		if err != nil {
			logger.Error("Analysis failed: %v", err)
			return
		}
		outputAnalysis(cmd, report)
	}

	watcher, err := filesystem.NewWatcher(root, watchDebounce)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	defer watcher.Close()

	analyse()
	cmd.Printf("\nWatching %s for changes...\n", watcher.Root())

	return watcher.Run(ctx, func(paths []string) {
		cmd.Printf("\n%d changed: %s\n\n", len(paths), paths[0])
		analyse()
	})
}
