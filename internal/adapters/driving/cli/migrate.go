package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/parasol/internal/core/domain"
)

var (
	migrateDryRun      bool
	migrateNoBackup    bool
	migrateOperations  []string
	migrateDescription string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Restructure legacy operations",
	Long: `Converts every legacy operation (flat pages/ and usecases/ directories)
into one directory per use case holding usecase.md and page.md. Pages are
paired with use cases by name similarity; missing files are synthesized.

A snapshot of the corpus is taken first unless --no-backup is given or
backup.enabled is false. Use --dry-run to see what would change.

The command exits non-zero when any operation failed.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "derive mappings without touching the corpus")
	migrateCmd.Flags().BoolVar(&migrateNoBackup, "no-backup", false, "skip the pre-migration snapshot")
	migrateCmd.Flags().StringSliceVar(&migrateOperations, "operation", nil,
		"restrict to service/capability/operation keys (repeatable)")
	migrateCmd.Flags().StringVar(&migrateDescription, "description", "", "note stored in the snapshot manifest")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	s, err := loadConfiguredServices()
	if err != nil {
		return err
	}

	opts := domain.MigrationOptions{
		DryRun:         migrateDryRun,
		BackupOriginal: s.Config.Backup.Enabled && !migrateNoBackup,
		Description:    migrateDescription,
		Operations:     migrateOperations,
	}

	result, err := s.Migrator.Migrate(commandContext(cmd), s.Root(), opts)
	if result != nil {
		outputMigration(cmd, result)
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("migration finished with %d errors", len(result.Errors))
	}
	return nil
}

func outputMigration(cmd *cobra.Command, result *domain.MigrationResult) {
	p := paletteFor(cmd.OutOrStdout())

	title := "Migration"
	if result.DryRun {
		title = "Migration (dry run)"
	}
	printTitle(cmd, p, title)

	status := p.Success.Render("yes")
	if !result.Success {
		status = p.Error.Render("no")
	}
	printField(cmd, p, "Success", status)
	printField(cmd, p, "Operations processed", result.OperationsProcessed)
	printField(cmd, p, "Operations skipped", result.OperationsSkipped)
	printField(cmd, p, "Directories created", result.DirectoriesCreated)
	printField(cmd, p, "Files relocated", result.FilesRelocated)
	printField(cmd, p, "Files synthesized", result.FilesSynthesized)
	printField(cmd, p, "Errors", len(result.Errors))
	if result.BackupPath != "" {
		printField(cmd, p, "Backup", result.BackupPath)
	}
	if result.SnapshotID != "" {
		printField(cmd, p, "Snapshot", result.SnapshotID)
	}

	if result.DryRun {
		cmd.Println()
		for _, op := range result.Operations {
			if op.State == domain.StateSkipped {
				continue
			}
			cmd.Printf("  %s\n", op.Key())
			for _, m := range op.Mappings {
				page := p.Muted.Render("(synthesized page)")
				if m.Page != nil {
					page = m.Page.DisplayName
				}
				cmd.Printf("    usecases/%s: %s + %s\n", m.NewDirectoryName, m.UseCase.DisplayName, page)
			}
		}
	}

	for _, e := range result.Errors {
		cmd.Printf("  %s\n", p.Error.Render(e.Error()))
	}
}
