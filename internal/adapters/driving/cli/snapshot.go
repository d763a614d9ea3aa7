package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage pre-migration snapshots",
	Long: `Snapshots are full copies of the corpus taken before a migration.
They are never removed automatically.`,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotList,
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore [id]",
	Short: "Roll the corpus back to a snapshot",
	Long: `Replaces the corpus with the content of a snapshot. The snapshot is kept
so it can be restored again.`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshotRestore,
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotDelete,
}

func init() {
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotRestoreCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshotList(cmd *cobra.Command, _ []string) error {
	s, err := loadConfiguredServices()
	if err != nil {
		return err
	}

	snapshots, err := s.Snapshots.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	if len(snapshots) == 0 {
		cmd.Println("No snapshots.")
		return nil
	}

	p := paletteFor(cmd.OutOrStdout())
	printTitle(cmd, p, fmt.Sprintf("Snapshots (%d)", len(snapshots)))
	for i := range snapshots {
		snap := &snapshots[i]
		cmd.Printf("  %s  %s  %d files  %s\n",
			p.Label.Render(snap.ID),
			snap.Timestamp.Local().Format("2006-01-02 15:04:05"),
			snap.FileCount,
			snap.Description)
		cmd.Printf("    %s\n", p.Muted.Render(snap.OriginalPath))
	}
	return nil
}

func runSnapshotRestore(cmd *cobra.Command, args []string) error {
	s, err := loadConfiguredServices()
	if err != nil {
		return err
	}

	if err := s.Snapshots.Restore(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to restore snapshot: %w", err)
	}
	cmd.Printf("Restored snapshot %s\n", args[0])
	return nil
}

func runSnapshotDelete(cmd *cobra.Command, args []string) error {
	s, err := loadConfiguredServices()
	if err != nil {
		return err
	}

	if err := s.Snapshots.Delete(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	cmd.Printf("Deleted snapshot %s\n", args[0])
	return nil
}
