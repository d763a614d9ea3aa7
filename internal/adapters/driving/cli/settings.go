package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/parasol/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the settings stored in ~/.parasol/config.toml.

Keys:
  corpus.root         - corpus location (the directory holding services/)
  corpus.parallelism  - services scanned at once
  matcher.threshold   - similarity a page must exceed to pair with a use case
  backup.enabled      - snapshot the corpus before migrating
  backup.dir          - snapshot directory (default: beside the corpus root)
  storage.data_dir    - record store directory (default: ~/.parasol/data)`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	s, err := loadServices()
	if err != nil {
		return err
	}
	if s.Settings == nil {
		return fmt.Errorf("settings: %w", errServicesNotConfigured)
	}

	settings, validationErr := s.Settings.Get()
	p := paletteFor(cmd.OutOrStdout())

	printTitle(cmd, p, "Current Settings")
	cmd.Println()
	for _, key := range s.Settings.Keys() {
		printField(cmd, p, key, settingValue(settings, key))
	}
	cmd.Println()

	if validationErr != nil {
		cmd.Printf("%s %v\n", p.Warning.Render("Warning:"), validationErr)
		cmd.Println("Run 'parasol settings set <key> <value>' to fix configuration issues.")
	} else {
		cmd.Println(p.Success.Render("Configuration is valid."))
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	s, err := loadServices()
	if err != nil {
		return err
	}
	if s.Settings == nil {
		return fmt.Errorf("settings: %w", errServicesNotConfigured)
	}

	key, value := args[0], args[1]
	if err := s.Settings.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("%s = %s\n", key, value)

	if _, err := s.Settings.Get(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

// settingValue formats one setting for display.
func settingValue(settings domain.Settings, key string) string {
	switch key {
	case "corpus.root":
		return settings.Corpus.Root
	case "corpus.parallelism":
		return strconv.Itoa(settings.Corpus.Parallelism)
	case "matcher.threshold":
		return strconv.FormatFloat(settings.Matcher.Threshold, 'g', -1, 64)
	case "backup.enabled":
		return strconv.FormatBool(settings.Backup.Enabled)
	case "backup.dir":
		if settings.Backup.Dir == "" {
			return settings.BackupDir() + " (default)"
		}
		return settings.Backup.Dir
	case "storage.data_dir":
		if settings.Storage.DataDir == "" {
			return "(default)"
		}
		return settings.Storage.DataDir
	default:
		return ""
	}
}
