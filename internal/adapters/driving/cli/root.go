// Package cli provides the cobra commands of the parasol binary.
// Commands drive core services through driving ports; main injects
// the concrete wiring with SetServiceFactory.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/core/ports/driving"
	"github.com/custodia-labs/parasol/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// errServicesNotConfigured is returned when a command runs without wiring.
var errServicesNotConfigured = errors.New("services not configured")

// Services holds the core services the commands drive.
type Services struct {
	Corpus    driving.CorpusService
	Scanner   driving.CorpusScanner
	Migrator  driving.Migrator
	Snapshots driving.SnapshotService
	Publisher driving.Publisher
	Tree      driving.TreeService
	Settings  driving.SettingsService

	// Config is the resolved configuration, flags applied.
	Config domain.Settings

	// ConfigErr is set when Config failed validation. Only the
	// settings commands run with an invalid configuration.
	ConfigErr error
}

// Root returns the corpus root commands operate on.
func (s *Services) Root() string {
	return s.Config.Corpus.Root
}

// Options carries the global flag values to the service factory.
type Options struct {
	ConfigDir string
	Root      string
	Verbose   bool
}

// ServiceFactory builds the services once flags are parsed.
// The returned cleanup releases stores and may be nil.
type ServiceFactory func(opts Options) (*Services, func(), error)

var (
	serviceFactory ServiceFactory
	activeServices *Services
	closeServices  func()

	rootFlag      string
	configDirFlag string
	verboseFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "parasol",
	Short: "Migrate and classify a Parasol document corpus",
	Long: `Parasol scans a services/capabilities/operations corpus of markdown
documents, detects pages and use cases shared across operations, recommends
a sharing layer for each, plans a phased migration and restructures legacy
operations into the one use case per page layout.

Configuration is read from ~/.parasol/config.toml. Flags override it.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "corpus root (overrides corpus.root)")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "configuration directory (default ~/.parasol)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.SetOut(os.Stdout)
}

// SetServiceFactory registers the function that wires services.
func SetServiceFactory(factory ServiceFactory) {
	serviceFactory = factory
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Interrupts cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer releaseServices()

	return rootCmd.ExecuteContext(ctx)
}

// loadServices builds the services on first use.
func loadServices() (*Services, error) {
	if activeServices != nil {
		return activeServices, nil
	}
	if serviceFactory == nil {
		return nil, errServicesNotConfigured
	}

	s, cleanup, err := serviceFactory(Options{
		ConfigDir: configDirFlag,
		Root:      rootFlag,
		Verbose:   verboseFlag,
	})
	if err != nil {
		return nil, fmt.Errorf("initialising services: %w", err)
	}
	activeServices = s
	closeServices = cleanup
	return activeServices, nil
}

// loadConfiguredServices is loadServices for commands that need a
// valid configuration.
func loadConfiguredServices() (*Services, error) {
	s, err := loadServices()
	if err != nil {
		return nil, err
	}
	if s.ConfigErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", s.ConfigErr)
	}
	return s, nil
}

func releaseServices() {
	if closeServices != nil {
		closeServices()
	}
	closeServices = nil
	activeServices = nil
}

// commandContext returns the command context, or Background outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
