// Command parasol migrates and classifies a Parasol document corpus.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/parasol/internal/adapters/driven/backup"
	"github.com/custodia-labs/parasol/internal/adapters/driven/config/file"
	"github.com/custodia-labs/parasol/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/parasol/internal/adapters/driving/cli"
	"github.com/custodia-labs/parasol/internal/connectors/filesystem"
	"github.com/custodia-labs/parasol/internal/core/services"
	"github.com/custodia-labs/parasol/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetServiceFactory(buildServices)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildServices wires the driven adapters into the core services.
func buildServices(opts cli.Options) (*cli.Services, func(), error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings := settingsService.Load()
	if opts.Root != "" {
		settings.Corpus.Root = opts.Root
	}
	settings.Corpus.Root = filesystem.ResolveRoot(settings.Corpus.Root)
	configErr := settings.Validate()
	if configErr != nil {
		logger.Warn("Invalid configuration: %v", configErr)
	}

	store, err := sqlite.NewStore(settings.Storage.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening record store: %w", err)
	}
	logger.Debug("Record store at %s", store.Path())

	corpus := filesystem.New()
	snapshots := backup.NewStore(settings.BackupDir())
	scanner := services.NewScanner(corpus, settings.Corpus.Parallelism)

	svc := &cli.Services{
		Corpus: services.NewCorpusService(
			scanner,
			services.NewAnalyzer(),
			services.NewClassifier(),
			services.NewPlanner(snapshots.Dir()),
		),
		Scanner:   scanner,
		Migrator:  services.NewMigrator(corpus, snapshots, services.NewMatcher(settings.Matcher.Threshold)),
		Snapshots: services.NewSnapshotService(snapshots),
		Publisher: services.NewPublisher(scanner, corpus, store),
		Tree:      services.NewTreeService(store),
		Settings:  settingsService,
		Config:    settings,
		ConfigErr: configErr,
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Error("closing record store: %v", err)
		}
	}
	return svc, cleanup, nil
}
