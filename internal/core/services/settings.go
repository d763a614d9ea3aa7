package services

import (
	"fmt"
	"strconv"

	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/core/ports/driven"
	"github.com/custodia-labs/parasol/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyCorpusRoot     = "corpus.root"
	KeyParallelism    = "corpus.parallelism"
	KeyMatchThreshold = "matcher.threshold"
	KeyBackupEnabled  = "backup.enabled"
	KeyBackupDir      = "backup.dir"
	KeyStorageDataDir = "storage.data_dir"
)

// settingKinds records how each key's string form is parsed.
var settingKinds = []struct {
	key  string
	kind string
}{
	{KeyCorpusRoot, "string"},
	{KeyParallelism, "int"},
	{KeyMatchThreshold, "float"},
	{KeyBackupEnabled, "bool"},
	{KeyBackupDir, "string"},
	{KeyStorageDataDir, "string"},
}

// SettingsService reads and writes the typed settings view of a config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Load returns the stored settings with defaults for missing keys.
// The result is not validated.
func (s *SettingsService) Load() domain.Settings {
	settings := domain.DefaultSettings()

	if v := s.configStore.GetString(KeyCorpusRoot); v != "" {
		settings.Corpus.Root = v
	}
	if _, ok := s.configStore.Get(KeyParallelism); ok {
		settings.Corpus.Parallelism = s.configStore.GetInt(KeyParallelism)
	}
	if _, ok := s.configStore.Get(KeyMatchThreshold); ok {
		settings.Matcher.Threshold = s.configStore.GetFloat(KeyMatchThreshold)
	}
	if _, ok := s.configStore.Get(KeyBackupEnabled); ok {
		settings.Backup.Enabled = s.configStore.GetBool(KeyBackupEnabled)
	}
	settings.Backup.Dir = s.configStore.GetString(KeyBackupDir)
	settings.Storage.DataDir = s.configStore.GetString(KeyStorageDataDir)
	return settings
}

// Get returns the current settings and their validation error, if any.
// The settings are returned even when invalid.
func (s *SettingsService) Get() (domain.Settings, error) {
	settings := s.Load()
	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// Set parses value according to the key's type and stores it.
func (s *SettingsService) Set(key, value string) error {
	kind := ""
	for _, k := range settingKinds {
		if k.key == key {
			kind = k.kind
		}
	}

	var parsed any
	var err error
	switch kind {
	case "string":
		parsed = value
	case "int":
		parsed, err = strconv.Atoi(value)
	case "float":
		parsed, err = strconv.ParseFloat(value, 64)
	case "bool":
		parsed, err = strconv.ParseBool(value)
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}
	return s.configStore.Set(key, parsed)
}

// Keys returns the recognised setting keys.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKinds))
	for i, k := range settingKinds {
		keys[i] = k.key
	}
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}
