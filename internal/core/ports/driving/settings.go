package driving

import "github.com/custodia-labs/parasol/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Load returns the stored settings with defaults applied, unvalidated.
	Load() domain.Settings

	// Get returns the current settings with defaults applied, and the
	// validation error when they are invalid.
	Get() (domain.Settings, error)

	// Set parses and stores one setting by key.
	Set(key, value string) error

	// Keys returns the recognised setting keys, in display order.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
