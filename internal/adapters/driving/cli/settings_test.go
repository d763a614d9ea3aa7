package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/parasol/internal/core/domain"
)

func TestSettingsShow(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
	for _, key := range []string{
		"corpus.root", "corpus.parallelism", "matcher.threshold",
		"backup.enabled", "backup.dir", "storage.data_dir",
	} {
		assert.Contains(t, out, key+":")
	}
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsSet(t *testing.T) {
	env := setupTestServices(t)

	out, err := execute(t, "settings", "set", "corpus.parallelism", "8")

	require.NoError(t, err)
	assert.Contains(t, out, "corpus.parallelism = 8")
	assert.Equal(t, 8, env.config.GetInt("corpus.parallelism"))

	out, err = execute(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "8")
}

func TestSettingsSet_Invalid(t *testing.T) {
	setupTestServices(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"settings", "set", "search.mode", "full"}},
		{"not an int", []string{"settings", "set", "corpus.parallelism", "many"}},
		{"not a bool", []string{"settings", "set", "backup.enabled", "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSettingsSet_WarnsOnInvalidResult(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings", "set", "matcher.threshold", "1.5")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning:")
}

func TestSettingsShow_InvalidConfig(t *testing.T) {
	env := setupTestServices(t)
	require.NoError(t, env.config.Set("corpus.parallelism", 0))
	activeServices.ConfigErr = domain.ErrInvalidInput

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning:")
	assert.Contains(t, out, "parasol settings set")
}

func TestSettingValue(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Corpus.Root = "/docs/parasol"

	assert.Equal(t, "/docs/parasol", settingValue(settings, "corpus.root"))
	assert.Equal(t, "4", settingValue(settings, "corpus.parallelism"))
	assert.Equal(t, "0.3", settingValue(settings, "matcher.threshold"))
	assert.Equal(t, "true", settingValue(settings, "backup.enabled"))
	assert.Equal(t, "/docs/.parasol-backups (default)", settingValue(settings, "backup.dir"))
	assert.Equal(t, "(default)", settingValue(settings, "storage.data_dir"))
	assert.Empty(t, settingValue(settings, "unknown"))
}
