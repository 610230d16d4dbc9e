package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gherrors "github.com/systmms/ghenv/internal/errors"
	"github.com/systmms/ghenv/internal/sync"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".ghenv.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestResolveDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Resolve(Flags{})

	require.NoError(t, err)
	assert.Equal(t, ".env", cfg.Path)
	assert.Equal(t, "secrets", cfg.Store)
	assert.Empty(t, cfg.Repo)
	assert.Empty(t, cfg.MetricsFile)
	assert.False(t, cfg.NonInteractive)
	assert.Equal(t, sync.DefaultPropagationDelay, cfg.Delay)
	assert.NotNil(t, cfg.Logger)
}

func TestResolveAppliesSettingsFile(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, `file: .env.production
store: variables
repo: acme/widgets
propagation_delay_seconds: 10
metrics_file: /var/lib/node_exporter/ghenv.prom
`)

	cfg, err := Resolve(Flags{SettingsPath: path})

	require.NoError(t, err)
	assert.Equal(t, ".env.production", cfg.Path)
	assert.Equal(t, "variables", cfg.Store)
	assert.Equal(t, "acme/widgets", cfg.Repo)
	assert.Equal(t, "/var/lib/node_exporter/ghenv.prom", cfg.MetricsFile)
	assert.Equal(t, 10*time.Second, cfg.Delay)
}

func TestResolveFlagsWinOverSettings(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, `file: .env.production
store: variables
repo: acme/widgets
`)

	cfg, err := Resolve(Flags{
		SettingsPath:   path,
		File:           ".env.local",
		Store:          "secrets",
		Repo:           "other/repo",
		NonInteractive: true,
	})

	require.NoError(t, err)
	assert.Equal(t, ".env.local", cfg.Path)
	assert.Equal(t, "secrets", cfg.Store)
	assert.Equal(t, "other/repo", cfg.Repo)
	assert.True(t, cfg.NonInteractive)
}

func TestResolveZeroDelay(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, "propagation_delay_seconds: 0\n")

	cfg, err := Resolve(Flags{SettingsPath: path})

	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.Delay)
}

func TestLoadSettingsMissingDefaultFile(t *testing.T) {
	t.Parallel()

	// No .ghenv.yaml exists in the package directory.
	settings, err := LoadSettings("")

	require.NoError(t, err)
	assert.Equal(t, &Settings{}, settings)
}

func TestLoadSettingsMissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))

	var cfgErr gherrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Message, "not found")
}

func TestLoadSettingsEmptyFile(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, "")

	settings, err := LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, &Settings{}, settings)
}

func TestLoadSettingsInvalidYAML(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, "store: [unclosed\n")

	_, err := LoadSettings(path)

	var cfgErr gherrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Message, "invalid YAML syntax")
}

func TestLoadSettingsSchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "unknown key",
			content: "stroe: variables\n",
		},
		{
			name:    "store outside enum",
			content: "store: environments\n",
		},
		{
			name:    "negative delay",
			content: "propagation_delay_seconds: -1\n",
		},
		{
			name:    "delay not an integer",
			content: "propagation_delay_seconds: soon\n",
		},
		{
			name:    "repo without owner",
			content: "repo: widgets\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeSettings(t, tt.content)

			_, err := LoadSettings(path)

			var cfgErr gherrors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, cfgErr.Message, "invalid settings")
		})
	}
}

func TestLoadSettingsPartialFile(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, "store: variables\n")

	settings, err := LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, "variables", settings.Store)
	assert.Empty(t, settings.File)
	assert.Nil(t, settings.PropagationDelaySeconds)
}
