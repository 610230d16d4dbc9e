// Package config assembles the runtime configuration shared by all
// ghenv commands from persistent flags and the optional .ghenv.yaml
// settings file. Flags win over the settings file, which wins over
// built-in defaults.
package config

import (
	"time"

	"github.com/systmms/ghenv/internal/logging"
	"github.com/systmms/ghenv/internal/sync"
	pkgexec "github.com/systmms/ghenv/pkg/exec"
)

const (
	// DefaultEnvFile is the dotenv file synced when none is configured.
	DefaultEnvFile = ".env"
	// DefaultStore is the remote store used when none is configured.
	DefaultStore = "secrets"
	// DefaultSettingsPath is where LoadSettings looks without --config.
	DefaultSettingsPath = ".ghenv.yaml"
)

// Config holds the runtime configuration
type Config struct {
	Path           string // dotenv file to sync
	Logger         *logging.Logger
	Store          string // "secrets" or "variables"
	Repo           string // optional OWNER/NAME override
	NonInteractive bool
	MetricsFile    string
	// Delay is the testconf propagation wait, settable to zero.
	Delay time.Duration
	// Executor overrides the gh subprocess runner when set. Command
	// tests inject a mock here; production leaves it nil.
	Executor pkgexec.CommandExecutor
}

// Flags carries the raw persistent flag values before the settings
// file is merged in. Empty strings mean the flag was not given.
type Flags struct {
	SettingsPath   string
	File           string
	Store          string
	Repo           string
	MetricsFile    string
	Debug          bool
	NoColor        bool
	NonInteractive bool
}

// Resolve loads the settings file named by the flags (or the default
// one) and builds the runtime configuration.
func Resolve(flags Flags) (*Config, error) {
	settings, err := LoadSettings(flags.SettingsPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Logger:         logging.New(flags.Debug, flags.NoColor),
		Path:           firstNonEmpty(flags.File, settings.File, DefaultEnvFile),
		Store:          firstNonEmpty(flags.Store, settings.Store, DefaultStore),
		Repo:           firstNonEmpty(flags.Repo, settings.Repo),
		MetricsFile:    firstNonEmpty(flags.MetricsFile, settings.MetricsFile),
		NonInteractive: flags.NonInteractive,
		Delay:          sync.DefaultPropagationDelay,
	}

	if settings.PropagationDelaySeconds != nil {
		cfg.Delay = time.Duration(*settings.PropagationDelaySeconds) * time.Second
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
