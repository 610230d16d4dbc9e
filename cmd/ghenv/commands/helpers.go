// Package commands implements the ghenv subcommands. Each command is a
// thin cobra wrapper that assembles the sync engine, runs one operation
// and renders its result; the operation semantics live in internal/sync.
package commands

import (
	"time"

	"github.com/systmms/ghenv/internal/config"
	gherrors "github.com/systmms/ghenv/internal/errors"
	"github.com/systmms/ghenv/internal/github"
	"github.com/systmms/ghenv/internal/logging"
	"github.com/systmms/ghenv/internal/metrics"
	"github.com/systmms/ghenv/internal/sync"
)

// variablesDocsURL explains the visibility model of repository variables.
const variablesDocsURL = "https://docs.github.com/en/actions/learn-github-actions/variables#creating-configuration-variables-for-a-repository"

// newCLI builds the gh runner, honoring the executor override used by
// tests to avoid spawning real processes.
func newCLI(cfg *config.Config) *github.CLI {
	if cfg.Executor != nil {
		return github.NewCLIWithExecutor(cfg.Logger, cfg.Executor)
	}
	return github.NewCLI(cfg.Logger)
}

// selectStore maps the configured store name to a gh-backed store.
func selectStore(cfg *config.Config, cli *github.CLI) (github.Store, error) {
	switch cfg.Store {
	case "secrets":
		return github.NewSecretStore(cli), nil
	case "variables":
		return github.NewVariableStore(cli), nil
	default:
		return nil, gherrors.ConfigError{
			Field:      "store",
			Value:      cfg.Store,
			Message:    "unknown store",
			Suggestion: `Use --store secrets or --store variables`,
		}
	}
}

// buildEngine assembles a sync engine wired to the shared configuration.
func buildEngine(cfg *config.Config, cli *github.CLI) *sync.Engine {
	engine := sync.NewEngine(cli, cfg.Logger)
	engine.Delay = cfg.Delay
	engine.Metrics = metrics.NewRecorder()
	return engine
}

// engineOptions converts the shared configuration and the per-command
// yes flag into per-call options, parsing the repository override.
func engineOptions(cfg *config.Config, yes bool) (sync.Options, error) {
	opts := sync.Options{Yes: yes, NonInteractive: cfg.NonInteractive}

	if cfg.Repo != "" {
		repo, err := github.ParseRepository(cfg.Repo)
		if err != nil {
			return sync.Options{}, gherrors.ConfigError{
				Field:      "repo",
				Value:      cfg.Repo,
				Message:    "invalid repository",
				Suggestion: "Use the OWNER/NAME form, for example --repo acme/widgets",
			}
		}
		opts.Repo = repo
	}

	return opts, nil
}

// flushMetrics writes the collected metrics to the configured textfile.
// A write failure is a warning: metrics never change the operation's
// outcome.
func flushMetrics(cfg *config.Config, engine *sync.Engine) {
	if cfg.MetricsFile == "" {
		return
	}
	if err := engine.Metrics.WriteFile(cfg.MetricsFile); err != nil {
		cfg.Logger.Warn("Failed to write metrics to %s: %v", cfg.MetricsFile, err)
	}
}

// targetFile picks the command-local file override when given, falling
// back to the configured path.
func targetFile(override string, cfg *config.Config) string {
	if override != "" {
		return override
	}
	return cfg.Path
}

// warnReadableValues follows every command that exposes variable values.
func warnReadableValues(logger *logging.Logger) {
	logger.Warn("Variable values are retrievable via API and may be visible to repository collaborators!")
	logger.Warn("See %s for more info.", variablesDocsURL)
}

// formatTime renders a remote timestamp, or a dash when the platform
// did not report one.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339)
}
