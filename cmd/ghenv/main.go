package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/ghenv/cmd/ghenv/commands"
	"github.com/systmms/ghenv/internal/config"
	gherrors "github.com/systmms/ghenv/internal/errors"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		err = gherrors.SimplifyError(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := gherrors.SuggestionFor(err); hint != "" {
			fmt.Fprintf(os.Stderr, "  💡 Try: %s\n", hint)
		}
		os.Exit(1)
	}
}

func run() error {
	var flags config.Flags

	// Config placeholder, filled in once the persistent flags are parsed.
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "ghenv",
		Short: "Sync .env files with GitHub Actions secrets and variables",
		Long: `ghenv copies entries between a local .env file and your repository's
GitHub Actions secrets or variables, using the gh CLI for all GitHub
access. Secrets are write-only: ghenv can push values and list names
but never read values back. Variables are fully readable.

Authentication is delegated to the gh CLI; run 'gh auth login' first.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := config.Resolve(flags)
			if err != nil {
				return err
			}
			*cfg = *resolved
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.SettingsPath, "config", "", "Settings file path (default .ghenv.yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.Store, "store", "", "Remote store: secrets or variables (default secrets)")
	rootCmd.PersistentFlags().StringVar(&flags.Repo, "repo", "", "Repository as OWNER/NAME (default: current checkout)")
	rootCmd.PersistentFlags().StringVar(&flags.MetricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
	rootCmd.PersistentFlags().BoolVar(&flags.NoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flags.NonInteractive, "non-interactive", false, "Never prompt; fail where confirmation would be required")

	rootCmd.AddCommand(
		commands.NewGetCommand(cfg),
		commands.NewSetCommand(cfg),
		commands.NewTestConfCommand(cfg),
		commands.NewListCommand(cfg),
		commands.NewShowCommand(cfg),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd.Execute()
}
