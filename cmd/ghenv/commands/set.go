package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/systmms/ghenv/internal/config"
)

func NewSetCommand(cfg *config.Config) *cobra.Command {
	var (
		file string
		yes  bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Push a local .env file to the remote store",
		Long: `Read a .env file and set each entry in the repository's remote store,
in file order. Entries with empty values are skipped.

Writing to the variables store asks for confirmation first, because
variable values stay readable by repository collaborators; pass --yes
to skip the prompt. The secrets store needs no confirmation.

The first failed write stops the run. Writes are idempotent, so
re-running after a failure is safe.

Examples:
  ghenv set                          # push .env as secrets
  ghenv set --store variables --yes
  ghenv set -f .env.production --repo acme/widgets`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cli := newCLI(cfg)
			store, err := selectStore(cfg, cli)
			if err != nil {
				return err
			}
			opts, err := engineOptions(cfg, yes)
			if err != nil {
				return err
			}

			engine := buildEngine(cfg, cli)
			defer flushMetrics(cfg, engine)

			path := targetFile(file, cfg)
			ctx := context.Background()
			result, err := engine.Set(ctx, store, path, opts)
			if err != nil {
				if result != nil && result.Failed != "" {
					kind := strings.TrimSuffix(result.Store, "s")
					cfg.Logger.Error("Stopped after %s %s failed: %d set, %d never attempted",
						kind, result.Failed, len(result.Succeeded), len(result.Remaining))
				}
				return err
			}

			kind := strings.TrimSuffix(result.Store, "s")
			switch {
			case len(result.Succeeded) == 0 && len(result.Skipped) == 0:
				cfg.Logger.Info("No entries found in %s.", path)
			case len(result.Succeeded) == 0:
				cfg.Logger.Warn("Nothing to set: all %d entries in %s have empty values.", len(result.Skipped), path)
			default:
				cfg.Logger.Info("Successfully set %d %s(s) in %s", len(result.Succeeded), kind, result.Repo)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Input file path (default .env)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
