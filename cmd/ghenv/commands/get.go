package commands

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/systmms/ghenv/internal/config"
)

func NewGetCommand(cfg *config.Config) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Write remote entries to a local .env file",
		Long: `Fetch all entries from the repository's remote store and write them
to a .env file.

Variables are written with their values. Secret values cannot be
retrieved from GitHub, so the secrets store yields a template with
blank values to fill in manually; an existing file keeps the values
you already filled in, and only new names are appended. An empty
remote store never overwrites an existing file.

Examples:
  ghenv get                          # secrets template into .env
  ghenv get --store variables       # variables with values
  ghenv get -f .env.production --repo acme/widgets`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cli := newCLI(cfg)
			store, err := selectStore(cfg, cli)
			if err != nil {
				return err
			}
			opts, err := engineOptions(cfg, false)
			if err != nil {
				return err
			}

			engine := buildEngine(cfg, cli)
			defer flushMetrics(cfg, engine)

			ctx := context.Background()
			result, err := engine.Get(ctx, store, targetFile(file, cfg), opts)
			if err != nil {
				return err
			}

			if result.Entries == 0 {
				cfg.Logger.Info("No %s found in %s.", result.Store, result.Repo)
				return nil
			}

			if result.Capability.CanReadValues() {
				cfg.Logger.Info("Wrote %d variable(s) to %s", result.Entries, result.File)
				warnReadableValues(cfg.Logger)
				return nil
			}

			cfg.Logger.Info("Note: secret values cannot be retrieved from GitHub.")
			if result.Merged {
				cfg.Logger.Info("Merged %d secret name(s) into %s", result.Entries, result.File)
			} else {
				cfg.Logger.Info("Wrote %d secret name(s) to %s", result.Entries, result.File)
			}
			cfg.Logger.Info("Please fill in the values manually.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Output file path (default .env)")

	return cmd
}
