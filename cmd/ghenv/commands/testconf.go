package commands

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/systmms/ghenv/internal/config"
)

func NewTestConfCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "testconf",
		Short: "Test the GitHub connection end to end",
		Long: `Verify the whole configuration by round-tripping a throwaway entry
through the remote store: check gh authentication, resolve the
repository, create a test entry, wait for it to propagate, verify it
is visible (and that its value reads back intact for variables), then
delete it.

The test entry is deleted whether the test passes or fails.

Examples:
  ghenv testconf
  ghenv testconf --store variables --repo acme/widgets`,
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
			if version, err := cli.Version(ctx); err == nil {
				cfg.Logger.Info("Using %s", version)
			}

			result, err := engine.TestConf(ctx, store, opts)
			if err != nil {
				return err
			}
			if result.CleanupFailed {
				cfg.Logger.Warn("Test passed, but the probe entry %s may still exist; delete it manually.", result.Probe)
			}

			cfg.Logger.Info("All tests passed! Configuration is working correctly.")
			return nil
		},
	}

	return cmd
}
