package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/systmms/ghenv/internal/config"
)

func NewListCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List remote entries without touching any file",
		Long: `List the entries in the repository's remote store.

Variables are listed with their values and timestamps. Secrets are
write-only, so only their names and update times are shown.

Examples:
  ghenv list
  ghenv list --store variables --repo acme/widgets`,
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
			result, err := engine.List(ctx, store, opts)
			if err != nil {
				return err
			}

			if len(result.Entries) == 0 {
				cfg.Logger.Info("No %s found in %s.", result.Store, result.Repo)
				return nil
			}

			kind := strings.TrimSuffix(result.Store, "s")
			cfg.Logger.Info("Found %d %s(s) in %s", len(result.Entries), kind, result.Repo)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			if result.Capability.CanReadValues() {
				_, _ = fmt.Fprintf(w, "NAME\tVALUE\tUPDATED\n")
				for _, entry := range result.Entries {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", entry.Name, entry.Value, formatTime(entry.UpdatedAt))
				}
			} else {
				_, _ = fmt.Fprintf(w, "NAME\tUPDATED\n")
				for _, entry := range result.Entries {
					_, _ = fmt.Fprintf(w, "%s\t%s\n", entry.Name, formatTime(entry.UpdatedAt))
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if result.Capability.CanReadValues() {
				warnReadableValues(cfg.Logger)
			}
			return nil
		},
	}

	return cmd
}
