package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/ghenv/internal/config"
	gherrors "github.com/systmms/ghenv/internal/errors"
	"github.com/systmms/ghenv/internal/github"
)

func NewShowCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Show one remote variable with its value and timestamps",
		Long: `Fetch a single entry from the remote store and display its value and
created/updated timestamps.

Only the variables store supports this: secret values are write-only
and cannot be read back.

Examples:
  ghenv show DATABASE_URL --store variables
  ghenv show LOG_LEVEL --store variables --repo acme/widgets`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

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
			result, err := engine.Describe(ctx, store, name, opts)
			if err != nil {
				var capErr *github.CapabilityError
				if errors.As(err, &capErr) {
					return gherrors.UserError{
						Message:    fmt.Sprintf("Cannot show %q: secret values are write-only", name),
						Suggestion: "Use --store variables; GitHub never returns secret values",
						Err:        err,
					}
				}
				return err
			}

			entry := result.Entry
			fmt.Fprintf(os.Stdout, "Name: %s\n", entry.Name)
			fmt.Fprintf(os.Stdout, "Value: %s\n", entry.Value)
			fmt.Fprintf(os.Stdout, "Created: %s\n", formatTime(entry.CreatedAt))
			fmt.Fprintf(os.Stdout, "Updated: %s\n", formatTime(entry.UpdatedAt))

			warnReadableValues(cfg.Logger)
			return nil
		},
	}

	return cmd
}
