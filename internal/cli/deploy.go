package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/bridge/internal/app"
	"github.com/trebuchet-org/bridge/internal/cli/render"
	"github.com/trebuchet-org/bridge/internal/domain"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the bridge on both networks unless a record already exists",
		Long: `Deploy the bridge contract on the home and foreign networks concurrently,
wait for the configured number of confirmations on each, and write the
deployment record.

If the record already exists nothing is sent and the stored record is printed.
If the record exists but cannot be read the command fails without deploying.

Examples:
  bridge deploy
  bridge deploy --config bridge.toml --database bridge-db.toml
  bridge deploy --yes --timeout 10m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := render.NewRecordRenderer(cmd.OutOrStdout(), format)
			if err != nil {
				return err
			}

			v, err := getViper(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if timeout := v.GetDuration("timeout"); timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			bootstrap, cleanup, err := app.InitBootstrap(ctx, v)
			if err != nil {
				return fmt.Errorf("failed to initialize bridge: %w", err)
			}
			defer cleanup()

			result, err := bootstrap.EnsureDeployed.Execute(ctx)
			if err != nil {
				if errors.Is(err, domain.ErrDeploymentDeclined) {
					fmt.Fprintln(cmd.ErrOrStderr(), render.FormatWarning("Deployment cancelled, nothing was sent"))
					return nil
				}
				return err
			}

			if format == render.FormatTable || format == "" {
				if result.Deployed {
					fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess("Bridge deployed on both networks"))
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess("Bridge already deployed, nothing to do"))
				}
			}

			return renderer.Render(render.RecordResult(bootstrap.Config.DatabasePath, result.Record))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", render.FormatTable, "Output format (table, json, yaml)")

	return cmd
}
