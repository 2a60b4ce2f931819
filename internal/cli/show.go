package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/bridge/internal/app"
	"github.com/trebuchet-org/bridge/internal/cli/render"
	"github.com/trebuchet-org/bridge/internal/domain"
	"github.com/trebuchet-org/bridge/internal/usecase"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	var network string
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored deployment record",
		Long: `Show the stored deployment record without contacting any network.

Examples:
  bridge show
  bridge show --network foreign
  bridge show --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := render.NewRecordRenderer(cmd.OutOrStdout(), format)
			if err != nil {
				return err
			}

			params := usecase.ShowDeploymentParams{}
			if network != "" {
				params.Network, err = domain.ParseNetwork(network)
				if err != nil {
					return err
				}
			}

			v, err := getViper(cmd)
			if err != nil {
				return err
			}

			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			result, err := appInstance.ShowDeployment.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return renderer.Render(result)
		},
	}

	cmd.Flags().StringVarP(&network, "network", "n", "", "Only show one network (home or foreign)")
	cmd.Flags().StringVarP(&format, "format", "f", render.FormatTable, "Output format (table, json, yaml)")

	return cmd
}
