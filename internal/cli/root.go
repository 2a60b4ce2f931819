package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/bridge/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// viperKey is the context key for the resolved settings
	viperKey contextKey = "viper"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bridge",
		Short: "Bootstrap a two-network token bridge",
		Long: `bridge deploys the bridge contract on the home and foreign networks and
records where it lives. Running it again against an existing record is a no-op.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			// Flags set on the command line win over BRIDGE_* env vars and defaults
			v := config.SetupViper(cmd.Flags())

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, viperKey, v))

			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultConfigPath, "Path to the bridge config file")
	rootCmd.PersistentFlags().StringP("database", "d", config.DefaultDatabasePath, "Path to the deployment record")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Deploy without asking for confirmation")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Abort the command after this long (0 waits indefinitely)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})

	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	showCmd := NewShowCmd()
	showCmd.GroupID = "main"
	rootCmd.AddCommand(showCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getViper retrieves the settings stored by the root command
func getViper(cmd *cobra.Command) (*viper.Viper, error) {
	value := cmd.Context().Value(viperKey)
	if value == nil {
		return nil, fmt.Errorf("settings not initialized")
	}

	v, ok := value.(*viper.Viper)
	if !ok {
		return nil, fmt.Errorf("invalid settings instance")
	}

	return v, nil
}
