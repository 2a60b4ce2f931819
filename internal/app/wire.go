//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/bridge/internal/adapters"
	bridgeconfig "github.com/trebuchet-org/bridge/internal/config"
	"github.com/trebuchet-org/bridge/internal/logging"
	"github.com/trebuchet-org/bridge/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		bridgeconfig.Provider,

		// Adapters
		adapters.FSSet,

		// Use cases
		usecase.NewShowDeployment,

		// App
		NewApp,
	)
	return nil, nil
}

// InitBootstrap creates a fully wired Bootstrap instance, connected to both networks
func InitBootstrap(ctx context.Context, v *viper.Viper) (*Bootstrap, func(), error) {
	wire.Build(
		bridgeconfig.Provider,
		bridgeconfig.BridgeProvider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployBridge,
		wire.Bind(new(usecase.BridgeDeployer), new(*usecase.DeployBridge)),
		usecase.NewEnsureDeployed,

		// Bootstrap
		NewBootstrap,
	)
	return nil, nil, nil
}
