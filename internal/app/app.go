package app

import (
	"github.com/trebuchet-org/bridge/internal/domain/config"
	"github.com/trebuchet-org/bridge/internal/usecase"
)

// App is the read-only application container. Building it never touches a network.
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Use cases
	ShowDeployment *usecase.ShowDeployment
}

// NewApp creates a new application instance
func NewApp(
	cfg *config.RuntimeConfig,
	showDeployment *usecase.ShowDeployment,
) (*App, error) {
	return &App{
		Config:         cfg,
		ShowDeployment: showDeployment,
	}, nil
}

// Bootstrap is the container for the deploy command. Building it loads the
// bridge config and connects to both networks.
type Bootstrap struct {
	Config *config.RuntimeConfig

	EnsureDeployed *usecase.EnsureDeployed
}

// NewBootstrap creates a new bootstrap instance
func NewBootstrap(cfg *config.RuntimeConfig, ensureDeployed *usecase.EnsureDeployed) *Bootstrap {
	return &Bootstrap{
		Config:         cfg,
		EnsureDeployed: ensureDeployed,
	}
}
