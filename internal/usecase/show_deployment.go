package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/trebuchet-org/bridge/internal/domain"
	"github.com/trebuchet-org/bridge/internal/domain/config"
	"github.com/trebuchet-org/bridge/internal/domain/models"
)

// ShowDeployment reads the stored deployment record without touching any network
type ShowDeployment struct {
	cfg   *config.RuntimeConfig
	store DeploymentRecordStore
}

// NewShowDeployment creates a new ShowDeployment use case
func NewShowDeployment(cfg *config.RuntimeConfig, store DeploymentRecordStore) *ShowDeployment {
	return &ShowDeployment{
		cfg:   cfg,
		store: store,
	}
}

// ShowDeploymentParams contains parameters for showing the deployment
type ShowDeploymentParams struct {
	Network domain.Network // empty for both networks
}

// ShowDeploymentResult contains the stored record and the networks to display
type ShowDeploymentResult struct {
	Path     string
	Record   *models.DeploymentRecord
	Networks []domain.Network
}

// Run executes the use case
func (uc *ShowDeployment) Run(ctx context.Context, params ShowDeploymentParams) (*ShowDeploymentResult, error) {
	record, err := uc.store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("bridge is not deployed yet (no record at %s)", uc.cfg.DatabasePath)
		}
		return nil, err
	}

	networks := domain.Networks
	if params.Network != "" {
		networks = []domain.Network{params.Network}
	}

	return &ShowDeploymentResult{
		Path:     uc.cfg.DatabasePath,
		Record:   record,
		Networks: networks,
	}, nil
}
