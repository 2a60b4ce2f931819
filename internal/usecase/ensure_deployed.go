package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/bridge/internal/domain"
	"github.com/trebuchet-org/bridge/internal/domain/config"
	"github.com/trebuchet-org/bridge/internal/domain/models"
)

// BridgeDeployer produces a deployment record by deploying on both networks
type BridgeDeployer interface {
	Plan() []DeployPlanEntry
	Execute(ctx context.Context) (*models.DeploymentRecord, error)
}

// EnsureDeployed is the idempotency gate in front of the bridge deployment.
// A stored record short-circuits; only a missing record triggers a deployment.
type EnsureDeployed struct {
	cfg       *config.RuntimeConfig
	store     DeploymentRecordStore
	deployer  BridgeDeployer
	confirmer DeployConfirmer
	log       *slog.Logger
}

// NewEnsureDeployed creates a new EnsureDeployed use case
func NewEnsureDeployed(
	cfg *config.RuntimeConfig,
	store DeploymentRecordStore,
	deployer BridgeDeployer,
	confirmer DeployConfirmer,
	log *slog.Logger,
) *EnsureDeployed {
	return &EnsureDeployed{
		cfg:       cfg,
		store:     store,
		deployer:  deployer,
		confirmer: confirmer,
		log:       log,
	}
}

// EnsureDeployedResult contains the result of the bootstrap
type EnsureDeployedResult struct {
	Record   *models.DeploymentRecord
	Deployed bool // false when the record was already stored
}

// Execute returns the stored deployment record, deploying and persisting it first if absent
func (uc *EnsureDeployed) Execute(ctx context.Context) (*EnsureDeployedResult, error) {
	record, err := uc.store.Load(ctx)
	if err == nil {
		uc.log.Debug("deployment record found, skipping deployment", "path", uc.cfg.DatabasePath)
		return &EnsureDeployedResult{Record: record}, nil
	}

	if !errors.Is(err, domain.ErrNotFound) {
		var unreadable *domain.RecordUnreadableError
		if errors.As(err, &unreadable) {
			return nil, err
		}
		return nil, &domain.RecordUnreadableError{Path: uc.cfg.DatabasePath, Err: err}
	}

	uc.log.Info("no deployment record found, deploying bridge", "path", uc.cfg.DatabasePath)

	if err := uc.confirm(ctx); err != nil {
		return nil, err
	}

	record, err = uc.deployer.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("bridge deployment failed: %w", err)
	}

	if err := uc.store.Save(ctx, record); err != nil {
		uc.log.Error("bridge deployed but record could not be saved",
			"path", uc.cfg.DatabasePath,
			"home_address", record.Home.BridgeContractAddress.Hex(),
			"home_block", record.Home.DeployBlockNumber,
			"foreign_address", record.Foreign.BridgeContractAddress.Hex(),
			"foreign_block", record.Foreign.DeployBlockNumber)
		return nil, fmt.Errorf("failed to save deployment record: %w", err)
	}

	uc.log.Info("deployment record saved", "path", uc.cfg.DatabasePath)

	return &EnsureDeployedResult{Record: record, Deployed: true}, nil
}

func (uc *EnsureDeployed) confirm(ctx context.Context) error {
	if uc.cfg.NonInteractive || uc.cfg.AssumeYes || uc.confirmer == nil {
		return nil
	}

	ok, err := uc.confirmer.ConfirmDeploy(ctx, uc.deployer.Plan())
	if err != nil {
		return fmt.Errorf("failed to confirm deployment: %w", err)
	}
	if !ok {
		return domain.ErrDeploymentDeclined
	}
	return nil
}
