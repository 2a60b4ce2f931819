package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/sync/errgroup"

	"github.com/trebuchet-org/bridge/internal/domain"
	"github.com/trebuchet-org/bridge/internal/domain/config"
	"github.com/trebuchet-org/bridge/internal/domain/models"
)

// DeployBridge deploys the bridge contract on both networks and combines the
// confirmed receipts into a deployment record. It must only run when no record exists.
type DeployBridge struct {
	bridge      *config.BridgeConfig
	connections NetworkConnections
	waiter      ConfirmationWaiter
	progress    ProgressSink
	log         *slog.Logger
}

// NewDeployBridge creates a new DeployBridge use case
func NewDeployBridge(
	bridge *config.BridgeConfig,
	connections NetworkConnections,
	waiter ConfirmationWaiter,
	progress ProgressSink,
	log *slog.Logger,
) *DeployBridge {
	return &DeployBridge{
		bridge:      bridge,
		connections: connections,
		waiter:      waiter,
		progress:    progress,
		log:         log,
	}
}

type deployTarget struct {
	tx            *models.DeployTransaction
	transport     Transport
	pollInterval  time.Duration
	confirmations uint64
}

// Plan describes the transactions Execute would send
func (uc *DeployBridge) Plan() []DeployPlanEntry {
	plan := make([]DeployPlanEntry, 0, len(domain.Networks))
	for _, network := range domain.Networks {
		txCfg := uc.bridge.DeployTx(network)
		node := uc.bridge.Node(network)
		plan = append(plan, DeployPlanEntry{
			Network:               network,
			From:                  uc.bridge.Address,
			Gas:                   txCfg.Gas,
			GasPrice:              txCfg.GasPrice,
			BytecodeSize:          len(node.Contract.Bin),
			RequiredConfirmations: node.RequiredConfirmations,
		})
	}
	return plan
}

// Execute sends both deployments concurrently and waits for both to confirm.
// Either network failing fails the whole call and no record is produced.
func (uc *DeployBridge) Execute(ctx context.Context) (*models.DeploymentRecord, error) {
	targets := uc.targets()
	states := make([]models.ChainState, len(targets))
	confirmed := make([]bool, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			state, err := uc.deploy(gctx, target)
			if err != nil {
				return err
			}
			states[i] = state
			confirmed[i] = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for i, target := range targets {
			if confirmed[i] {
				// Nothing is persisted on partial failure; the contract stays on-chain unrecorded
				uc.log.Error("bridge contract deployed but not recorded",
					"network", target.tx.Network,
					"address", states[i].BridgeContractAddress.Hex(),
					"block", states[i].DeployBlockNumber)
			}
		}
		return nil, err
	}

	record := &models.DeploymentRecord{}
	for i, target := range targets {
		record.SetState(target.tx.Network, states[i])
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageCompleted,
		Message: "bridge deployed on both networks",
	})

	return record, nil
}

func (uc *DeployBridge) targets() []deployTarget {
	transports := map[domain.Network]Transport{
		domain.NetworkHome:    uc.connections.Home(),
		domain.NetworkForeign: uc.connections.Foreign(),
	}

	targets := make([]deployTarget, 0, len(domain.Networks))
	for _, network := range domain.Networks {
		node := uc.bridge.Node(network)
		txCfg := uc.bridge.DeployTx(network)
		targets = append(targets, deployTarget{
			tx: &models.DeployTransaction{
				Network:  network,
				From:     uc.bridge.Address,
				Gas:      txCfg.Gas,
				GasPrice: new(big.Int).SetUint64(txCfg.GasPrice),
				Value:    new(big.Int),
				Data:     node.Contract.Bin,
			},
			transport:     transports[network],
			pollInterval:  node.PollInterval,
			confirmations: node.RequiredConfirmations,
		})
	}
	return targets
}

func (uc *DeployBridge) deploy(ctx context.Context, target deployTarget) (models.ChainState, error) {
	network := target.tx.Network
	log := uc.log.With("network", network)

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageSubmitting,
		Network: network,
		Message: fmt.Sprintf("deploying bridge contract on %s", network),
		Spinner: true,
	})
	log.Info("deploying bridge contract",
		"from", target.tx.From.Hex(),
		"gas", target.tx.Gas,
		"gas_price", target.tx.GasPrice,
		"confirmations", target.confirmations)

	receipt, err := uc.waiter.WaitForConfirmation(ctx, target.transport, target.tx, target.pollInterval, target.confirmations)
	if err != nil {
		return models.ChainState{}, &domain.NetworkError{
			Network: network,
			Err:     fmt.Errorf("failed to deploy bridge contract: %w", err),
		}
	}

	if len(receipt.PostState) == 0 && receipt.Status == types.ReceiptStatusFailed {
		return models.ChainState{}, &domain.NetworkError{
			Network: network,
			Err:     fmt.Errorf("%w: tx %s", domain.ErrDeploymentReverted, receipt.TxHash.Hex()),
		}
	}
	if receipt.BlockNumber == nil {
		return models.ChainState{}, &domain.InvariantViolationError{
			Network: network,
			Message: fmt.Sprintf("confirmed receipt for tx %s has no block number", receipt.TxHash.Hex()),
		}
	}
	if receipt.ContractAddress == (common.Address{}) {
		return models.ChainState{}, &domain.InvariantViolationError{
			Network: network,
			Message: fmt.Sprintf("contract creation receipt for tx %s has no contract address", receipt.TxHash.Hex()),
		}
	}

	state := models.NewChainState(receipt)
	log.Info("bridge contract confirmed",
		"tx_hash", receipt.TxHash.Hex(),
		"address", state.BridgeContractAddress.Hex(),
		"block", state.DeployBlockNumber)
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageConfirmed,
		Network: network,
		Message: fmt.Sprintf("%s bridge at %s (block %d)", network, state.BridgeContractAddress.Hex(), state.DeployBlockNumber),
	})

	return state, nil
}
