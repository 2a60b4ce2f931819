package blockchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/bridge/internal/domain/models"
	"github.com/trebuchet-org/bridge/internal/usecase"
)

// ConfirmationWaiter sends a transaction and polls until it has enough confirmations
type ConfirmationWaiter struct {
	progress usecase.ProgressSink
	log      *slog.Logger
}

// NewConfirmationWaiter creates a new ConfirmationWaiter
func NewConfirmationWaiter(progress usecase.ProgressSink, log *slog.Logger) *ConfirmationWaiter {
	return &ConfirmationWaiter{
		progress: progress,
		log:      log,
	}
}

// WaitForConfirmation submits tx and resolves once head >= mined block + requiredConfirmations.
// The receipt is fetched again on every poll so a reorg that moves the transaction
// is followed. Transport errors end the wait immediately; the only other bound is ctx.
func (w *ConfirmationWaiter) WaitForConfirmation(
	ctx context.Context,
	transport usecase.Transport,
	tx *models.DeployTransaction,
	pollInterval time.Duration,
	requiredConfirmations uint64,
) (*types.Receipt, error) {
	log := w.log.With("network", tx.Network)

	hash, err := transport.SendTransaction(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	log.Info("transaction sent", "tx_hash", hash.Hex())

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("stopped waiting for tx %s: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}

		receipt, done, err := w.poll(ctx, transport, tx, hash, requiredConfirmations)
		if err != nil {
			return nil, err
		}
		if done {
			return receipt, nil
		}
	}
}

func (w *ConfirmationWaiter) poll(
	ctx context.Context,
	transport usecase.Transport,
	tx *models.DeployTransaction,
	hash common.Hash,
	required uint64,
) (*types.Receipt, bool, error) {
	receipt, err := transport.TransactionReceipt(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get receipt for tx %s: %w", hash.Hex(), err)
	}
	if receipt == nil || receipt.BlockNumber == nil {
		return nil, false, nil
	}

	head, err := transport.BlockNumber(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get block number: %w", err)
	}

	mined := receipt.BlockNumber.Uint64()
	var depth uint64
	if head > mined {
		depth = head - mined
	}

	w.progress.OnProgress(ctx, usecase.ProgressEvent{
		Stage:   usecase.StageConfirming,
		Network: tx.Network,
		Current: int(min(depth, required)),
		Total:   int(required),
		Message: fmt.Sprintf("%s tx %s mined in block %d", tx.Network, hash.Hex(), mined),
		Spinner: true,
	})

	if depth < required {
		w.log.Debug("waiting for confirmations",
			"network", tx.Network,
			"tx_hash", hash.Hex(),
			"block", mined,
			"confirmations", depth,
			"required", required)
		return nil, false, nil
	}

	return receipt, true, nil
}

// Ensure ConfirmationWaiter implements the usecase port
var _ usecase.ConfirmationWaiter = (*ConfirmationWaiter)(nil)
