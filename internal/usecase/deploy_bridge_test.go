package usecase_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/bridge/internal/domain"
	"github.com/trebuchet-org/bridge/internal/usecase"
)

func TestDeployBridge(t *testing.T) {
	ctx := context.Background()

	t.Run("deploys on both networks concurrently", func(t *testing.T) {
		b := newBarrier(2)
		waiter := newScriptedWaiter().
			on(domain.NetworkHome, func(context.Context) (*types.Receipt, error) {
				if err := b.arrive(); err != nil {
					return nil, err
				}
				return receiptAt(105, homeContract), nil
			}).
			on(domain.NetworkForeign, func(context.Context) (*types.Receipt, error) {
				if err := b.arrive(); err != nil {
					return nil, err
				}
				return receiptAt(9, foreignContract), nil
			})
		sink := &MockProgressSink{}
		uc := usecase.NewDeployBridge(testBridgeConfig(), newStubConnections(), waiter, sink, discardLogger())

		record, err := uc.Execute(ctx)
		require.NoError(t, err)

		// Each side keeps its own block height
		assert.Equal(t, uint64(105), record.Home.DeployBlockNumber)
		assert.Equal(t, uint64(105), record.Home.LastBlockNumber)
		assert.Equal(t, common.HexToAddress(homeContract), record.Home.BridgeContractAddress)
		assert.Equal(t, uint64(9), record.Foreign.DeployBlockNumber)
		assert.Equal(t, uint64(9), record.Foreign.LastBlockNumber)
		assert.Equal(t, common.HexToAddress(foreignContract), record.Foreign.BridgeContractAddress)

		assert.Contains(t, sink.stages(), usecase.StageCompleted)
	})

	t.Run("builds contract creations from the config", func(t *testing.T) {
		waiter := newScriptedWaiter().
			on(domain.NetworkHome, returnReceipt(receiptAt(1, homeContract))).
			on(domain.NetworkForeign, returnReceipt(receiptAt(2, foreignContract)))
		conns := newStubConnections()
		uc := usecase.NewDeployBridge(testBridgeConfig(), conns, waiter, usecase.NopProgress{}, discardLogger())

		_, err := uc.Execute(ctx)
		require.NoError(t, err)

		home := waiter.call(domain.NetworkHome)
		assert.Same(t, conns.home, home.transport)
		assert.Equal(t, common.HexToAddress(senderAddress), home.tx.From)
		assert.Equal(t, uint64(100), home.tx.Gas)
		assert.Equal(t, big.NewInt(5), home.tx.GasPrice)
		assert.Equal(t, 0, home.tx.Value.Sign())
		assert.Equal(t, []byte{0x60, 0x01}, home.tx.Data)
		assert.Equal(t, uint64(2), home.confirmations)

		foreign := waiter.call(domain.NetworkForeign)
		assert.Same(t, conns.foreign, foreign.transport)
		assert.Equal(t, uint64(200), foreign.tx.Gas)
		assert.Equal(t, 0, foreign.tx.GasPrice.Sign())
		assert.Equal(t, []byte{0x60, 0x02, 0x03}, foreign.tx.Data)
		assert.Equal(t, uint64(3), foreign.confirmations)
		assert.Equal(t, testBridgeConfig().Foreign.PollInterval, foreign.pollInterval)
	})

	t.Run("one failing network fails the whole deployment", func(t *testing.T) {
		boom := errors.New("connection refused")
		homeCancelled := make(chan error, 1)
		waiter := newScriptedWaiter().
			on(domain.NetworkHome, func(ctx context.Context) (*types.Receipt, error) {
				<-ctx.Done()
				homeCancelled <- ctx.Err()
				return nil, ctx.Err()
			}).
			on(domain.NetworkForeign, func(context.Context) (*types.Receipt, error) {
				return nil, boom
			})
		uc := usecase.NewDeployBridge(testBridgeConfig(), newStubConnections(), waiter, usecase.NopProgress{}, discardLogger())

		record, err := uc.Execute(ctx)
		require.Error(t, err)
		assert.Nil(t, record)
		assert.ErrorIs(t, err, boom)

		network, ok := domain.FailingNetwork(err)
		require.True(t, ok)
		assert.Equal(t, domain.NetworkForeign, network)

		// The surviving side is told to stop waiting
		assert.ErrorIs(t, <-homeCancelled, context.Canceled)
	})

	t.Run("a confirmed side does not rescue a failed one", func(t *testing.T) {
		waiter := newScriptedWaiter().
			on(domain.NetworkHome, returnReceipt(receiptAt(1, homeContract))).
			on(domain.NetworkForeign, func(context.Context) (*types.Receipt, error) {
				return nil, errors.New("timeout")
			})
		uc := usecase.NewDeployBridge(testBridgeConfig(), newStubConnections(), waiter, usecase.NopProgress{}, discardLogger())

		record, err := uc.Execute(ctx)
		require.Error(t, err)
		assert.Nil(t, record)
	})

	t.Run("reverted creation is a network failure", func(t *testing.T) {
		reverted := receiptAt(4, homeContract)
		reverted.Status = types.ReceiptStatusFailed
		waiter := newScriptedWaiter().
			on(domain.NetworkHome, returnReceipt(reverted)).
			on(domain.NetworkForeign, returnReceipt(receiptAt(2, foreignContract)))
		uc := usecase.NewDeployBridge(testBridgeConfig(), newStubConnections(), waiter, usecase.NopProgress{}, discardLogger())

		_, err := uc.Execute(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDeploymentReverted)

		network, ok := domain.FailingNetwork(err)
		require.True(t, ok)
		assert.Equal(t, domain.NetworkHome, network)
	})

	t.Run("receipt without contract address violates an invariant", func(t *testing.T) {
		waiter := newScriptedWaiter().
			on(domain.NetworkHome, returnReceipt(receiptAt(1, homeContract))).
			on(domain.NetworkForeign, returnReceipt(&types.Receipt{
				Status:      types.ReceiptStatusSuccessful,
				BlockNumber: big.NewInt(3),
			}))
		uc := usecase.NewDeployBridge(testBridgeConfig(), newStubConnections(), waiter, usecase.NopProgress{}, discardLogger())

		_, err := uc.Execute(ctx)
		require.Error(t, err)

		var invariant *domain.InvariantViolationError
		require.ErrorAs(t, err, &invariant)
		assert.Equal(t, domain.NetworkForeign, invariant.Network)
	})

	t.Run("receipt without block number violates an invariant", func(t *testing.T) {
		waiter := newScriptedWaiter().
			on(domain.NetworkHome, returnReceipt(&types.Receipt{
				Status:          types.ReceiptStatusSuccessful,
				ContractAddress: common.HexToAddress(homeContract),
			})).
			on(domain.NetworkForeign, returnReceipt(receiptAt(2, foreignContract)))
		uc := usecase.NewDeployBridge(testBridgeConfig(), newStubConnections(), waiter, usecase.NopProgress{}, discardLogger())

		_, err := uc.Execute(ctx)

		var invariant *domain.InvariantViolationError
		require.ErrorAs(t, err, &invariant)
		assert.Equal(t, domain.NetworkHome, invariant.Network)
	})
}

func TestDeployBridgePlan(t *testing.T) {
	uc := usecase.NewDeployBridge(testBridgeConfig(), newStubConnections(), newScriptedWaiter(), usecase.NopProgress{}, discardLogger())

	plan := uc.Plan()
	require.Len(t, plan, 2)

	assert.Equal(t, usecase.DeployPlanEntry{
		Network:               domain.NetworkHome,
		From:                  common.HexToAddress(senderAddress),
		Gas:                   100,
		GasPrice:              5,
		BytecodeSize:          2,
		RequiredConfirmations: 2,
	}, plan[0])
	assert.Equal(t, domain.NetworkForeign, plan[1].Network)
	assert.Equal(t, 3, plan[1].BytecodeSize)
	assert.Equal(t, uint64(0), plan[1].GasPrice)
}
