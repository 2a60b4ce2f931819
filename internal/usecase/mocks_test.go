package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/bridge/internal/domain"
	"github.com/trebuchet-org/bridge/internal/domain/config"
	"github.com/trebuchet-org/bridge/internal/domain/models"
	"github.com/trebuchet-org/bridge/internal/usecase"
)

// MockRecordStore is a mock implementation of DeploymentRecordStore
type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) Load(ctx context.Context) (*models.DeploymentRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeploymentRecord), args.Error(1)
}

func (m *MockRecordStore) Save(ctx context.Context, record *models.DeploymentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockDeployer is a mock implementation of BridgeDeployer
type MockDeployer struct {
	mock.Mock
}

func (m *MockDeployer) Plan() []usecase.DeployPlanEntry {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]usecase.DeployPlanEntry)
}

func (m *MockDeployer) Execute(ctx context.Context) (*models.DeploymentRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeploymentRecord), args.Error(1)
}

// MockConfirmer is a mock implementation of DeployConfirmer
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) ConfirmDeploy(ctx context.Context, plan []usecase.DeployPlanEntry) (bool, error) {
	args := m.Called(ctx, plan)
	return args.Bool(0), args.Error(1)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	mu     sync.Mutex
	events []usecase.ProgressEvent
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}


func (m *MockProgressSink) stages() []usecase.ExecutionStage {
	m.mu.Lock()
	defer m.mu.Unlock()
	stages := make([]usecase.ExecutionStage, len(m.events))
	for i, e := range m.events {
		stages[i] = e.Stage
	}
	return stages
}

// stubTransport is only used as an identity; the scripted waiter never calls it
type stubTransport struct {
	network domain.Network
}

func (s *stubTransport) SendTransaction(context.Context, *models.DeployTransaction) (common.Hash, error) {
	return common.Hash{}, errors.New("not implemented")
}

func (s *stubTransport) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTransport) BlockNumber(context.Context) (uint64, error) {
	return 0, errors.New("not implemented")
}

type stubConnections struct {
	home    *stubTransport
	foreign *stubTransport
}

func newStubConnections() *stubConnections {
	return &stubConnections{
		home:    &stubTransport{network: domain.NetworkHome},
		foreign: &stubTransport{network: domain.NetworkForeign},
	}
}

func (c *stubConnections) Home() usecase.Transport    { return c.home }
func (c *stubConnections) Foreign() usecase.Transport { return c.foreign }

// waitCall captures one WaitForConfirmation invocation
type waitCall struct {
	transport     usecase.Transport
	tx            *models.DeployTransaction
	pollInterval  time.Duration
	confirmations uint64
}

// scriptedWaiter answers WaitForConfirmation per network
type scriptedWaiter struct {
	mu     sync.Mutex
	script map[domain.Network]func(ctx context.Context) (*types.Receipt, error)
	calls  map[domain.Network]waitCall
}

func newScriptedWaiter() *scriptedWaiter {
	return &scriptedWaiter{
		script: map[domain.Network]func(ctx context.Context) (*types.Receipt, error){},
		calls:  map[domain.Network]waitCall{},
	}
}

func (w *scriptedWaiter) on(network domain.Network, fn func(ctx context.Context) (*types.Receipt, error)) *scriptedWaiter {
	w.script[network] = fn
	return w
}

func (w *scriptedWaiter) WaitForConfirmation(
	ctx context.Context,
	transport usecase.Transport,
	tx *models.DeployTransaction,
	pollInterval time.Duration,
	requiredConfirmations uint64,
) (*types.Receipt, error) {
	w.mu.Lock()
	w.calls[tx.Network] = waitCall{transport: transport, tx: tx, pollInterval: pollInterval, confirmations: requiredConfirmations}
	fn := w.script[tx.Network]
	w.mu.Unlock()
	return fn(ctx)
}

func (w *scriptedWaiter) callCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.calls)
}

func (w *scriptedWaiter) call(network domain.Network) waitCall {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls[network]
}

// barrier releases its callers only once n of them have arrived
type barrier struct {
	wg   sync.WaitGroup
	done chan struct{}
}

func newBarrier(n int) *barrier {
	b := &barrier{done: make(chan struct{})}
	b.wg.Add(n)
	go func() {
		b.wg.Wait()
		close(b.done)
	}()
	return b
}

func (b *barrier) arrive() error {
	b.wg.Done()
	select {
	case <-b.done:
		return nil
	case <-time.After(2 * time.Second):
		return errors.New("deployments did not run concurrently")
	}
}

func receiptAt(block uint64, contract string) *types.Receipt {
	return &types.Receipt{
		Status:          types.ReceiptStatusSuccessful,
		TxHash:          common.HexToHash("0x01"),
		BlockNumber:     new(big.Int).SetUint64(block),
		ContractAddress: common.HexToAddress(contract),
	}
}

func returnReceipt(receipt *types.Receipt) func(context.Context) (*types.Receipt, error) {
	return func(context.Context) (*types.Receipt, error) { return receipt, nil }
}

const (
	homeContract    = "0x1111111111111111111111111111111111111111"
	foreignContract = "0x2222222222222222222222222222222222222222"
	senderAddress   = "0x00000000000000000000000000000000000000ff"
)

func testBridgeConfig() *config.BridgeConfig {
	return &config.BridgeConfig{
		Address: common.HexToAddress(senderAddress),
		Home: config.NodeConfig{
			Contract:              config.ContractConfig{Bin: []byte{0x60, 0x01}},
			HTTP:                  "http://home.invalid",
			RequestTimeout:        time.Second,
			PollInterval:          time.Millisecond,
			RequiredConfirmations: 2,
		},
		Foreign: config.NodeConfig{
			Contract:              config.ContractConfig{Bin: []byte{0x60, 0x02, 0x03}},
			HTTP:                  "http://foreign.invalid",
			RequestTimeout:        time.Second,
			PollInterval:          2 * time.Millisecond,
			RequiredConfirmations: 3,
		},
		Txs: config.Transactions{
			HomeDeploy:    config.TransactionConfig{Gas: 100, GasPrice: 5},
			ForeignDeploy: config.TransactionConfig{Gas: 200},
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
