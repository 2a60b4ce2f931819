package usecase

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/bridge/internal/domain"
	"github.com/trebuchet-org/bridge/internal/domain/models"
)

// DeploymentRecordStore handles persistence of the deployment record.
// Load returns an error wrapping domain.ErrNotFound only when no record exists;
// any other error means a record may exist but cannot be used.
type DeploymentRecordStore interface {
	Load(ctx context.Context) (*models.DeploymentRecord, error)
	Save(ctx context.Context, record *models.DeploymentRecord) error
}

// Transport submits transactions to one network and queries their receipts.
// TransactionReceipt returns ethereum.NotFound while the transaction is pending.
type Transport interface {
	SendTransaction(ctx context.Context, tx *models.DeployTransaction) (common.Hash, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// NetworkConnections holds one transport per bridged network
type NetworkConnections interface {
	Home() Transport
	Foreign() Transport
}

// ConfirmationWaiter sends a transaction and resolves once it is mined and buried
// under the required number of confirmations.
type ConfirmationWaiter interface {
	WaitForConfirmation(ctx context.Context, transport Transport, tx *models.DeployTransaction, pollInterval time.Duration, requiredConfirmations uint64) (*types.Receipt, error)
}

// DeployConfirmer asks the operator before a fresh, fund-consuming deployment
type DeployConfirmer interface {
	ConfirmDeploy(ctx context.Context, plan []DeployPlanEntry) (bool, error)
}

// DeployPlanEntry describes the deployment about to be sent to one network
type DeployPlanEntry struct {
	Network               domain.Network
	From                  common.Address
	Gas                   uint64
	GasPrice              uint64
	BytecodeSize          int
	RequiredConfirmations uint64
}

// Progress tracking interfaces

// ExecutionStage names a step of the deployment
type ExecutionStage string

const (
	StageSubmitting ExecutionStage = "submitting"
	StageConfirming ExecutionStage = "confirming"
	StageConfirmed  ExecutionStage = "confirmed"
	StageCompleted  ExecutionStage = "completed"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   ExecutionStage
	Network domain.Network
	Current int
	Total   int
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
