package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/bridge/internal/domain"
	"github.com/trebuchet-org/bridge/internal/domain/config"
	"github.com/trebuchet-org/bridge/internal/domain/models"
	"github.com/trebuchet-org/bridge/internal/usecase"
)

// RPCTransport implements the Transport interface over JSON-RPC.
// Transactions are signed by the node, so the sender account must be
// unlocked (or managed by a signer) on the node.
type RPCTransport struct {
	network domain.Network
	rpc     *rpc.Client
	client  *ethclient.Client
	chainID *big.Int
}

// sendTxArgs are the eth_sendTransaction parameters for a contract creation.
// Zero gas or gas price are omitted so the node fills them in.
type sendTxArgs struct {
	From     common.Address  `json:"from"`
	Gas      *hexutil.Uint64 `json:"gas,omitempty"`
	GasPrice *hexutil.Big    `json:"gasPrice,omitempty"`
	Value    *hexutil.Big    `json:"value"`
	Data     hexutil.Bytes   `json:"data"`
}

// DialTransport connects to a node and verifies that it answers
func DialTransport(ctx context.Context, network domain.Network, node config.NodeConfig) (*RPCTransport, error) {
	httpClient := &http.Client{Timeout: node.RequestTimeout}
	rpcClient, err := rpc.DialOptions(ctx, node.HTTP, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	t := &RPCTransport{
		network: network,
		rpc:     rpcClient,
		client:  ethclient.NewClient(rpcClient),
	}

	// HTTP dialing is lazy; ask for the chain ID to prove the endpoint is reachable
	chainID, err := t.client.ChainID(ctx)
	if err != nil {
		t.Close()
		return nil, fmt.Errorf("failed to get chain ID from %s: %w", node.HTTP, err)
	}
	t.chainID = chainID

	return t, nil
}

// Network returns the network this transport is connected to
func (t *RPCTransport) Network() domain.Network {
	return t.network
}

// ChainID returns the chain ID reported by the node when connecting
func (t *RPCTransport) ChainID() *big.Int {
	return new(big.Int).Set(t.chainID)
}

// SendTransaction submits a contract creation transaction
func (t *RPCTransport) SendTransaction(ctx context.Context, tx *models.DeployTransaction) (common.Hash, error) {
	args := sendTxArgs{
		From:  tx.From,
		Value: (*hexutil.Big)(valueOrZero(tx.Value)),
		Data:  tx.Data,
	}
	if tx.Gas != 0 {
		gas := hexutil.Uint64(tx.Gas)
		args.Gas = &gas
	}
	if tx.GasPrice != nil && tx.GasPrice.Sign() > 0 {
		args.GasPrice = (*hexutil.Big)(tx.GasPrice)
	}

	var hash common.Hash
	if err := t.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, fmt.Errorf("eth_sendTransaction failed: %w", err)
	}
	return hash, nil
}

// TransactionReceipt returns the receipt of a mined transaction or ethereum.NotFound
func (t *RPCTransport) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return t.client.TransactionReceipt(ctx, hash)
}

// BlockNumber returns the current head block number
func (t *RPCTransport) BlockNumber(ctx context.Context) (uint64, error) {
	return t.client.BlockNumber(ctx)
}

// Close releases the underlying RPC client
func (t *RPCTransport) Close() {
	t.rpc.Close()
}

func valueOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

// Ensure RPCTransport implements Transport
var _ usecase.Transport = (*RPCTransport)(nil)
