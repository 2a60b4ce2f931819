package models

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/bridge/internal/domain"
)

// ChainState is the per-network part of a deployment record
type ChainState struct {
	// DeployBlockNumber is the block in which the bridge contract was created
	DeployBlockNumber uint64 `toml:"deploy_block_number" json:"deployBlockNumber" yaml:"deploy_block_number"`
	// LastBlockNumber is the relay cursor; equal to DeployBlockNumber on creation
	LastBlockNumber uint64 `toml:"last_block_number" json:"lastBlockNumber" yaml:"last_block_number"`
	// BridgeContractAddress is the address of the created bridge contract
	BridgeContractAddress common.Address `toml:"bridge_contract_address" json:"bridgeContractAddress" yaml:"bridge_contract_address"`
}

// NewChainState builds the initial chain state from a contract creation receipt.
// The receipt must carry a block number and a contract address.
func NewChainState(receipt *types.Receipt) ChainState {
	block := receipt.BlockNumber.Uint64()
	return ChainState{
		DeployBlockNumber:     block,
		LastBlockNumber:       block,
		BridgeContractAddress: receipt.ContractAddress,
	}
}

// DeploymentRecord is the durable checkpoint of a completed two-network deployment
type DeploymentRecord struct {
	Home    ChainState `toml:"home" json:"home" yaml:"home"`
	Foreign ChainState `toml:"foreign" json:"foreign" yaml:"foreign"`
}

// State returns the chain state for a network
func (r *DeploymentRecord) State(network domain.Network) ChainState {
	if network == domain.NetworkForeign {
		return r.Foreign
	}
	return r.Home
}

// SetState replaces the chain state for a network
func (r *DeploymentRecord) SetState(network domain.Network, state ChainState) {
	if network == domain.NetworkForeign {
		r.Foreign = state
		return
	}
	r.Home = state
}

// Validate checks that a record describes two real deployments
func (r *DeploymentRecord) Validate() error {
	for _, network := range domain.Networks {
		state := r.State(network)
		if state.BridgeContractAddress == (common.Address{}) {
			return fmt.Errorf("%s: missing bridge contract address", network)
		}
		if state.LastBlockNumber < state.DeployBlockNumber {
			return fmt.Errorf("%s: last block %d is before deploy block %d", network, state.LastBlockNumber, state.DeployBlockNumber)
		}
	}
	return nil
}
