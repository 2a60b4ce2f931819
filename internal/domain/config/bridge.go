package config

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/bridge/internal/domain"
)

// BridgeConfig is the application-shaped bridge configuration.
// Every field is resolved and validated; nothing here is optional.
type BridgeConfig struct {
	Address     common.Address
	Home        NodeConfig
	Foreign     NodeConfig
	Authorities Authorities
	Txs         Transactions

	EstimatedGasCostOfWithdraw  *big.Int
	MaxTotalHomeContractBalance *big.Int
	MaxSingleDepositValue       *big.Int
}

// Node returns the node config of a network
func (c *BridgeConfig) Node(network domain.Network) NodeConfig {
	if network == domain.NetworkForeign {
		return c.Foreign
	}
	return c.Home
}

// DeployTx returns the deployment transaction settings of a network
func (c *BridgeConfig) DeployTx(network domain.Network) TransactionConfig {
	if network == domain.NetworkForeign {
		return c.Txs.ForeignDeploy
	}
	return c.Txs.HomeDeploy
}

// NodeConfig holds connection and confirmation settings for one network
type NodeConfig struct {
	Contract              ContractConfig
	HTTP                  string
	RequestTimeout        time.Duration
	PollInterval          time.Duration
	RequiredConfirmations uint64
}

// ContractConfig holds the compiled bridge contract for one network
type ContractConfig struct {
	Bin []byte
}

// Authorities lists the bridge validators
type Authorities struct {
	Accounts           []common.Address
	RequiredSignatures uint32
}

// Transactions holds gas settings per transaction type
type Transactions struct {
	HomeDeploy      TransactionConfig
	ForeignDeploy   TransactionConfig
	DepositRelay    TransactionConfig
	WithdrawConfirm TransactionConfig
	WithdrawRelay   TransactionConfig
}

// TransactionConfig holds gas settings for one transaction type
type TransactionConfig struct {
	Gas      uint64
	GasPrice uint64
}
