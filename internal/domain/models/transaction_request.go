package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/bridge/internal/domain"
)

// DeployTransaction is a contract creation request for one network.
// There is no recipient, nonce or condition: ordering is left to the node.
type DeployTransaction struct {
	Network  domain.Network
	From     common.Address
	Gas      uint64
	GasPrice *big.Int
	Value    *big.Int
	Data     []byte
}
