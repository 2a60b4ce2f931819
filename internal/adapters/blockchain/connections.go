package blockchain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/bridge/internal/domain"
	"github.com/trebuchet-org/bridge/internal/domain/config"
	"github.com/trebuchet-org/bridge/internal/usecase"
)

// Connections is the set of transports for both bridged networks.
// It is built once at startup and never changes afterwards.
type Connections struct {
	home    *RPCTransport
	foreign *RPCTransport
}

// NewConnections dials both networks. Failing to reach either one is fatal;
// there is no retry. The returned cleanup closes both transports.
func NewConnections(ctx context.Context, bridge *config.BridgeConfig, log *slog.Logger) (*Connections, func(), error) {
	home, err := dial(ctx, domain.NetworkHome, bridge.Home, log)
	if err != nil {
		return nil, nil, err
	}

	foreign, err := dial(ctx, domain.NetworkForeign, bridge.Foreign, log)
	if err != nil {
		home.Close()
		return nil, nil, err
	}

	c := &Connections{
		home:    home,
		foreign: foreign,
	}
	return c, c.Close, nil
}

func dial(ctx context.Context, network domain.Network, node config.NodeConfig, log *slog.Logger) (*RPCTransport, error) {
	t, err := DialTransport(ctx, network, node)
	if err != nil {
		return nil, &domain.NetworkError{
			Network: network,
			Err:     fmt.Errorf("cannot connect to node at %s: %w", node.HTTP, err),
		}
	}

	log.Debug("connected to node", "network", network, "url", node.HTTP, "chain_id", t.ChainID())
	return t, nil
}

// Home returns the home network transport
func (c *Connections) Home() usecase.Transport {
	return c.home
}

// Foreign returns the foreign network transport
func (c *Connections) Foreign() usecase.Transport {
	return c.foreign
}

// Close closes both transports
func (c *Connections) Close() {
	c.home.Close()
	c.foreign.Close()
}

// Ensure Connections implements NetworkConnections
var _ usecase.NetworkConnections = (*Connections)(nil)
