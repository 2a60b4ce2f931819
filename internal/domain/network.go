package domain

import "fmt"

// Network identifies one side of the bridge
type Network string

const (
	NetworkHome    Network = "home"
	NetworkForeign Network = "foreign"
)

// Networks lists the bridged networks in deployment order
var Networks = []Network{NetworkHome, NetworkForeign}

// ParseNetwork converts a network name into a Network
func ParseNetwork(name string) (Network, error) {
	switch Network(name) {
	case NetworkHome, NetworkForeign:
		return Network(name), nil
	default:
		return "", fmt.Errorf("unknown network %q (expected %q or %q)", name, NetworkHome, NetworkForeign)
	}
}

func (n Network) String() string {
	return string(n)
}
