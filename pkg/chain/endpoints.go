package chain

import "github.com/gagliardetto/solana-go/rpc"

// Network selects which endpoint pool a balance lookup runs against.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkDevnet  Network = "devnet"
)

// EndpointPool is the priority-ordered list of RPC endpoints for one network.
// It is read-only after process start; failover never mutates it.
type EndpointPool struct {
	Network   Network
	Endpoints []string
}

// mainnetFallbacks are the public endpoints tried when no override is set,
// in fixed priority order.
var mainnetFallbacks = []string{
	rpc.MainNetBeta_RPC,
	"https://solana-rpc.publicnode.com",
	"https://rpc.ankr.com/solana",
	"https://solana.drpc.org",
}

var devnetFallbacks = []string{
	rpc.DevNet_RPC,
	"https://solana-devnet-rpc.publicnode.com",
}

// MainnetPool builds the mainnet pool. An operator-supplied override, when
// non-empty, is tried before the public fallbacks.
func MainnetPool(override string) EndpointPool {
	return newPool(NetworkMainnet, override, mainnetFallbacks)
}

// DevnetPool builds the devnet pool.
func DevnetPool(override string) EndpointPool {
	return newPool(NetworkDevnet, override, devnetFallbacks)
}

func newPool(network Network, override string, fallbacks []string) EndpointPool {
	endpoints := make([]string, 0, len(fallbacks)+1)
	if override != "" {
		endpoints = append(endpoints, override)
	}
	endpoints = append(endpoints, fallbacks...)
	return EndpointPool{Network: network, Endpoints: endpoints}
}
