// Package chain resolves native balances against a pool of unreliable
// Solana RPC endpoints, failing over in priority order.
package chain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sony/gobreaker"
)

// RPCClient is the subset of the solana-go RPC client the resolver uses.
// It exists so endpoint clients can be mocked in tests.
type RPCClient interface {
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error)
}

// ValidateAddress rejects empty, foreign-chain-formatted, and non-base58
// addresses before any network I/O.
func ValidateAddress(address string) (solana.PublicKey, error) {
	if address == "" {
		return solana.PublicKey{}, fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}
	if strings.HasPrefix(address, "0x") {
		return solana.PublicKey{}, fmt.Errorf("%w: EVM-style address %q", ErrInvalidAddress, address)
	}
	pubkey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return pubkey, nil
}

// Resolver looks up native balances with sequential failover across each
// network's endpoint pool. A per-endpoint circuit breaker makes failover
// skip endpoints that have been failing consistently.
type Resolver struct {
	pools   map[Network]EndpointPool
	timeout time.Duration

	// newClient is swapped out in tests.
	newClient func(endpoint string) RPCClient

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewResolver creates a Resolver over the given pools.
func NewResolver(pools ...EndpointPool) *Resolver {
	r := &Resolver{
		pools:    make(map[Network]EndpointPool, len(pools)),
		timeout:  10 * time.Second,
		newClient: func(endpoint string) RPCClient { return rpc.New(endpoint) },
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
	for _, p := range pools {
		r.pools[p.Network] = p
	}
	return r
}

// ResolveBalance returns the wallet's native balance in lamports, trying the
// network's endpoints in priority order and returning on the first success.
// When every endpoint fails it returns an *AllEndpointsError carrying the
// per-endpoint error list.
func (r *Resolver) ResolveBalance(ctx context.Context, address string, network Network) (uint64, error) {
	pubkey, err := ValidateAddress(address)
	if err != nil {
		return 0, err
	}

	pool, ok := r.pools[network]
	if !ok {
		return 0, fmt.Errorf("no endpoint pool configured for network %q", network)
	}

	var endpointErrs []EndpointError
	for _, endpoint := range pool.Endpoints {
		lamports, err := r.tryEndpoint(ctx, endpoint, pubkey)
		if err != nil {
			slog.Warn("rpc endpoint failed, trying next",
				"network", network, "endpoint", endpoint, "error", err)
			endpointErrs = append(endpointErrs, EndpointError{Endpoint: endpoint, Err: err})
			continue
		}
		return lamports, nil
	}

	return 0, &AllEndpointsError{Network: network, Errors: endpointErrs}
}

// tryEndpoint connects, probes liveness via the latest blockhash, then
// fetches the balance. All calls share one bounded timeout.
func (r *Resolver) tryEndpoint(ctx context.Context, endpoint string, pubkey solana.PublicKey) (uint64, error) {
	result, err := r.breaker(endpoint).Execute(func() (interface{}, error) {
		tCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		client := r.newClient(endpoint)

		if _, err := client.GetLatestBlockhash(tCtx, rpc.CommitmentFinalized); err != nil {
			return nil, fmt.Errorf("liveness probe failed: %w", err)
		}

		balance, err := client.GetBalance(tCtx, pubkey, rpc.CommitmentFinalized)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch balance: %w", err)
		}
		return balance.Value, nil
	})
	if err != nil {
		return 0, err
	}
	return result.(uint64), nil
}

func (r *Resolver) breaker(endpoint string) *gobreaker.CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cb, ok := r.breakers[endpoint]; ok {
		return cb
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        endpoint,
		MaxRequests: 3,
		Interval:    5 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
	r.breakers[endpoint] = cb
	return cb
}

// LamportsToSol converts lamports to whole SOL for display.
func LamportsToSol(lamports uint64) float64 {
	return float64(lamports) / float64(solana.LAMPORTS_PER_SOL)
}
