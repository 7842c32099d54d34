// Package balances caches resolved balances in front of the RPC failover
// chain, implementing the integrator policy: results are fresh for 15s,
// served stale up to 5m when refresh fails, and refreshed on an interval.
package balances

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/avast/retry-go/v5"

	"github.com/max-de-bug/portion-app-sub001/pkg/chain"
)

// Lookup is the resolver dependency, satisfied by *chain.Resolver.
type Lookup interface {
	ResolveBalance(ctx context.Context, address string, network chain.Network) (uint64, error)
}

type cacheEntry struct {
	lamports  uint64
	fetchedAt time.Time
}

// Service is the single owner of the balance cache.
type Service struct {
	resolver Lookup
	network  chain.Network
	fresh    time.Duration
	maxStale time.Duration
	attempts uint
	now      func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// New creates a balance Service over the given resolver and network.
func New(resolver Lookup, network chain.Network) *Service {
	return &Service{
		resolver: resolver,
		network:  network,
		fresh:    15 * time.Second,
		maxStale: 5 * time.Minute,
		attempts: 3,
		now:      time.Now,
		cache:    make(map[string]cacheEntry),
	}
}

// Balance returns the wallet's native balance in lamports. A fresh cache hit
// skips the network entirely. On refresh failure a stale entry younger than
// the 5 minute ceiling is served instead of the error.
func (s *Service) Balance(ctx context.Context, wallet string) (uint64, error) {
	now := s.now()

	s.mu.Lock()
	entry, cached := s.cache[wallet]
	s.mu.Unlock()

	if cached && now.Sub(entry.fetchedAt) < s.fresh {
		return entry.lamports, nil
	}

	lamports, err := s.fetch(ctx, wallet)
	if err != nil {
		if cached && now.Sub(entry.fetchedAt) < s.maxStale {
			slog.Warn("balance refresh failed, serving cached value",
				"wallet", wallet, "age", now.Sub(entry.fetchedAt), "error", err)
			return entry.lamports, nil
		}
		return 0, err
	}

	s.mu.Lock()
	s.cache[wallet] = cacheEntry{lamports: lamports, fetchedAt: now}
	s.mu.Unlock()

	return lamports, nil
}

// fetch runs the resolver with a small number of attempts and exponential
// backoff. Invalid addresses are not retried.
func (s *Service) fetch(ctx context.Context, wallet string) (uint64, error) {
	var lamports uint64

	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, chain.ErrInvalidAddress)
		}),
	)

	err := r.Do(func() error {
		var callErr error
		lamports, callErr = s.resolver.ResolveBalance(ctx, wallet, s.network)
		return callErr
	})
	if err != nil {
		return 0, err
	}
	return lamports, nil
}

// StartRefresh re-resolves every cached wallet on the given interval until
// ctx is cancelled. Lookups are pure reads, so an abandoned refresh has no
// side effects.
func (s *Service) StartRefresh(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.mu.Lock()
				wallets := make([]string, 0, len(s.cache))
				for w := range s.cache {
					wallets = append(wallets, w)
				}
				s.mu.Unlock()

				for _, w := range wallets {
					if _, err := s.Balance(ctx, w); err != nil {
						slog.Warn("background balance refresh failed", "wallet", w, "error", err)
					}
				}
			}
		}
	}()
}
