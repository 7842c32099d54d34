package yield

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// APYOrigin tells the caller where a returned rate came from.
type APYOrigin string

const (
	APYLive      APYOrigin = "live"
	APYSecondary APYOrigin = "secondary"
	APYCached    APYOrigin = "cached"
	APYDefault   APYOrigin = "default"
)

const (
	// DefaultAPY is the last-resort rate when no source and no cache is
	// available. Yield display is advisory, so a plausible constant beats
	// a blank dashboard.
	DefaultAPY = 8.5

	apyCacheTTL = 5 * time.Minute
)

type apyCacheEntry struct {
	value     float64
	fetchedAt time.Time
}

// isFresh is the cache policy, separated from fetch logic so the
// degrade-to-cache behavior is testable on its own.
func isFresh(e apyCacheEntry, now time.Time, ttl time.Duration) bool {
	return now.Sub(e.fetchedAt) < ttl
}

// Oracle serves a protocol's current APY. It is cache-first and never fails
// outward: provider errors degrade to the stale cache or DefaultAPY.
type Oracle struct {
	primaryURL    string
	aggregatorURL string
	client        *http.Client
	ttl           time.Duration
	now           func() time.Time

	mu    sync.Mutex
	cache map[string]apyCacheEntry
}

// NewOracle creates an Oracle with the primary protocol API and the
// secondary yield-aggregator API as fallback.
func NewOracle(primaryURL, aggregatorURL string) *Oracle {
	return &Oracle{
		primaryURL:    primaryURL,
		aggregatorURL: aggregatorURL,
		client:        &http.Client{Timeout: 10 * time.Second},
		ttl:           apyCacheTTL,
		now:           time.Now,
		cache:         make(map[string]apyCacheEntry),
	}
}

// CurrentAPY returns the protocol's annualized rate as a percentage, along
// with where the value came from.
func (o *Oracle) CurrentAPY(ctx context.Context, protocol string) (float64, APYOrigin) {
	now := o.now()

	o.mu.Lock()
	entry, cached := o.cache[protocol]
	o.mu.Unlock()

	if cached && isFresh(entry, now, o.ttl) {
		return entry.value, APYCached
	}

	if apy, err := o.fetchPrimary(ctx, protocol); err == nil {
		o.store(protocol, apy, now)
		return apy, APYLive
	} else {
		slog.Warn("primary APY source failed", "protocol", protocol, "error", err)
	}

	if apy, err := o.fetchSecondary(ctx, protocol); err == nil {
		o.store(protocol, apy, now)
		return apy, APYSecondary
	} else {
		slog.Warn("secondary APY source failed", "protocol", protocol, "error", err)
	}

	if cached {
		return entry.value, APYCached
	}
	return DefaultAPY, APYDefault
}

func (o *Oracle) store(protocol string, apy float64, now time.Time) {
	o.mu.Lock()
	o.cache[protocol] = apyCacheEntry{value: apy, fetchedAt: now}
	o.mu.Unlock()
}

func (o *Oracle) fetchPrimary(ctx context.Context, protocol string) (float64, error) {
	var body struct {
		APY float64 `json:"apy"`
	}
	url := fmt.Sprintf("%s/v1/protocols/%s", o.primaryURL, protocol)
	if err := httpJSON(ctx, o.client, url, &body); err != nil {
		return 0, err
	}
	return body.APY, nil
}

// fetchSecondary searches the aggregator's pool list for the protocol's
// pool, matching on project name or symbol.
func (o *Oracle) fetchSecondary(ctx context.Context, protocol string) (float64, error) {
	var body struct {
		Data []struct {
			Project string  `json:"project"`
			Symbol  string  `json:"symbol"`
			APY     float64 `json:"apy"`
		} `json:"data"`
	}
	url := fmt.Sprintf("%s/pools", o.aggregatorURL)
	if err := httpJSON(ctx, o.client, url, &body); err != nil {
		return 0, err
	}

	needle := strings.ToLower(protocol)
	for _, pool := range body.Data {
		if strings.ToLower(pool.Project) == needle ||
			strings.Contains(strings.ToLower(pool.Symbol), needle) {
			return pool.APY, nil
		}
	}
	return 0, fmt.Errorf("no pool matching protocol %q in aggregator result", protocol)
}
