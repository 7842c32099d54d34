package yield

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/max-de-bug/portion-app-sub001/pkg/models"
)

// Aggregator fans out to every configured source and merges the results
// into one ranked list.
type Aggregator struct {
	sources []Source
}

// NewAggregator creates an Aggregator over the given sources.
func NewAggregator(sources ...Source) *Aggregator {
	return &Aggregator{sources: sources}
}

// AggregatedYields queries every source concurrently and returns their
// offers ordered by APY descending, ties broken by source priority so the
// output is deterministic for identical inputs. A failing source is logged
// and omitted; when every source fails the result is an empty list, which
// is a valid state distinct from a hard failure.
func (a *Aggregator) AggregatedYields(ctx context.Context, token string) []models.YieldOpportunity {
	results := make([][]models.YieldOpportunity, len(a.sources))

	var wg sync.WaitGroup
	for i, src := range a.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			opps, err := src.Opportunities(ctx, token)
			if err != nil {
				slog.Warn("yield source failed, omitting from aggregate",
					"source", src.Name(), "token", token, "error", err)
				return
			}
			results[i] = opps
		}(i, src)
	}
	wg.Wait()

	merged := make([]models.YieldOpportunity, 0)
	for _, opps := range results {
		merged = append(merged, opps...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].APY != merged[j].APY {
			return merged[i].APY > merged[j].APY
		}
		return merged[i].Priority < merged[j].Priority
	})

	return merged
}
