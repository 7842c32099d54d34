package yield

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/max-de-bug/portion-app-sub001/pkg/models"
)

// stubSource returns a scripted result for aggregation tests.
type stubSource struct {
	name     string
	priority int
	opps     []models.YieldOpportunity
	err      error
}

func (s *stubSource) Name() string  { return s.name }
func (s *stubSource) Priority() int { return s.priority }

func (s *stubSource) Opportunities(ctx context.Context, token string) ([]models.YieldOpportunity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.opps, nil
}

func TestAggregatedYields(t *testing.T) {
	t.Run("Orders By APY Descending", func(t *testing.T) {
		// Arrange
		a := NewAggregator(
			&stubSource{name: "vault", priority: 1, opps: []models.YieldOpportunity{
				{Source: "Vault A", APY: 7.2, Priority: 1},
			}},
			&stubSource{name: "lp", priority: 3, opps: []models.YieldOpportunity{
				{Source: "LP SOL/USDV", APY: 12.8, Priority: 3},
				{Source: "LP BONK/USDV", APY: 4.1, Priority: 3},
			}},
		)

		// Act
		got := a.AggregatedYields(context.Background(), "USDV")

		// Assert
		require.Len(t, got, 3)
		assert.Equal(t, "LP SOL/USDV", got[0].Source)
		assert.Equal(t, "Vault A", got[1].Source)
		assert.Equal(t, "LP BONK/USDV", got[2].Source)
	})

	t.Run("Equal APY Ties Break By Source Priority", func(t *testing.T) {
		a := NewAggregator(
			&stubSource{name: "lp", priority: 3, opps: []models.YieldOpportunity{
				{Source: "LP Pool", APY: 9.0, Priority: 3},
			}},
			&stubSource{name: "vault", priority: 1, opps: []models.YieldOpportunity{
				{Source: "Vault", APY: 9.0, Priority: 1},
			}},
		)

		got := a.AggregatedYields(context.Background(), "USDV")

		require.Len(t, got, 2)
		assert.Equal(t, "Vault", got[0].Source)
		assert.Equal(t, "LP Pool", got[1].Source)
	})

	t.Run("Failing Source Is Omitted", func(t *testing.T) {
		a := NewAggregator(
			&stubSource{name: "vault", priority: 1, err: errors.New("upstream down")},
			&stubSource{name: "wrapper", priority: 2, opps: []models.YieldOpportunity{
				{Source: "Wrapper", APY: 6.5, Priority: 2},
			}},
		)

		got := a.AggregatedYields(context.Background(), "USDV")

		require.Len(t, got, 1)
		assert.Equal(t, "Wrapper", got[0].Source)
	})

	t.Run("All Sources Failing Returns Empty List", func(t *testing.T) {
		a := NewAggregator(
			&stubSource{name: "vault", priority: 1, err: errors.New("down")},
			&stubSource{name: "lp", priority: 3, err: errors.New("down")},
		)

		got := a.AggregatedYields(context.Background(), "USDV")

		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("No Sources", func(t *testing.T) {
		a := NewAggregator()

		got := a.AggregatedYields(context.Background(), "USDV")

		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
