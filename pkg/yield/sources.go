// Package yield aggregates yield opportunities across providers and serves
// the protocol APY with cache-first degradation.
package yield

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/max-de-bug/portion-app-sub001/pkg/models"
)

// Source fetches yield opportunities from one provider. A source failing
// never aborts aggregation; its results are simply omitted.
type Source interface {
	// Name identifies the source in results and diagnostics.
	Name() string

	// Priority is the source's fixed rank, used as the stable tie-break
	// when two sources report the same rate.
	Priority() int

	// Opportunities returns the source's offers for the given token symbol.
	Opportunities(ctx context.Context, token string) ([]models.YieldOpportunity, error)
}

// httpJSON issues a GET and decodes the JSON body into out. Non-2xx
// responses are errors so callers treat them like any other endpoint failure.
func httpJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// StakingVaultSource reads vault offers from the staking vault API.
type StakingVaultSource struct {
	BaseURL string
	Client  *http.Client
}

func NewStakingVaultSource(baseURL string) *StakingVaultSource {
	return &StakingVaultSource{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *StakingVaultSource) Name() string  { return "Staking Vault" }
func (s *StakingVaultSource) Priority() int { return 1 }

func (s *StakingVaultSource) Opportunities(ctx context.Context, token string) ([]models.YieldOpportunity, error) {
	var body struct {
		Vaults []struct {
			Name string  `json:"name"`
			APY  float64 `json:"apy"`
			TVL  float64 `json:"tvl"`
			Risk string  `json:"risk"`
		} `json:"vaults"`
	}
	url := fmt.Sprintf("%s/v1/vaults?token=%s", s.BaseURL, token)
	if err := httpJSON(ctx, s.Client, url, &body); err != nil {
		return nil, err
	}

	opps := make([]models.YieldOpportunity, 0, len(body.Vaults))
	for _, v := range body.Vaults {
		opps = append(opps, models.YieldOpportunity{
			Source:   v.Name,
			APY:      v.APY,
			TVL:      v.TVL,
			Risk:     v.Risk,
			Priority: s.Priority(),
		})
	}
	return opps, nil
}

// LiquidWrapperSource reads the liquid-yield wrapper's current rate.
type LiquidWrapperSource struct {
	BaseURL string
	Client  *http.Client
}

func NewLiquidWrapperSource(baseURL string) *LiquidWrapperSource {
	return &LiquidWrapperSource{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *LiquidWrapperSource) Name() string  { return "Liquid Wrapper" }
func (s *LiquidWrapperSource) Priority() int { return 2 }

func (s *LiquidWrapperSource) Opportunities(ctx context.Context, token string) ([]models.YieldOpportunity, error) {
	var body struct {
		Symbol string  `json:"symbol"`
		APY    float64 `json:"apy"`
		TVL    float64 `json:"tvl"`
	}
	url := fmt.Sprintf("%s/v1/wrapper/%s", s.BaseURL, token)
	if err := httpJSON(ctx, s.Client, url, &body); err != nil {
		return nil, err
	}

	return []models.YieldOpportunity{{
		Source:   s.Name(),
		APY:      body.APY,
		TVL:      body.TVL,
		Risk:     "low",
		Priority: s.Priority(),
	}}, nil
}

// LPRewardsSource reads LP reward pools from the rewards API.
type LPRewardsSource struct {
	BaseURL string
	Client  *http.Client
}

func NewLPRewardsSource(baseURL string) *LPRewardsSource {
	return &LPRewardsSource{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *LPRewardsSource) Name() string  { return "LP Rewards" }
func (s *LPRewardsSource) Priority() int { return 3 }

func (s *LPRewardsSource) Opportunities(ctx context.Context, token string) ([]models.YieldOpportunity, error) {
	var body struct {
		Pools []struct {
			Pair string  `json:"pair"`
			APY  float64 `json:"apy"`
			TVL  float64 `json:"tvl"`
		} `json:"pools"`
	}
	url := fmt.Sprintf("%s/v1/pools?token=%s", s.BaseURL, token)
	if err := httpJSON(ctx, s.Client, url, &body); err != nil {
		return nil, err
	}

	opps := make([]models.YieldOpportunity, 0, len(body.Pools))
	for _, p := range body.Pools {
		opps = append(opps, models.YieldOpportunity{
			Source:   fmt.Sprintf("LP %s", p.Pair),
			APY:      p.APY,
			TVL:      p.TVL,
			Risk:     "medium",
			Priority: s.Priority(),
		})
	}
	return opps, nil
}
