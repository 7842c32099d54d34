package yield

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/max-de-bug/portion-app-sub001/pkg/models"
)

// PositionProvider reports a wallet's spendable yield. The accrual formula
// lives with the staking protocol, not here: this layer only ever spends
// what the protocol reports as accrued, never principal.
type PositionProvider interface {
	SpendableYield(ctx context.Context, wallet string) (*models.YieldSnapshot, error)
}

// TokenBalanceProvider reports a wallet's token holdings as tracked by the
// staking protocol.
type TokenBalanceProvider interface {
	TokenBalances(ctx context.Context, wallet string) ([]models.TokenBalance, error)
}

// VaultPositions reads positions from the staking vault API.
type VaultPositions struct {
	BaseURL string
	Client  *http.Client
	now     func() time.Time
}

func NewVaultPositions(baseURL string) *VaultPositions {
	return &VaultPositions{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
		now:     time.Now,
	}
}

// SpendableYield returns the protocol-reported accrued yield for the wallet.
func (v *VaultPositions) SpendableYield(ctx context.Context, wallet string) (*models.YieldSnapshot, error) {
	var body struct {
		AccruedYield float64 `json:"accruedYield"`
		Positions    []struct {
			Source  string  `json:"source"`
			Accrued float64 `json:"accrued"`
		} `json:"positions"`
	}
	url := fmt.Sprintf("%s/v1/positions/%s", v.BaseURL, wallet)
	if err := httpJSON(ctx, v.Client, url, &body); err != nil {
		return nil, fmt.Errorf("failed to fetch positions: %w", err)
	}

	breakdown := make([]models.YieldSourceAmount, 0, len(body.Positions))
	for _, p := range body.Positions {
		breakdown = append(breakdown, models.YieldSourceAmount{Source: p.Source, Amount: p.Accrued})
	}

	return &models.YieldSnapshot{
		Wallet:         wallet,
		SpendableYield: body.AccruedYield,
		AsOf:           v.now(),
		Breakdown:      breakdown,
	}, nil
}

// TokenBalances returns the wallet's token holdings tracked by the vault.
func (v *VaultPositions) TokenBalances(ctx context.Context, wallet string) ([]models.TokenBalance, error) {
	var body struct {
		Balances []struct {
			Symbol string  `json:"symbol"`
			Amount float64 `json:"amount"`
		} `json:"balances"`
	}
	url := fmt.Sprintf("%s/v1/balances/%s", v.BaseURL, wallet)
	if err := httpJSON(ctx, v.Client, url, &body); err != nil {
		return nil, fmt.Errorf("failed to fetch token balances: %w", err)
	}

	balances := make([]models.TokenBalance, 0, len(body.Balances))
	for _, b := range body.Balances {
		balances = append(balances, models.TokenBalance{
			Symbol:    b.Symbol,
			Balance:   b.Amount,
			Formatted: models.FormatAmount(b.Amount, b.Symbol),
		})
	}
	return balances, nil
}

// DemoPositions serves a fixed spendable yield so the payment flow can be
// exercised without a funded staking position.
type DemoPositions struct {
	Amount float64
}

func (d *DemoPositions) SpendableYield(_ context.Context, wallet string) (*models.YieldSnapshot, error) {
	return &models.YieldSnapshot{
		Wallet:         wallet,
		SpendableYield: d.Amount,
		AsOf:           time.Now(),
		Breakdown: []models.YieldSourceAmount{
			{Source: "Demo Staking Vault", Amount: d.Amount},
		},
	}, nil
}
