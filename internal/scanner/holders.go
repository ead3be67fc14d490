// Package scanner implements the scan pipeline: holder fetching, wallet
// profiling, per-market analysis, cross-market aggregation and the scan
// driver that ties them together.
package scanner

import (
	"context"
	"fmt"

	"github.com/polyscout/insiderscan/internal/config"
	"github.com/polyscout/insiderscan/internal/marketsource"
	"github.com/polyscout/insiderscan/internal/polymarket/dataapi"
)

// Outcome side labels as rendered in holder positions and snapshots.
const (
	SideYes = "YES"
	SideNo  = "NO"
)

// HolderPosition is one holder of the market under analysis, with the
// position valued at the market's current outcome price.
type HolderPosition struct {
	Wallet   string
	Name     string
	Side     string
	Shares   float64
	Price    float64
	ValueUSD float64

	// Longshot marks positions admitted by the large-share carve-out
	// rather than the dollar floor.
	Longshot bool
}

// HolderFetcher materializes the qualifying holder list of a market.
type HolderFetcher struct {
	client *dataapi.Client
	cfg    *config.Config
}

// NewHolderFetcher creates a holder fetcher backed by the data API client.
func NewHolderFetcher(client *dataapi.Client, cfg *config.Config) *HolderFetcher {
	return &HolderFetcher{client: client, cfg: cfg}
}

// Fetch returns the market's holders that clear the inclusion rules: a
// dollar floor on position value, or a large share count at a longshot
// price. Blacklisted wallets are dropped before valuation.
func (f *HolderFetcher) Fetch(ctx context.Context, m marketsource.Market) ([]HolderPosition, error) {
	tokenHolders, err := f.client.GetHolders(ctx, m.ConditionID, f.cfg.TopHoldersLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch holders for %s: %w", m.ConditionID, err)
	}

	var out []HolderPosition
	for _, token := range tokenHolders {
		for i := range token.Holders {
			h := &token.Holders[i]
			if f.cfg.IsBlacklisted(h.ProxyWallet) {
				continue
			}

			side := SideYes
			price := m.YesPrice()
			if h.OutcomeIndex != 0 {
				side = SideNo
				price = m.NoPrice()
			}

			value := h.Amount * price
			longshot := h.Amount >= f.cfg.LongshotMinShares && price <= f.cfg.LongshotMaxPrice
			if value < f.cfg.MinPositionUSD && !longshot {
				continue
			}

			out = append(out, HolderPosition{
				Wallet:   h.ProxyWallet,
				Name:     h.DisplayName(),
				Side:     side,
				Shares:   h.Amount,
				Price:    price,
				ValueUSD: value,
				Longshot: longshot,
			})
		}
	}

	return out, nil
}
