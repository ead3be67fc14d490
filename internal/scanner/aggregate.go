package scanner

import (
	"github.com/polyscout/insiderscan/internal/marketsource"
	"github.com/polyscout/insiderscan/internal/snapshot"
)

// Aggregator folds qualifying entries from every scanned market into one
// account per wallet. Max score and summed value do not depend on fold
// order; the PnL fields keep the most recently processed entry's values.
type Aggregator struct {
	accounts map[string]*snapshot.SuspiciousAccount
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{accounts: make(map[string]*snapshot.SuspiciousAccount)}
}

// Add folds one qualifying entry into the wallet's account.
func (g *Aggregator) Add(m marketsource.Market, e Entry) {
	ref := snapshot.MarketSummary{
		Slug:            m.Slug,
		Question:        m.Question,
		ConditionID:     m.ConditionID,
		Side:            e.Side,
		ValueUSD:        e.ValueUSD,
		MarketRatio:     e.MarketRatio,
		MarketEntryDays: e.MarketEntryDays,
		Score:           e.Score,
	}

	acct, ok := g.accounts[e.Wallet]
	if !ok {
		g.accounts[e.Wallet] = &snapshot.SuspiciousAccount{
			Wallet:           e.Wallet,
			Name:             e.Name,
			TotalMarkets:     e.TotalMarkets,
			AccountAgeDays:   e.AccountAgeDays,
			IsCamouflage:     e.IsCamouflage,
			MaxScore:         e.Score,
			TotalValueUSD:    e.ValueUSD,
			RealizedPnLUSD:   e.RealizedPnLUSD,
			UnrealizedPnLUSD: e.UnrealizedPnLUSD,
			Markets:          []snapshot.MarketSummary{ref},
		}
		return
	}

	acct.Markets = append(acct.Markets, ref)
	if e.Score > acct.MaxScore {
		acct.MaxScore = e.Score
	}
	acct.TotalValueUSD += e.ValueUSD
	if e.IsCamouflage {
		acct.IsCamouflage = true
	}
	acct.RealizedPnLUSD = e.RealizedPnLUSD
	acct.UnrealizedPnLUSD = e.UnrealizedPnLUSD
}

// Len returns the number of distinct wallets folded so far.
func (g *Aggregator) Len() int {
	return len(g.accounts)
}

// Accounts returns the folded accounts in unspecified order.
func (g *Aggregator) Accounts() []snapshot.SuspiciousAccount {
	out := make([]snapshot.SuspiciousAccount, 0, len(g.accounts))
	for _, acct := range g.accounts {
		out = append(out, *acct)
	}
	return out
}
