// Package snapshot defines the persisted scan result and its reader and
// writer. The snapshot file is the only state the scanner keeps: each run
// rebuilds it from scratch and replaces the previous one atomically.
package snapshot

import (
	"sort"
	"time"
)

// MarketSummary records one flagged (wallet, market) pair inside an account.
type MarketSummary struct {
	Slug            string  `json:"slug"`
	Question        string  `json:"question"`
	ConditionID     string  `json:"conditionId"`
	Side            string  `json:"side"`
	ValueUSD        float64 `json:"amount"`
	MarketRatio     float64 `json:"marketRatio"`
	MarketEntryDays int     `json:"marketEntryDays"`
	Score           int     `json:"score"`
}

// SuspiciousAccount is one wallet aggregated across every market where it
// qualified.
type SuspiciousAccount struct {
	Wallet           string          `json:"wallet"`
	Name             string          `json:"name"`
	TotalMarkets     int             `json:"totalMarkets"`
	AccountAgeDays   int             `json:"accountAgeDays"`
	IsCamouflage     bool            `json:"isCamouflage"`
	MaxScore         int             `json:"maxScore"`
	TotalValueUSD    float64         `json:"totalValue"`
	RealizedPnLUSD   float64         `json:"realizedPnl"`
	UnrealizedPnLUSD float64         `json:"unrealizedPnl"`
	Markets          []MarketSummary `json:"markets"`
}

// Snapshot is the full artifact produced by one scan run.
type Snapshot struct {
	UpdatedAt               time.Time           `json:"updatedAt"`
	TotalMarketsScanned     int                 `json:"totalMarketsScanned"`
	TotalSuspiciousAccounts int                 `json:"totalSuspiciousAccounts"`
	ScanDurationSeconds     int                 `json:"scanDurationSeconds"`
	Accounts                []SuspiciousAccount `json:"accounts"`
}

// Finalize orders accounts by descending max score and truncates to the top
// K entries. Ties break by total value, then wallet, so repeated runs over
// identical data produce identical files.
func (s *Snapshot) Finalize(topK int) {
	sort.Slice(s.Accounts, func(i, j int) bool {
		a, b := &s.Accounts[i], &s.Accounts[j]
		if a.MaxScore != b.MaxScore {
			return a.MaxScore > b.MaxScore
		}
		if a.TotalValueUSD != b.TotalValueUSD {
			return a.TotalValueUSD > b.TotalValueUSD
		}
		return a.Wallet < b.Wallet
	})
	if topK > 0 && len(s.Accounts) > topK {
		s.Accounts = s.Accounts[:topK]
	}
	s.TotalSuspiciousAccounts = len(s.Accounts)
}
