package scoring

// Band is one tier of a scoring rule: a value limit paired with the points
// awarded (or subtracted) when the limit is met.
type Band struct {
	Limit  float64
	Points int
}

// Weights is the full tunable configuration of the scoring engine. Each
// factor is a tier table rather than inline thresholds so weights can be
// adjusted and tested without touching control flow.
type Weights struct {
	// EntryRecency awards points the sooner the wallet entered this market.
	// Bands are ascending day limits; the first band at or above the value wins.
	EntryRecency []Band

	// AccountAge awards points the younger the account is, in days.
	AccountAge []Band

	// MarketConcentration awards points the fewer markets the wallet holds.
	MarketConcentration []Band

	// PositionValue awards points by dollar exposure in this market.
	// Bands are descending dollar floors; the first band at or below wins.
	PositionValue []Band

	// Camouflage flags wallets that spread across many markets while one
	// market still takes a disproportionate share of portfolio value.
	CamouflageMinMarkets      int
	CamouflageMinMultiple     float64
	CamouflagePoints          int
	CamouflageDeepMinMarkets  int
	CamouflageDeepMinMultiple float64
	CamouflageDeepPoints      int

	// Contrarian awards points for large stakes at low entry prices.
	// Bands are ascending price ceilings, exclusive: a price exactly at a
	// ceiling falls into the next tier.
	Contrarian          []Band
	ContrarianMinShares float64
	ContrarianMinValue  float64

	// RedemptionVelocity awards points by redemptions per day of account age.
	RedemptionVelocity []Band

	// CategoryConcentration awards points by the fraction of the wallet's
	// positions sharing one event grouping or topical keyword.
	CategoryConcentration []Band

	// RedemptionTotal awards points by realized settlement proceeds.
	// The heaviest single factor: realized profit is hard to fake.
	RedemptionTotal []Band

	// Combo bonus when concentration and realized profit coincide.
	ComboMinCategoryRatio float64
	ComboMinRedeemTotal   float64
	ComboPoints           int

	// ProfitRatio awards points by redemption total over current exposure.
	ProfitRatio []Band

	// OpenPnLRatio awards points by unrealized gain over current exposure.
	OpenPnLRatio []Band

	// LossPenalty subtracts points for deeply negative open PnL ratios.
	// Bands are ascending (more negative first) ratio ceilings.
	LossPenalty []Band

	// OverDiversification subtracts points for holding very many markets,
	// but only when the wallet is not otherwise focused.
	OverDiversification  []Band
	FocusedCategoryRatio float64
	FocusedRedeemTotal   float64
	FocusedRedeemCount   int

	// LossDiversificationCombo subtracts additional points when both the
	// loss and the diversification conditions hold at once.
	LossDiversificationCombo int
}

// DefaultWeights returns the production scoring configuration.
func DefaultWeights() Weights {
	return Weights{
		EntryRecency: []Band{
			{Limit: 3, Points: 35},
			{Limit: 7, Points: 25},
			{Limit: 14, Points: 15},
		},
		AccountAge: []Band{
			{Limit: 7, Points: 25},
			{Limit: 30, Points: 15},
			{Limit: 90, Points: 5},
		},
		MarketConcentration: []Band{
			{Limit: 1, Points: 25},
			{Limit: 2, Points: 20},
			{Limit: 3, Points: 15},
			{Limit: 5, Points: 5},
		},
		PositionValue: []Band{
			{Limit: 50000, Points: 15},
			{Limit: 20000, Points: 12},
			{Limit: 10000, Points: 10},
			{Limit: 5000, Points: 5},
		},

		CamouflageMinMarkets:      6,
		CamouflageMinMultiple:     3,
		CamouflagePoints:          20,
		CamouflageDeepMinMarkets:  10,
		CamouflageDeepMinMultiple: 5,
		CamouflageDeepPoints:      10,

		Contrarian: []Band{
			{Limit: 0.15, Points: 30},
			{Limit: 0.25, Points: 20},
			{Limit: 0.35, Points: 10},
		},
		ContrarianMinShares: 10000,
		ContrarianMinValue:  5000,

		RedemptionVelocity: []Band{
			{Limit: 0.5, Points: 25},
			{Limit: 0.2, Points: 15},
			{Limit: 0.05, Points: 5},
		},
		CategoryConcentration: []Band{
			{Limit: 0.8, Points: 25},
			{Limit: 0.6, Points: 15},
			{Limit: 0.4, Points: 5},
		},
		RedemptionTotal: []Band{
			{Limit: 100000, Points: 70},
			{Limit: 50000, Points: 50},
			{Limit: 20000, Points: 35},
			{Limit: 5000, Points: 15},
		},

		ComboMinCategoryRatio: 0.5,
		ComboMinRedeemTotal:   50000,
		ComboPoints:           25,

		ProfitRatio: []Band{
			{Limit: 5, Points: 30},
			{Limit: 3, Points: 20},
			{Limit: 2, Points: 10},
		},
		OpenPnLRatio: []Band{
			{Limit: 3, Points: 30},
			{Limit: 2, Points: 20},
			{Limit: 1, Points: 10},
		},
		LossPenalty: []Band{
			{Limit: -1.0, Points: -40},
			{Limit: -0.5, Points: -25},
			{Limit: -0.2, Points: -10},
		},
		OverDiversification: []Band{
			{Limit: 50, Points: -30},
			{Limit: 20, Points: -20},
			{Limit: 10, Points: -10},
		},
		FocusedCategoryRatio: 0.4,
		FocusedRedeemTotal:   20000,
		FocusedRedeemCount:   15,

		LossDiversificationCombo: -15,
	}
}

// atMost returns the points of the first band whose limit is at or above the
// value. Bands must be ascending by limit.
func atMost(value float64, bands []Band) int {
	for _, b := range bands {
		if value <= b.Limit {
			return b.Points
		}
	}
	return 0
}

// atLeast returns the points of the first band whose limit is at or below
// the value. Bands must be descending by limit.
func atLeast(value float64, bands []Band) int {
	for _, b := range bands {
		if value >= b.Limit {
			return b.Points
		}
	}
	return 0
}

// below returns the points of the first band whose limit is strictly above
// the value. Bands must be ascending by limit.
func below(value float64, bands []Band) int {
	for _, b := range bands {
		if value < b.Limit {
			return b.Points
		}
	}
	return 0
}
