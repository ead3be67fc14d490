// Package scoring computes the composite suspicion score for one holder of
// one market. The engine is a pure function over a typed feature vector and
// a typed weight table: no clocks, no network, no shared state.
package scoring

// Position describes the holder's stake in the market being scored.
type Position struct {
	ValueUSD float64 // shares * outcome price
	Shares   float64
	Longshot bool // included via the large-shares-at-low-price carve-out
}

// Features holds the derived signals for one (wallet, market) pair.
type Features struct {
	TotalMarkets    int     // markets the wallet currently holds
	TotalValueUSD   float64 // full portfolio dollar value
	MarketRatio     float64 // this market's share of portfolio value, 0..1
	AccountAgeDays  int     // days since earliest recorded activity
	MarketEntryDays int     // days since first activity in this market
	AvgEntryPrice   float64 // size-weighted entry price in this market
	RedeemCount     int
	RedeemTotalUSD  float64 // realized settlement proceeds
	CategoryRatio   float64 // max of event-group and keyword concentration
	RealizedPnLUSD  float64
	OpenPnLUSD      float64 // unrealized
}

// Result is the scored outcome for one (wallet, market) pair.
type Result struct {
	Score        int
	IsCamouflage bool
}

// Score computes the composite suspicion score. Deterministic and
// side-effect-free; identical inputs always produce identical results.
// The score is not clamped: penalties may push it below zero, and the
// qualifying filter sees the raw value.
func Score(pos Position, f Features, w Weights) Result {
	score := 0

	// Timing signals: cheap, fast-available, weighted first.
	score += atMost(float64(f.MarketEntryDays), w.EntryRecency)
	score += atMost(float64(f.AccountAgeDays), w.AccountAge)
	score += atMost(float64(f.TotalMarkets), w.MarketConcentration)
	score += atLeast(pos.ValueUSD, w.PositionValue)

	camouflage := false
	if f.TotalMarkets >= w.CamouflageMinMarkets {
		// Multiple of the share this market would hold under an even spread.
		multiple := f.MarketRatio * float64(f.TotalMarkets)
		if multiple >= w.CamouflageMinMultiple {
			score += w.CamouflagePoints
			camouflage = true
		}
		if f.TotalMarkets >= w.CamouflageDeepMinMarkets && multiple >= w.CamouflageDeepMinMultiple {
			score += w.CamouflageDeepPoints
		}
	}

	if largeStake(pos, w) && f.AvgEntryPrice > 0 {
		score += below(f.AvgEntryPrice, w.Contrarian)
	}

	if f.AccountAgeDays > 0 {
		velocity := float64(f.RedeemCount) / float64(f.AccountAgeDays)
		score += atLeast(velocity, w.RedemptionVelocity)
	}

	score += atLeast(f.CategoryRatio, w.CategoryConcentration)
	score += atLeast(f.RedeemTotalUSD, w.RedemptionTotal)

	if f.CategoryRatio >= w.ComboMinCategoryRatio && f.RedeemTotalUSD >= w.ComboMinRedeemTotal {
		score += w.ComboPoints
	}

	if pos.ValueUSD > 0 {
		score += atLeast(f.RedeemTotalUSD/pos.ValueUSD, w.ProfitRatio)
	}

	lossApplied := false
	if pos.ValueUSD > 0 {
		pnlRatio := f.OpenPnLUSD / pos.ValueUSD
		if pnlRatio > 0 {
			score += atLeast(pnlRatio, w.OpenPnLRatio)
		} else if p := atMost(pnlRatio, w.LossPenalty); p != 0 {
			score += p
			lossApplied = true
		}
	}

	focused := f.CategoryRatio >= w.FocusedCategoryRatio ||
		f.RedeemTotalUSD >= w.FocusedRedeemTotal ||
		f.RedeemCount >= w.FocusedRedeemCount
	diversificationApplied := false
	if !focused {
		if p := atLeast(float64(f.TotalMarkets), w.OverDiversification); p != 0 {
			score += p
			diversificationApplied = true
		}
	}

	if lossApplied && diversificationApplied {
		score += w.LossDiversificationCombo
	}

	return Result{Score: score, IsCamouflage: camouflage}
}

func largeStake(pos Position, w Weights) bool {
	return pos.Longshot || pos.Shares >= w.ContrarianMinShares || pos.ValueUSD >= w.ContrarianMinValue
}
