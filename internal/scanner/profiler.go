package scanner

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/polyscout/insiderscan/internal/config"
	"github.com/polyscout/insiderscan/internal/polymarket/dataapi"
	"github.com/polyscout/insiderscan/internal/scoring"
)

// unknownDays is the sentinel for timing signals that could not be derived,
// chosen high enough to clear every recency tier.
const unknownDays = 999

// Profiler derives the scoring feature vector for one wallet in the context
// of one market. The three upstream reads run concurrently; if any of them
// fails the wallet cannot be profiled and is dropped by the caller.
type Profiler struct {
	client *dataapi.Client
	cfg    *config.Config
	now    func() time.Time
}

// NewProfiler creates a profiler backed by the data API client.
func NewProfiler(client *dataapi.Client, cfg *config.Config) *Profiler {
	return &Profiler{client: client, cfg: cfg, now: time.Now}
}

// Profile fetches the wallet's positions, bounded activity log and
// redemption history, then derives the feature vector for the given market.
// holderValue is the holder-listing valuation of the wallet's stake, used
// when the positions list has no record for this market yet.
func (p *Profiler) Profile(ctx context.Context, wallet, conditionID string, holderValue float64) (scoring.Features, error) {
	var (
		wg          sync.WaitGroup
		positions   []dataapi.Position
		activities  []dataapi.Activity
		redemptions []dataapi.Activity
		first       *dataapi.Activity
		posErr      error
		actErr      error
		redeemErr   error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		positions, posErr = p.client.GetPositions(ctx, wallet, p.cfg.PositionSizeThreshold)
	}()
	go func() {
		defer wg.Done()
		activities, actErr = p.client.GetActivity(ctx, wallet, dataapi.ActivityParams{
			Limit: p.cfg.ActivityLimit,
		})
		if actErr != nil {
			return
		}
		// Preferred account-age source. The bounded log is the fallback
		// when the wallet's oldest record is not retrievable.
		first, _ = p.client.GetFirstActivity(ctx, wallet)
	}()
	go func() {
		defer wg.Done()
		redemptions, redeemErr = p.client.GetActivity(ctx, wallet, dataapi.ActivityParams{
			Limit: p.cfg.ActivityLimit,
			Type:  dataapi.ActivityTypeRedeem,
		})
	}()
	wg.Wait()

	if posErr != nil {
		return scoring.Features{}, fmt.Errorf("positions for %s: %w", wallet, posErr)
	}
	if actErr != nil {
		return scoring.Features{}, fmt.Errorf("activity for %s: %w", wallet, actErr)
	}
	if redeemErr != nil {
		return scoring.Features{}, fmt.Errorf("redemptions for %s: %w", wallet, redeemErr)
	}

	return p.derive(conditionID, holderValue, positions, activities, redemptions, first), nil
}

func (p *Profiler) derive(conditionID string, holderValue float64, positions []dataapi.Position, activities, redemptions []dataapi.Activity, first *dataapi.Activity) scoring.Features {
	f := scoring.Features{
		AccountAgeDays:  unknownDays,
		MarketEntryDays: unknownDays,
	}

	markets := make(map[string]struct{}, len(positions))
	var thisMarketValue float64
	inPositions := false
	for i := range positions {
		pos := &positions[i]
		markets[pos.ConditionID] = struct{}{}
		f.TotalValueUSD += pos.Value()
		f.RealizedPnLUSD += pos.RealizedPnL
		f.OpenPnLUSD += pos.CashPnL
		if pos.ConditionID == conditionID {
			thisMarketValue += pos.Value()
			inPositions = true
		}
	}
	f.TotalMarkets = len(markets)
	if !inPositions {
		// The positions list can lag the holder listing, or the position
		// may sit below the size threshold. Value the market at the
		// holder-listing stake so the portfolio ratio stays meaningful.
		thisMarketValue = holderValue
	}

	f.MarketRatio = 1
	if f.TotalValueUSD > 0 {
		f.MarketRatio = thisMarketValue / f.TotalValueUSD
	}

	if age, ok := p.accountAgeDays(activities, first); ok {
		f.AccountAgeDays = age
	}

	var entrySize, entryWeighted float64
	var earliestTrade int64
	for i := range activities {
		a := &activities[i]
		if a.ConditionID != conditionID || a.Type != dataapi.ActivityTypeTrade {
			continue
		}
		if a.Timestamp > 0 && (earliestTrade == 0 || a.Timestamp < earliestTrade) {
			earliestTrade = a.Timestamp
		}
		if a.Size > 0 && a.Price > 0 {
			entrySize += a.Size
			entryWeighted += a.Price * a.Size
		}
	}
	if earliestTrade > 0 {
		f.MarketEntryDays = p.daysSince(earliestTrade)
	}
	if entrySize > 0 {
		f.AvgEntryPrice = entryWeighted / entrySize
	} else {
		// No trades in the bounded log: fall back to the open position's
		// recorded average entry price.
		for i := range positions {
			if positions[i].ConditionID == conditionID {
				f.AvgEntryPrice = positions[i].AvgPrice
				break
			}
		}
	}

	f.RedeemCount = len(redemptions)
	for i := range redemptions {
		f.RedeemTotalUSD += redemptions[i].USDCSize
	}

	f.CategoryRatio = p.categoryRatio(positions)

	return f
}

// accountAgeDays derives the account age from the oldest known activity
// record, preferring the dedicated oldest-record lookup over the bounded log.
func (p *Profiler) accountAgeDays(activities []dataapi.Activity, first *dataapi.Activity) (int, bool) {
	var oldest int64
	if first != nil && first.Timestamp > 0 {
		oldest = first.Timestamp
	} else {
		for i := range activities {
			ts := activities[i].Timestamp
			if ts > 0 && (oldest == 0 || ts < oldest) {
				oldest = ts
			}
		}
	}
	if oldest == 0 {
		return 0, false
	}
	return p.daysSince(oldest), true
}

func (p *Profiler) daysSince(unixSec int64) int {
	d := int(p.now().Unix()-unixSec) / 86400
	if d < 0 {
		return 0
	}
	return d
}

// categoryRatio measures how concentrated the portfolio is on one topic. It
// takes the larger of two signals: the biggest fraction of positions sharing
// one event grouping, and the fraction of positions matching the configured
// topical keywords.
func (p *Profiler) categoryRatio(positions []dataapi.Position) float64 {
	if len(positions) == 0 {
		return 0
	}

	events := make(map[string]int)
	keywordHits := 0
	for i := range positions {
		pos := &positions[i]
		if pos.EventSlug != "" {
			events[pos.EventSlug]++
		}
		text := strings.ToLower(pos.Title + " " + pos.Slug + " " + pos.EventSlug)
		for _, kw := range p.cfg.CategoryKeywords {
			if strings.Contains(text, kw) {
				keywordHits++
				break
			}
		}
	}

	maxEvent := 0
	for _, n := range events {
		if n > maxEvent {
			maxEvent = n
		}
	}

	total := float64(len(positions))
	eventRatio := float64(maxEvent) / total
	keywordRatio := float64(keywordHits) / total
	if eventRatio > keywordRatio {
		return eventRatio
	}
	return keywordRatio
}
