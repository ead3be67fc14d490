package scanner

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/polyscout/insiderscan/internal/config"
	"github.com/polyscout/insiderscan/internal/marketsource"
	"github.com/polyscout/insiderscan/internal/metrics"
	"github.com/polyscout/insiderscan/internal/scoring"
)

// Entry is one scored holder of one market.
type Entry struct {
	Wallet           string
	Name             string
	Side             string
	ValueUSD         float64
	Score            int
	IsCamouflage     bool
	TotalMarkets     int
	MarketRatio      float64
	AccountAgeDays   int
	MarketEntryDays  int
	RealizedPnLUSD   float64
	UnrealizedPnLUSD float64
}

// Analyzer runs the per-market pipeline: fetch holders, profile each wallet,
// score, and keep the entries that clear the qualifying threshold.
type Analyzer struct {
	holders  *HolderFetcher
	profiler *Profiler
	weights  scoring.Weights
	cfg      *config.Config
	log      *logrus.Logger

	// sleep is injectable so tests run without real batch delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewAnalyzer creates a market analyzer.
func NewAnalyzer(holders *HolderFetcher, profiler *Profiler, cfg *config.Config, log *logrus.Logger) *Analyzer {
	return &Analyzer{
		holders:  holders,
		profiler: profiler,
		weights:  scoring.DefaultWeights(),
		cfg:      cfg,
		log:      log,
		sleep:    sleepCtx,
	}
}

// AnalyzeMarket returns the market's qualifying entries. Wallets whose
// profile cannot be completed are dropped; a holder-fetch failure fails the
// whole market.
func (a *Analyzer) AnalyzeMarket(ctx context.Context, m marketsource.Market) ([]Entry, error) {
	scored, err := a.analyzeAll(ctx, m)
	if err != nil {
		return nil, err
	}

	var qualifying []Entry
	for _, e := range scored {
		if e.Score >= a.cfg.MinScore {
			qualifying = append(qualifying, e)
		}
	}
	return qualifying, nil
}

// AnalyzeMarketAll returns every scored holder of the market, qualifying or
// not. Used by the on-demand endpoint, which reports both lists.
func (a *Analyzer) AnalyzeMarketAll(ctx context.Context, m marketsource.Market) ([]Entry, error) {
	return a.analyzeAll(ctx, m)
}

func (a *Analyzer) analyzeAll(ctx context.Context, m marketsource.Market) ([]Entry, error) {
	start := time.Now()
	holders, err := a.holders.Fetch(ctx, m)
	if err != nil {
		return nil, err
	}

	var scored []Entry
	for i := 0; i < len(holders); i += a.cfg.BatchSize {
		if i > 0 {
			if err := a.sleep(ctx, a.cfg.BatchDelay); err != nil {
				return nil, err
			}
		}

		end := i + a.cfg.BatchSize
		if end > len(holders) {
			end = len(holders)
		}
		scored = append(scored, a.profileBatch(ctx, m, holders[i:end])...)
	}

	metrics.MarketAnalysisDuration.Observe(time.Since(start).Seconds())
	return scored, nil
}

func (a *Analyzer) profileBatch(ctx context.Context, m marketsource.Market, batch []HolderPosition) []Entry {
	type outcome struct {
		entry Entry
		ok    bool
	}

	results := make([]outcome, len(batch))
	done := make(chan int, len(batch))
	for i := range batch {
		go func(i int) {
			defer func() { done <- i }()
			h := batch[i]
			features, err := a.profiler.Profile(ctx, h.Wallet, m.ConditionID, h.ValueUSD)
			if err != nil {
				metrics.WalletsProfiled.WithLabelValues("dropped").Inc()
				a.log.WithFields(logrus.Fields{
					"wallet": h.Wallet,
					"market": m.ConditionID,
				}).WithError(err).Debug("Dropping wallet, profile incomplete")
				return
			}
			metrics.WalletsProfiled.WithLabelValues("success").Inc()

			result := scoring.Score(scoring.Position{
				ValueUSD: h.ValueUSD,
				Shares:   h.Shares,
				Longshot: h.Longshot,
			}, features, a.weights)
			metrics.SuspicionScores.Observe(float64(result.Score))

			results[i] = outcome{
				entry: Entry{
					Wallet:           h.Wallet,
					Name:             h.Name,
					Side:             h.Side,
					ValueUSD:         h.ValueUSD,
					Score:            result.Score,
					IsCamouflage:     result.IsCamouflage,
					TotalMarkets:     features.TotalMarkets,
					MarketRatio:      features.MarketRatio,
					AccountAgeDays:   features.AccountAgeDays,
					MarketEntryDays:  features.MarketEntryDays,
					RealizedPnLUSD:   features.RealizedPnLUSD,
					UnrealizedPnLUSD: features.OpenPnLUSD,
				},
				ok: true,
			}
		}(i)
	}
	for range batch {
		<-done
	}

	var entries []Entry
	for _, r := range results {
		if r.ok {
			entries = append(entries, r.entry)
		}
	}
	return entries
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
