package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/polyscout/insiderscan/internal/config"
	"github.com/polyscout/insiderscan/internal/marketsource"
	"github.com/polyscout/insiderscan/internal/metrics"
	"github.com/polyscout/insiderscan/internal/snapshot"
)

// Scanner drives a full scan run: one pass over every candidate market,
// folding results into a single snapshot.
type Scanner struct {
	markets  *marketsource.Client
	analyzer *Analyzer
	store    *snapshot.Store
	cfg      *config.Config
	log      *logrus.Logger

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewScanner creates a scan driver.
func NewScanner(markets *marketsource.Client, analyzer *Analyzer, store *snapshot.Store, cfg *config.Config, log *logrus.Logger) *Scanner {
	return &Scanner{
		markets:  markets,
		analyzer: analyzer,
		store:    store,
		cfg:      cfg,
		log:      log,
		sleep:    sleepCtx,
		now:      time.Now,
	}
}

// Run executes one scan. A market-list failure aborts the run and leaves
// the previous snapshot untouched; a single market's failure only skips
// that market.
func (s *Scanner) Run(ctx context.Context) (*snapshot.Snapshot, error) {
	start := s.now()

	markets, err := s.markets.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch market list: %w", err)
	}
	s.log.WithField("markets", len(markets)).Info("Starting scan run")

	agg := NewAggregator()
	for i, m := range markets {
		if i > 0 {
			if err := s.sleep(ctx, s.cfg.MarketDelay); err != nil {
				return nil, err
			}
		}

		entries, err := s.analyzer.AnalyzeMarket(ctx, m)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			metrics.MarketsAnalyzed.WithLabelValues("holders_error").Inc()
			s.log.WithFields(logrus.Fields{
				"market": m.ConditionID,
				"slug":   m.Slug,
			}).WithError(err).Warn("Skipping market, analysis failed")
			continue
		}

		if len(entries) == 0 {
			metrics.MarketsAnalyzed.WithLabelValues("empty").Inc()
		} else {
			metrics.MarketsAnalyzed.WithLabelValues("success").Inc()
		}

		for _, e := range entries {
			agg.Add(m, e)
		}

		s.log.WithFields(logrus.Fields{
			"market":     m.Slug,
			"progress":   fmt.Sprintf("%d/%d", i+1, len(markets)),
			"qualifying": len(entries),
		}).Debug("Market analyzed")
	}

	elapsed := s.now().Sub(start)
	snap := &snapshot.Snapshot{
		UpdatedAt:           s.now().UTC(),
		TotalMarketsScanned: len(markets),
		ScanDurationSeconds: int(elapsed.Seconds()),
		Accounts:            agg.Accounts(),
	}
	snap.Finalize(s.cfg.TopK)

	if err := s.store.Write(snap); err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}

	metrics.RecordScan(elapsed, len(snap.Accounts))
	s.log.WithFields(logrus.Fields{
		"accounts": len(snap.Accounts),
		"duration": elapsed.Round(time.Second).String(),
		"path":     s.store.Path(),
	}).Info("Scan complete")
	s.logTopAccounts(snap)

	return snap, nil
}

// logTopAccounts prints the run's headline findings.
func (s *Scanner) logTopAccounts(snap *snapshot.Snapshot) {
	top := snap.Accounts
	if len(top) > 10 {
		top = top[:10]
	}
	for i, acct := range top {
		name := acct.Name
		if name == "" && len(acct.Wallet) >= 10 {
			name = acct.Wallet[:10]
		}
		s.log.WithFields(logrus.Fields{
			"rank":       i + 1,
			"score":      acct.MaxScore,
			"name":       name,
			"totalValue": fmt.Sprintf("%.0f", acct.TotalValueUSD),
			"pnl":        fmt.Sprintf("%.0f", acct.RealizedPnLUSD+acct.UnrealizedPnLUSD),
			"camouflage": acct.IsCamouflage,
		}).Info("Top suspicious account")
	}
}
