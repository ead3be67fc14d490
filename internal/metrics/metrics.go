package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Scan metrics
	MarketsAnalyzed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insiderscan_markets_analyzed_total",
			Help: "Total number of markets analyzed",
		},
		[]string{"status"}, // success, holders_error, empty
	)

	WalletsProfiled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insiderscan_wallets_profiled_total",
			Help: "Total number of wallet profiling attempts",
		},
		[]string{"status"}, // success, dropped
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "insiderscan_scan_duration_seconds",
			Help:    "Duration of full scan runs",
			Buckets: []float64{30, 60, 120, 300, 600, 1200, 3600},
		},
	)

	MarketAnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "insiderscan_market_analysis_duration_seconds",
			Help:    "Duration of per-market analysis",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	SuspicionScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "insiderscan_suspicion_scores",
			Help:    "Distribution of computed suspicion scores",
			Buckets: []float64{-50, 0, 25, 50, 75, 100, 125, 150, 200, 300},
		},
	)

	SuspiciousAccounts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "insiderscan_suspicious_accounts",
			Help: "Number of suspicious accounts in the latest snapshot",
		},
	)

	// Upstream API metrics
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insiderscan_api_requests_total",
			Help: "Total number of upstream API requests",
		},
		[]string{"endpoint", "status"}, // holders/positions/activity/markets, success/error
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "insiderscan_api_request_duration_seconds",
			Help:    "Duration of upstream API requests",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	// On-demand analysis metrics
	AnalysisCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insiderscan_analysis_cache_total",
			Help: "On-demand analysis cache lookups",
		},
		[]string{"result"}, // hit, miss, stale
	)
)

// RecordAPIRequest records upstream API request metrics
func RecordAPIRequest(endpoint string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	APIRequests.WithLabelValues(endpoint, status).Inc()
	APIRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordScan records metrics for a completed scan run
func RecordScan(duration time.Duration, accounts int) {
	ScanDuration.Observe(duration.Seconds())
	SuspiciousAccounts.Set(float64(accounts))
}
