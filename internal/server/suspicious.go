package server

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/polyscout/insiderscan/internal/marketsource"
	"github.com/polyscout/insiderscan/internal/metrics"
	"github.com/polyscout/insiderscan/internal/scanner"
)

// Severity bands on the on-demand entry flag.
const (
	flagHigh   = "HIGH"
	flagMedium = "MEDIUM"
	flagLow    = "LOW"
)

// flaggedEntry is one scored holder in the on-demand response.
type flaggedEntry struct {
	Wallet           string  `json:"wallet"`
	Name             string  `json:"name"`
	Side             string  `json:"side"`
	ValueUSD         float64 `json:"amount"`
	Score            int     `json:"score"`
	Flag             string  `json:"flag,omitempty"`
	IsCamouflage     bool    `json:"isCamouflage"`
	TotalMarkets     int     `json:"totalMarkets"`
	MarketRatio      float64 `json:"marketRatio"`
	AccountAgeDays   int     `json:"accountAgeDays"`
	MarketEntryDays  int     `json:"marketEntryDays"`
	RealizedPnLUSD   float64 `json:"realizedPnl"`
	UnrealizedPnLUSD float64 `json:"unrealizedPnl"`
}

// analysisResult is the cached product of one on-demand market analysis.
type analysisResult struct {
	Market       string         `json:"market"`
	YesPrice     float64        `json:"yesPrice"`
	NoPrice      float64        `json:"noPrice"`
	TotalHolders int            `json:"totalHolders"`
	Suspicious   []flaggedEntry `json:"suspicious"`
	All          []flaggedEntry `json:"all"`

	analyzedAt time.Time
}

// suspiciousResponse wraps the analysis with cache provenance.
type suspiciousResponse struct {
	analysisResult
	Cached      bool   `json:"cached"`
	CacheAgeSec int    `json:"cacheAge"`
	Error       string `json:"error,omitempty"`
}

func (s *Server) handleSuspicious(c echo.Context) error {
	conditionID := c.QueryParam("market")
	if conditionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "market query parameter is required",
		})
	}

	yesPrice := parsePrice(c.QueryParam("yesPrice"))
	noPrice := parsePrice(c.QueryParam("noPrice"))

	if v, ok := s.cache.Get(conditionID); ok {
		metrics.AnalysisCacheHits.WithLabelValues("hit").Inc()
		res := v.(*analysisResult)
		return c.JSON(http.StatusOK, suspiciousResponse{
			analysisResult: *res,
			Cached:         true,
			CacheAgeSec:    int(time.Since(res.analyzedAt).Seconds()),
		})
	}
	metrics.AnalysisCacheHits.WithLabelValues("miss").Inc()

	m := marketsource.Market{
		ConditionID: conditionID,
		OutcomePrices: []string{
			strconv.FormatFloat(yesPrice, 'f', -1, 64),
			strconv.FormatFloat(noPrice, 'f', -1, 64),
		},
	}

	entries, err := s.analyzer.AnalyzeMarketAll(c.Request().Context(), m)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"market": conditionID,
		}).WithError(err).Error("On-demand analysis failed")

		// Serve the previous result past its TTL rather than nothing.
		if v, present, _ := s.cache.GetStale(conditionID); present {
			metrics.AnalysisCacheHits.WithLabelValues("stale").Inc()
			res := v.(*analysisResult)
			return c.JSON(http.StatusOK, suspiciousResponse{
				analysisResult: *res,
				Cached:         true,
				CacheAgeSec:    int(time.Since(res.analyzedAt).Seconds()),
				Error:          "using stale cache due to error",
			})
		}
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "analysis failed",
		})
	}

	res := s.buildResult(conditionID, yesPrice, noPrice, entries)
	s.cache.Set(conditionID, res)

	return c.JSON(http.StatusOK, suspiciousResponse{analysisResult: *res})
}

func (s *Server) buildResult(conditionID string, yesPrice, noPrice float64, entries []scanner.Entry) *analysisResult {
	all := make([]flaggedEntry, 0, len(entries))
	for _, e := range entries {
		all = append(all, flaggedEntry{
			Wallet:           e.Wallet,
			Name:             e.Name,
			Side:             e.Side,
			ValueUSD:         e.ValueUSD,
			Score:            e.Score,
			Flag:             severityFlag(e.Score),
			IsCamouflage:     e.IsCamouflage,
			TotalMarkets:     e.TotalMarkets,
			MarketRatio:      e.MarketRatio,
			AccountAgeDays:   e.AccountAgeDays,
			MarketEntryDays:  e.MarketEntryDays,
			RealizedPnLUSD:   e.RealizedPnLUSD,
			UnrealizedPnLUSD: e.UnrealizedPnLUSD,
		})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Score > all[j].Score })

	suspicious := make([]flaggedEntry, 0)
	for _, e := range all {
		if e.Score >= s.cfg.MinScore {
			suspicious = append(suspicious, e)
		}
	}

	return &analysisResult{
		Market:       conditionID,
		YesPrice:     yesPrice,
		NoPrice:      noPrice,
		TotalHolders: len(all),
		Suspicious:   suspicious,
		All:          all,
		analyzedAt:   time.Now(),
	}
}

func severityFlag(score int) string {
	switch {
	case score >= 70:
		return flagHigh
	case score >= 50:
		return flagMedium
	case score >= 30:
		return flagLow
	default:
		return ""
	}
}

func parsePrice(raw string) float64 {
	if raw == "" {
		return 0.5
	}
	p, err := strconv.ParseFloat(raw, 64)
	if err != nil || p <= 0 || p > 1 {
		return 0.5
	}
	return p
}
