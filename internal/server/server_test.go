package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyscout/insiderscan/internal/config"
	"github.com/polyscout/insiderscan/internal/polymarket/dataapi"
	"github.com/polyscout/insiderscan/internal/scanner"
	"github.com/polyscout/insiderscan/internal/snapshot"
)

// upstream fakes the data API with one permanently suspicious wallet. The
// failing flag turns every endpoint into a 500.
type upstream struct {
	failing atomic.Bool
}

func (u *upstream) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/holders", func(w http.ResponseWriter, r *http.Request) {
		if u.failing.Load() {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode([]dataapi.TokenHolders{{
			Holders: []dataapi.Holder{
				{ProxyWallet: "0xsus", Pseudonym: "quiet-fox", Amount: 100000, OutcomeIndex: 0},
			},
		}})
	})
	mux.HandleFunc("/positions", func(w http.ResponseWriter, r *http.Request) {
		if u.failing.Load() {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode([]dataapi.Position{{
			ConditionID:  "0xmarket",
			CurrentValue: 20000,
			AvgPrice:     0.10,
			EventSlug:    "openai-announcements",
			Title:        "OpenAI announcement market",
		}})
	})
	mux.HandleFunc("/activity", func(w http.ResponseWriter, r *http.Request) {
		if u.failing.Load() {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		twoDaysAgo := time.Now().Add(-48 * time.Hour).Unix()
		acts := []dataapi.Activity{
			{ConditionID: "0xmarket", Type: dataapi.ActivityTypeTrade, Timestamp: twoDaysAgo, Size: 10000, Price: 0.10},
			{ConditionID: "0xother", Type: dataapi.ActivityTypeRedeem, Timestamp: twoDaysAgo, USDCSize: 60000},
		}
		if r.URL.Query().Get("type") == dataapi.ActivityTypeRedeem {
			acts = acts[1:]
		}
		json.NewEncoder(w).Encode(acts)
	})
	return mux
}

func newTestServer(t *testing.T, u *upstream, ttl time.Duration) (*Server, *snapshot.Store) {
	t.Helper()

	srv := httptest.NewServer(u.handler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		DataAPIBaseURL:        srv.URL,
		DataAPIAuthMode:       config.AuthModeNone,
		TopHoldersLimit:       30,
		MinPositionUSD:        5000,
		LongshotMinShares:     50000,
		LongshotMaxPrice:      0.10,
		ActivityLimit:         200,
		PositionSizeThreshold: 100,
		CategoryKeywords:      []string{"openai"},
		MinScore:              50,
		BatchSize:             5,
		HoldersRPS:            1000,
		PositionsRPS:          1000,
		ActivityRPS:           1000,
		SnapshotPath:          filepath.Join(t.TempDir(), "suspicious.json"),
		AnalysisCacheTTL:      ttl,
		ServerPort:            0,
	}

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	client := dataapi.NewClient(cfg)
	analyzer := scanner.NewAnalyzer(scanner.NewHolderFetcher(client, cfg), scanner.NewProfiler(client, cfg), cfg, log)
	store := snapshot.NewStore(cfg.SnapshotPath)
	return New(cfg, analyzer, store, log), store
}

func do(s *Server, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, &upstream{}, time.Minute)

	rec := do(s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSnapshotNotYetAvailable(t *testing.T) {
	s, _ := newTestServer(t, &upstream{}, time.Minute)

	rec := do(s, "/api/snapshot")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "snapshot not yet available", body["error"])
}

func TestSnapshotServed(t *testing.T) {
	s, store := newTestServer(t, &upstream{}, time.Minute)
	require.NoError(t, store.Write(&snapshot.Snapshot{
		TotalMarketsScanned: 7,
		Accounts:            []snapshot.SuspiciousAccount{{Wallet: "0x1", MaxScore: 90}},
	}))

	rec := do(s, "/api/snapshot")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap snapshot.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 7, snap.TotalMarketsScanned)
	require.Len(t, snap.Accounts, 1)
	assert.Equal(t, "0x1", snap.Accounts[0].Wallet)
}

func TestSuspiciousRequiresMarketParam(t *testing.T) {
	s, _ := newTestServer(t, &upstream{}, time.Minute)

	rec := do(s, "/api/suspicious")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuspiciousAnalyzesAndCaches(t *testing.T) {
	s, _ := newTestServer(t, &upstream{}, time.Minute)

	rec := do(s, "/api/suspicious?market=0xmarket&yesPrice=0.10&noPrice=0.90")
	require.Equal(t, http.StatusOK, rec.Code)

	var res suspiciousResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Cached)
	assert.Equal(t, "0xmarket", res.Market)
	assert.Equal(t, 0.10, res.YesPrice)
	require.Len(t, res.All, 1)
	assert.Equal(t, "0xsus", res.All[0].Wallet)
	assert.Equal(t, flagHigh, res.All[0].Flag)
	require.Len(t, res.Suspicious, 1)

	rec = do(s, "/api/suspicious?market=0xmarket&yesPrice=0.10&noPrice=0.90")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Cached)
}

func TestSuspiciousServesStaleOnError(t *testing.T) {
	u := &upstream{}
	// Entries expire immediately: every subsequent lookup is a cache miss
	// but the stored value remains available as stale fallback.
	s, _ := newTestServer(t, u, -time.Second)

	rec := do(s, "/api/suspicious?market=0xmarket")
	require.Equal(t, http.StatusOK, rec.Code)

	u.failing.Store(true)

	rec = do(s, "/api/suspicious?market=0xmarket")
	require.Equal(t, http.StatusOK, rec.Code)

	var res suspiciousResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Cached)
	assert.NotEmpty(t, res.Error)
	require.Len(t, res.All, 1)
}

func TestSuspiciousFailsWithoutFallback(t *testing.T) {
	u := &upstream{}
	u.failing.Store(true)
	s, _ := newTestServer(t, u, time.Minute)

	rec := do(s, "/api/suspicious?market=0xmarket")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
