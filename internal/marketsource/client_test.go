package marketsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomePrices(t *testing.T) {
	tests := []struct {
		name    string
		prices  []string
		wantYes float64
		wantNo  float64
	}{
		{"both prices present", []string{"0.12", "0.88"}, 0.12, 0.88},
		{"missing prices default", nil, 0.5, 0.5},
		{"only yes present", []string{"0.30"}, 0.30, 0.5},
		{"unparseable price defaults", []string{"n/a", "0.70"}, 0.5, 0.70},
		{"zero price defaults", []string{"0", "1"}, 0.5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Market{OutcomePrices: tt.prices}
			assert.Equal(t, tt.wantYes, m.YesPrice())
			assert.Equal(t, tt.wantNo, m.NoPrice())
		})
	}
}

func TestFetchDecodesMarketList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"markets":[
			{"conditionId":"0xa","question":"Will it ship?","slug":"will-it-ship","outcomePrices":["0.20","0.80"],"volume":12345.6}
		]}`))
	}))
	t.Cleanup(srv.Close)

	markets, err := NewClient(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, markets, 1)
	assert.Equal(t, "0xa", markets[0].ConditionID)
	assert.Equal(t, 0.20, markets[0].YesPrice())
	assert.Equal(t, 12345.6, markets[0].Volume)
}

func TestFetchFailsOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL).Fetch(context.Background())
	require.Error(t, err)
}
