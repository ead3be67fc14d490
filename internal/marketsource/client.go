// Package marketsource fetches the candidate market list from the external
// discovery endpoint. Discovery and keyword filtering happen upstream; this
// client only consumes the resulting list.
package marketsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/polyscout/insiderscan/internal/metrics"
)

// Market is one candidate market supplied by the discovery endpoint
type Market struct {
	ConditionID   string   `json:"conditionId"`
	Question      string   `json:"question"`
	Slug          string   `json:"slug"`
	EventSlug     string   `json:"eventSlug"`
	OutcomePrices []string `json:"outcomePrices"` // [yes, no], decimal strings
	Volume        float64  `json:"volume"`
	EndDate       string   `json:"endDate"`
}

// YesPrice returns the YES outcome price, defaulting to 0.5 when absent.
func (m *Market) YesPrice() float64 {
	return m.outcomePrice(0)
}

// NoPrice returns the NO outcome price, defaulting to 0.5 when absent.
func (m *Market) NoPrice() float64 {
	return m.outcomePrice(1)
}

func (m *Market) outcomePrice(idx int) float64 {
	if idx < len(m.OutcomePrices) {
		if p, err := strconv.ParseFloat(m.OutcomePrices[idx], 64); err == nil && p > 0 {
			return p
		}
	}
	return 0.5
}

type marketsResponse struct {
	Markets []Market `json:"markets"`
}

// Client fetches candidate markets from the discovery endpoint
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a new market source client
func NewClient(url string) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch retrieves the candidate market list. A failure here is fatal for a
// scan run: there is no fallback source.
func (c *Client) Fetch(ctx context.Context) ([]Market, error) {
	start := time.Now()
	markets, err := c.fetch(ctx)
	metrics.RecordAPIRequest("/markets", time.Since(start), err)
	return markets, err
}

func (c *Client) fetch(ctx context.Context) ([]Market, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var decoded marketsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return decoded.Markets, nil
}
