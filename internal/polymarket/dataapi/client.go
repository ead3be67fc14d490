package dataapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/polyscout/insiderscan/internal/config"
	"github.com/polyscout/insiderscan/internal/metrics"
	"github.com/polyscout/insiderscan/internal/ratelimit"
)

// Client handles communication with the Polymarket Data API
type Client struct {
	baseURL      string
	httpClient   *http.Client
	authMode     config.AuthMode
	bearerToken  string
	apiKey       string
	extraHeaders map[string]string

	holdersLimiter   *ratelimit.Limiter
	positionsLimiter *ratelimit.Limiter
	activityLimiter  *ratelimit.Limiter
}

// NewClient creates a new Data API client
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:          cfg.DataAPIBaseURL,
		httpClient:       &http.Client{Timeout: 30 * time.Second},
		authMode:         cfg.DataAPIAuthMode,
		bearerToken:      cfg.DataAPIBearerToken,
		apiKey:           cfg.DataAPIAPIKey,
		extraHeaders:     cfg.DataAPIExtraHeaders,
		holdersLimiter:   ratelimit.New(cfg.HoldersRPS),
		positionsLimiter: ratelimit.New(cfg.PositionsRPS),
		activityLimiter:  ratelimit.New(cfg.ActivityRPS),
	}
}

// GetHolders fetches the top holders of a market, grouped by outcome token
func (c *Client) GetHolders(ctx context.Context, conditionID string, limit int) ([]TokenHolders, error) {
	if err := c.holdersLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("market", conditionID)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var holders []TokenHolders
	if err := c.getJSON(ctx, "/holders", q, &holders); err != nil {
		return nil, err
	}
	return holders, nil
}

// GetPositions fetches a wallet's open positions
func (c *Client) GetPositions(ctx context.Context, wallet string, sizeThreshold float64) ([]Position, error) {
	if err := c.positionsLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("user", wallet)
	q.Set("sizeThreshold", strconv.FormatFloat(sizeThreshold, 'f', -1, 64))

	var positions []Position
	if err := c.getJSON(ctx, "/positions", q, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// ActivityParams holds parameters for the GetActivity call
type ActivityParams struct {
	Limit         int
	Market        string // filter by conditionId
	Type          string // TRADE, REDEEM
	SortBy        string
	SortDirection string // ASC, DESC
}

// GetActivity fetches a wallet's activity log
func (c *Client) GetActivity(ctx context.Context, wallet string, params ActivityParams) ([]Activity, error) {
	if err := c.activityLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("user", wallet)
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Market != "" {
		q.Set("market", params.Market)
	}
	if params.Type != "" {
		q.Set("type", params.Type)
	}
	if params.SortBy != "" {
		q.Set("sortBy", params.SortBy)
	}
	if params.SortDirection != "" {
		q.Set("sortDirection", params.SortDirection)
	}

	var activities []Activity
	if err := c.getJSON(ctx, "/activity", q, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// GetFirstActivity fetches the oldest recorded activity for a wallet
func (c *Client) GetFirstActivity(ctx context.Context, wallet string) (*Activity, error) {
	activities, err := c.GetActivity(ctx, wallet, ActivityParams{
		Limit:         1,
		SortBy:        "timestamp",
		SortDirection: "ASC",
	})
	if err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return nil, fmt.Errorf("no activity found for wallet %s", wallet)
	}
	return &activities[0], nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	start := time.Now()
	err := c.doGetJSON(ctx, path, query, out)
	metrics.RecordAPIRequest(path, time.Since(start), err)
	return err
}

func (c *Client) doGetJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("401 Unauthorized (auth_mode=%s) - check credentials", c.authMode)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) setAuthHeaders(req *http.Request) {
	switch c.authMode {
	case config.AuthModeBearer:
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	case config.AuthModeAPIKey:
		req.Header.Set("X-API-KEY", c.apiKey)
	case config.AuthModeNone:
		// No auth headers
	}

	for k, v := range c.extraHeaders {
		req.Header.Set(k, v)
	}
}
