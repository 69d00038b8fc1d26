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

	"github.com/polysignal/engine/internal/config"
	"github.com/polysignal/engine/internal/metrics"
	"github.com/polysignal/engine/internal/ratelimit"
)

// Client handles communication with the Polymarket Data API
type Client struct {
	baseURL      string
	httpClient   *http.Client
	authMode     config.AuthMode
	bearerToken  string
	apiKey       string
	extraHeaders map[string]string

	pageLimit int
	maxPages  int

	tradesLimiter    *ratelimit.Limiter
	positionsLimiter *ratelimit.Limiter
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
		pageLimit:        cfg.TradePageLimit,
		maxPages:         cfg.TradeMaxPages,
		tradesLimiter:    ratelimit.New(cfg.DataAPITradesRPS),
		positionsLimiter: ratelimit.New(cfg.DataAPIPositionsRPS),
	}
}

// GetMarketTrades fetches the full trade history for a market, paginating
// until a short page or the page cap is reached. A page that fails after at
// least one successful page returns the trades collected so far.
func (c *Client) GetMarketTrades(ctx context.Context, conditionID string) ([]Trade, error) {
	var trades []Trade
	offset := 0

	for page := 0; page < c.maxPages; page++ {
		if err := c.tradesLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		batch, err := c.getTradesPage(ctx, conditionID, offset)
		if err != nil {
			if len(trades) > 0 {
				return trades, nil
			}
			return nil, err
		}

		trades = append(trades, batch...)
		if len(batch) < c.pageLimit {
			break
		}
		offset += c.pageLimit
	}

	return trades, nil
}

func (c *Client) getTradesPage(ctx context.Context, conditionID string, offset int) ([]Trade, error) {
	u, err := url.Parse(c.baseURL + "/trades")
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}

	q := u.Query()
	q.Set("market", conditionID)
	q.Set("limit", strconv.Itoa(c.pageLimit))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	u.RawQuery = q.Encode()

	var trades []Trade
	if err := c.doJSON(ctx, u.String(), "/trades", &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// GetPositions fetches all lifetime positions for a wallet
func (c *Client) GetPositions(ctx context.Context, wallet string) ([]Position, error) {
	if err := c.positionsLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u, err := url.Parse(c.baseURL + "/positions")
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}

	q := u.Query()
	q.Set("user", wallet)
	q.Set("sizeThreshold", "0")
	q.Set("limit", "500")
	u.RawQuery = q.Encode()

	var positions []Position
	if err := c.doJSON(ctx, u.String(), "/positions", &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

func (c *Client) doJSON(ctx context.Context, rawURL, endpoint string, out interface{}) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	metrics.RecordAPIRequest("data", endpoint, time.Since(start), err)
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
