package gammaapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/polysignal/engine/internal/config"
	"github.com/polysignal/engine/internal/market"
	"github.com/polysignal/engine/internal/metrics"
	"github.com/polysignal/engine/internal/ratelimit"
)

// Client handles communication with the Polymarket Gamma API
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

// NewClient creates a new Gamma API client
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    cfg.GammaAPIBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    ratelimit.New(cfg.GammaAPIEventsRPS),
	}
}

// ParseMarketURL extracts the event slug and optional market slug from a
// polymarket.com event URL.
func ParseMarketURL(rawURL string) (eventSlug, marketSlug string, err error) {
	clean := strings.TrimSpace(rawURL)
	if i := strings.Index(clean, "?"); i >= 0 {
		clean = clean[:i]
	}
	clean = strings.TrimRight(clean, "/")
	for _, prefix := range []string{"https://polymarket.com", "http://polymarket.com", "polymarket.com"} {
		if strings.HasPrefix(clean, prefix) {
			clean = clean[len(prefix):]
			break
		}
	}

	var parts []string
	for _, p := range strings.Split(clean, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}

	if len(parts) >= 2 && parts[0] == "event" {
		eventSlug = parts[1]
		if len(parts) >= 3 {
			marketSlug = parts[2]
		}
		return eventSlug, marketSlug, nil
	}

	return "", "", fmt.Errorf("cannot parse market URL: %s", rawURL)
}

// ResolveMarket resolves a polymarket.com event URL to the market under
// analysis. Multi-market events pick the market matching the URL's market
// slug, falling back to the event's first market.
func (c *Client) ResolveMarket(ctx context.Context, rawURL string) (*market.Context, error) {
	eventSlug, marketSlug, err := ParseMarketURL(rawURL)
	if err != nil {
		return nil, err
	}

	event, err := c.GetEventBySlug(ctx, eventSlug)
	if err != nil {
		return nil, err
	}
	if len(event.Markets) == 0 {
		return nil, fmt.Errorf("event %q has no markets", eventSlug)
	}

	chosen := event.Markets[0]
	if marketSlug != "" && len(event.Markets) > 1 {
		for _, m := range event.Markets {
			if m.Slug == marketSlug {
				chosen = m
				break
			}
		}
	}

	yesPrice, noPrice := parseOutcomePrices(chosen.OutcomePrices)

	category := event.Category
	if category == "" && len(event.Tags) > 0 {
		category = event.Tags[0].Label
	}
	if category == "" {
		category = chosen.Category
	}
	if category == "" {
		category = "General"
	}

	question := chosen.Question
	if question == "" {
		question = event.Title
	}

	return &market.Context{
		ConditionID: chosen.ConditionID,
		Question:    question,
		YesPrice:    yesPrice,
		NoPrice:     noPrice,
		Volume:      chosen.VolumeNum,
		Liquidity:   chosen.LiquidityNum,
		EndDate:     chosen.EndDateISO,
		Category:    category,
	}, nil
}

// GetEventBySlug fetches an event and its markets by slug
func (c *Client) GetEventBySlug(ctx context.Context, slug string) (*Event, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u, err := url.Parse(c.baseURL + "/events")
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}

	q := u.Query()
	q.Set("slug", slug)
	u.RawQuery = q.Encode()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// Gamma API is public, no auth headers needed
	resp, err := c.httpClient.Do(req)
	metrics.RecordAPIRequest("gamma", "/events", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	// Response can be either array or single event
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var events []Event
	if err := json.Unmarshal(body, &events); err == nil {
		if len(events) > 0 {
			return &events[0], nil
		}
		return nil, fmt.Errorf("no event found for slug %q", slug)
	}

	var event Event
	if err := json.Unmarshal(body, &event); err == nil {
		return &event, nil
	}

	return nil, fmt.Errorf("failed to decode event response")
}

// parseOutcomePrices decodes the Gamma outcomePrices field, a JSON array of
// price strings. Anything unparseable falls back to an even 0.50/0.50.
func parseOutcomePrices(raw string) (yes, no float64) {
	yes, no = 0.5, 0.5
	if raw == "" {
		return yes, no
	}

	var prices []string
	if err := json.Unmarshal([]byte(raw), &prices); err != nil {
		// Some payloads carry numbers instead of strings
		var nums []float64
		if err := json.Unmarshal([]byte(raw), &nums); err != nil {
			return yes, no
		}
		if len(nums) > 0 {
			yes = nums[0]
		}
		if len(nums) > 1 {
			no = nums[1]
		}
		return yes, no
	}

	if len(prices) > 0 {
		if v, err := strconv.ParseFloat(prices[0], 64); err == nil {
			yes = v
		}
	}
	if len(prices) > 1 {
		if v, err := strconv.ParseFloat(prices[1], 64); err == nil {
			no = v
		}
	}
	return yes, no
}
