package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DiscordSender sends signal alerts to Discord via webhook
type DiscordSender struct {
	webhookURL string
	httpClient *http.Client
}

// NewDiscordSender creates a new Discord sender
func NewDiscordSender(webhookURL string) *DiscordSender {
	return &DiscordSender{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send sends the signal to Discord
func (s *DiscordSender) Send(ctx context.Context, payload *SignalPayload) error {
	embed := s.buildEmbed(payload)

	webhookPayload := map[string]interface{}{
		"embeds": []interface{}{embed},
	}

	body, err := json.Marshal(webhookPayload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return nil
}

func (s *DiscordSender) buildEmbed(payload *SignalPayload) map[string]interface{} {
	var title string
	var color int
	switch payload.Signal {
	case "BUY_YES":
		title = fmt.Sprintf("Smart money signal: %s BUY YES", payload.Strength)
		color = 0x2ECC71 // Green
	case "BUY_NO":
		title = fmt.Sprintf("Smart money signal: %s BUY NO", payload.Strength)
		color = 0xE74C3C // Red
	default:
		title = "Smart money signal: no clear direction"
		color = 0x95A5A6 // Grey
	}

	description := fmt.Sprintf("**%s**\nConfidence **%.1f/10** from **%d** qualified wallets (%d holders scanned)",
		payload.MarketQuestion,
		payload.Confidence,
		payload.Qualified,
		payload.TotalHolders,
	)

	fields := []map[string]interface{}{
		{
			"name":   "YES vote",
			"value":  fmt.Sprintf("%.1f%% (%d wallets)", payload.YesPct, payload.YesCount),
			"inline": true,
		},
		{
			"name":   "NO vote",
			"value":  fmt.Sprintf("%.1f%% (%d wallets)", payload.NoPct, payload.NoCount),
			"inline": true,
		},
		{
			"name":   "Top-5 consensus",
			"value":  payload.Top5Consensus,
			"inline": true,
		},
		{
			"name":   "Category",
			"value":  payload.Category,
			"inline": true,
		},
		{
			"name":   "Current YES price",
			"value":  fmt.Sprintf("%.2f", payload.YesPrice),
			"inline": true,
		},
	}

	if payload.WhaleWarning != "" {
		fields = append(fields, map[string]interface{}{
			"name":   "Whale warning",
			"value":  payload.WhaleWarning,
			"inline": false,
		})
	}
	if payload.ClusterWarning != "" {
		fields = append(fields, map[string]interface{}{
			"name":   "Cluster warning",
			"value":  payload.ClusterWarning,
			"inline": false,
		})
	}

	fields = append(fields, map[string]interface{}{
		"name":   "Reasoning",
		"value":  truncate(payload.Reasoning, 1000),
		"inline": false,
	})

	footer := map[string]interface{}{
		"text": fmt.Sprintf("PolySignal • %s • %s", payload.Environment, payload.Timestamp.UTC().Format("2006-01-02 15:04:05 UTC")),
	}

	return map[string]interface{}{
		"title":       title,
		"url":         payload.MarketURL,
		"description": description,
		"color":       color,
		"fields":      fields,
		"footer":      footer,
		"timestamp":   payload.Timestamp.Format(time.RFC3339),
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
