package gammaapi

import (
	"math"
	"testing"
)

func TestParseMarketURL(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantEvent   string
		wantMarket  string
		wantErr     bool
		description string
	}{
		{
			name:        "full event URL",
			url:         "https://polymarket.com/event/btc-120k-q2",
			wantEvent:   "btc-120k-q2",
			description: "Standard single-market event link",
		},
		{
			name:        "event with market slug",
			url:         "https://polymarket.com/event/presidential-election/will-candidate-x-win",
			wantEvent:   "presidential-election",
			wantMarket:  "will-candidate-x-win",
			description: "Multi-market events link a specific market",
		},
		{
			name:        "query string stripped",
			url:         "https://polymarket.com/event/btc-120k-q2?tid=12345",
			wantEvent:   "btc-120k-q2",
			description: "Tracking parameters do not leak into the slug",
		},
		{
			name:        "trailing slash stripped",
			url:         "https://polymarket.com/event/btc-120k-q2/",
			wantEvent:   "btc-120k-q2",
			description: "Trailing slash tolerated",
		},
		{
			name:        "no scheme",
			url:         "polymarket.com/event/btc-120k-q2",
			wantEvent:   "btc-120k-q2",
			description: "Pasted without https://",
		},
		{
			name:        "bare path",
			url:         "/event/btc-120k-q2",
			wantEvent:   "btc-120k-q2",
			description: "Path-only input still resolves",
		},
		{
			name:        "not an event URL",
			url:         "https://polymarket.com/markets/crypto",
			wantErr:     true,
			description: "Only event URLs are supported",
		},
		{
			name:        "empty input",
			url:         "",
			wantErr:     true,
			description: "Nothing to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, mkt, err := ParseMarketURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Errorf("%s: expected an error\nDescription: %s", tt.name, tt.description)
				}
				return
			}
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tt.name, err)
			}
			if event != tt.wantEvent {
				t.Errorf("%s: event slug %q, want %q", tt.name, event, tt.wantEvent)
			}
			if mkt != tt.wantMarket {
				t.Errorf("%s: market slug %q, want %q", tt.name, mkt, tt.wantMarket)
			}
		})
	}
}

func TestParseOutcomePrices(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantYes     float64
		wantNo      float64
		description string
	}{
		{
			name:        "string array",
			raw:         `["0.54", "0.46"]`,
			wantYes:     0.54,
			wantNo:      0.46,
			description: "The usual Gamma payload shape",
		},
		{
			name:        "numeric array",
			raw:         `[0.72, 0.28]`,
			wantYes:     0.72,
			wantNo:      0.28,
			description: "Some payloads carry raw numbers",
		},
		{
			name:        "empty string defaults even",
			raw:         "",
			wantYes:     0.5,
			wantNo:      0.5,
			description: "Missing field, neutral prices",
		},
		{
			name:        "garbage defaults even",
			raw:         "not json",
			wantYes:     0.5,
			wantNo:      0.5,
			description: "Unparseable field, neutral prices",
		},
		{
			name:        "single element keeps no side default",
			raw:         `["0.30"]`,
			wantYes:     0.30,
			wantNo:      0.5,
			description: "Short arrays only overwrite what they carry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yes, no := parseOutcomePrices(tt.raw)
			if math.Abs(yes-tt.wantYes) > 0.0001 || math.Abs(no-tt.wantNo) > 0.0001 {
				t.Errorf("%s: got %.2f/%.2f, want %.2f/%.2f\nDescription: %s",
					tt.name, yes, no, tt.wantYes, tt.wantNo, tt.description)
			}
		})
	}
}
