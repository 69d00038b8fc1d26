// Package alerts delivers finished market signals to configured sinks.
package alerts

import (
	"context"
	"time"

	"github.com/polysignal/engine/internal/analyzer"
)

// Severity represents alert severity
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityAlert Severity = "ALERT"
)

// SignalPayload contains everything a sink needs to render a signal alert
type SignalPayload struct {
	Severity       Severity
	MarketQuestion string
	MarketURL      string
	Category       string
	YesPrice       float64
	Signal         string
	Strength       string
	Confidence     float64
	YesPct         float64
	NoPct          float64
	YesCount       int
	NoCount        int
	Qualified      int
	TotalHolders   int
	Top5Consensus  string
	WhaleWarning   string
	ClusterWarning string
	Reasoning      string
	Timestamp      time.Time
	Environment    string
}

// Sender defines the interface for alert senders
type Sender interface {
	Send(ctx context.Context, payload *SignalPayload) error
}

// NewPayload builds an alert payload from a completed analysis run.
// Severity follows signal strength: STRONG signals alert, MODERATE warns,
// everything else is informational.
func NewPayload(result *analyzer.Result, environment string) *SignalPayload {
	severity := SeverityInfo
	switch result.Signal.Strength {
	case "STRONG":
		severity = SeverityAlert
	case "MODERATE":
		severity = SeverityWarn
	}

	return &SignalPayload{
		Severity:       severity,
		MarketQuestion: result.Market.Question,
		MarketURL:      result.MarketURL,
		Category:       result.Market.Category,
		YesPrice:       result.Market.YesPrice,
		Signal:         result.Signal.Signal,
		Strength:       result.Signal.Strength,
		Confidence:     result.Signal.Confidence,
		YesPct:         result.Signal.YesPct,
		NoPct:          result.Signal.NoPct,
		YesCount:       result.Signal.YesCount,
		NoCount:        result.Signal.NoCount,
		Qualified:      result.Stats.Qualified,
		TotalHolders:   result.Stats.TotalHolders,
		Top5Consensus:  result.Signal.Top5Consensus,
		WhaleWarning:   result.Signal.WhaleWarning,
		ClusterWarning: result.Signal.ClusterWarning,
		Reasoning:      result.Signal.Reasoning,
		Timestamp:      time.Now().UTC(),
		Environment:    environment,
	}
}
