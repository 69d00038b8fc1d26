package alerts

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogSender sends signal alerts to the logger
type LogSender struct {
	log *logrus.Logger
}

// NewLogSender creates a new log sender
func NewLogSender(log *logrus.Logger) *LogSender {
	return &LogSender{log: log}
}

// Send logs the signal
func (s *LogSender) Send(ctx context.Context, payload *SignalPayload) error {
	s.log.WithFields(logrus.Fields{
		"severity":   payload.Severity,
		"market":     payload.MarketQuestion,
		"signal":     payload.Signal,
		"strength":   payload.Strength,
		"confidence": payload.Confidence,
		"yes_pct":    payload.YesPct,
		"no_pct":     payload.NoPct,
		"qualified":  payload.Qualified,
		"consensus":  payload.Top5Consensus,
	}).Info("Signal generated")
	return nil
}
