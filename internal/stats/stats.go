// Package stats derives lifetime performance statistics for a wallet from
// its full position history.
package stats

import (
	"context"
	"strings"
	"time"

	"github.com/polysignal/engine/internal/polymarket/dataapi"
)

// RecentWindowDays splits realized profit into recent form vs history
const RecentWindowDays = 90

// WalletStats summarizes a wallet's lifetime trading record
type WalletStats struct {
	TotalPnL      float64
	RealizedPnL   float64
	WinRate       float64
	ClosedWins    int
	ClosedTotal   int
	MarketsTraded int
	TotalVolume   float64
	LastTradeTS   int64
	RecentPnL     float64
	HistoricalPnL float64
	CategoryPnL   float64
	CategoryTotal float64
}

// Provider fetches lifetime stats for a wallet. targetCategory scopes the
// category expertise split to the market under analysis.
type Provider interface {
	WalletStats(ctx context.Context, wallet, targetCategory string) (WalletStats, error)
}

// PositionSource is the slice of the Data API client the provider needs
type PositionSource interface {
	GetPositions(ctx context.Context, wallet string) ([]dataapi.Position, error)
}

// HTTPProvider computes wallet stats from the Data API positions endpoint
type HTTPProvider struct {
	source PositionSource
	now    func() time.Time
}

// NewHTTPProvider creates a stats provider backed by the Data API
func NewHTTPProvider(source PositionSource) *HTTPProvider {
	return &HTTPProvider{source: source, now: time.Now}
}

// WalletStats fetches and aggregates the wallet's position history
func (p *HTTPProvider) WalletStats(ctx context.Context, wallet, targetCategory string) (WalletStats, error) {
	positions, err := p.source.GetPositions(ctx, wallet)
	if err != nil {
		return WalletStats{}, err
	}
	return Compute(positions, targetCategory, p.now()), nil
}

// Compute aggregates a wallet's positions into lifetime stats.
//
// A position counts as closed when it is redeemable or carries nonzero
// realized profit. Wallets with no closed positions get a neutral 0.5 win
// rate rather than a zero, and a wallet with no usable end dates is treated
// as last active 30 days ago.
func Compute(positions []dataapi.Position, targetCategory string, now time.Time) WalletStats {
	var s WalletStats
	if len(positions) == 0 {
		return s
	}

	cutoff := now.Unix() - RecentWindowDays*86400
	targetCat := strings.ToLower(strings.TrimSpace(targetCategory))

	var lastTS int64
	marketIDs := make(map[string]struct{})

	for _, pos := range positions {
		pnl := pos.CashPnL + pos.RealizedPnL

		s.TotalPnL += pnl
		s.RealizedPnL += pos.RealizedPnL
		s.TotalVolume += pos.CurrentValue

		s.CategoryTotal += pnl
		if targetCat != "" && strings.ToLower(strings.TrimSpace(pos.Category)) == targetCat {
			s.CategoryPnL += pnl
		}

		if pos.ConditionID != "" {
			marketIDs[pos.ConditionID] = struct{}{}
		}

		isClosed := pos.Redeemable || pos.RealizedPnL != 0
		if isClosed {
			s.ClosedTotal++
			if pos.RealizedPnL > 0 {
				s.ClosedWins++
			}
		}

		var endTS int64
		if pos.EndDate != "" {
			if t, err := time.Parse(time.RFC3339, pos.EndDate); err == nil {
				endTS = t.Unix()
				if endTS > lastTS {
					lastTS = endTS
				}
			}
		}

		if isClosed && pos.RealizedPnL != 0 {
			if endTS >= cutoff {
				s.RecentPnL += pos.RealizedPnL
			} else {
				s.HistoricalPnL += pos.RealizedPnL
			}
		}
	}

	if s.ClosedTotal > 0 {
		s.WinRate = float64(s.ClosedWins) / float64(s.ClosedTotal)
	} else {
		s.WinRate = 0.5
	}

	s.MarketsTraded = len(marketIDs)
	if s.MarketsTraded == 0 {
		s.MarketsTraded = s.ClosedTotal
		if s.MarketsTraded < 1 {
			s.MarketsTraded = 1
		}
	}

	s.LastTradeTS = lastTS
	if s.LastTradeTS == 0 {
		s.LastTradeTS = now.Unix() - 86400*30
	}

	return s
}
