package analyzer

import (
	"context"
	"fmt"

	"github.com/polysignal/engine/internal/market"
	"github.com/polysignal/engine/internal/polymarket/dataapi"
)

// TradeSource is the slice of the Data API client the position source needs
type TradeSource interface {
	GetMarketTrades(ctx context.Context, conditionID string) ([]dataapi.Trade, error)
}

// HTTPPositionSource reconstructs positions from the live trade history
type HTTPPositionSource struct {
	trades TradeSource
}

// NewHTTPPositionSource creates a position source backed by the Data API
func NewHTTPPositionSource(trades TradeSource) *HTTPPositionSource {
	return &HTTPPositionSource{trades: trades}
}

// MarketPositions fetches the market's trade history and nets it into
// current open positions per wallet
func (s *HTTPPositionSource) MarketPositions(ctx context.Context, conditionID string) (map[string]*market.Position, error) {
	trades, err := s.trades.GetMarketTrades(ctx, conditionID)
	if err != nil {
		return nil, err
	}
	if len(trades) == 0 {
		return nil, fmt.Errorf("no trades found - market may be too new or inactive")
	}
	return market.BuildPositions(trades), nil
}
