package market

import (
	"time"

	"github.com/polysignal/engine/internal/polymarket/dataapi"
)

// Positions below this net share count are dust and not worth scoring
const dustShareThreshold = 5.0

// BuildPositions nets buys against sells per wallet to reconstruct current
// open positions. The adopted outcome follows the wallet's buys; sells only
// reduce shares. Wallets left with dust are discarded.
func BuildPositions(trades []dataapi.Trade) map[string]*Position {
	raw := make(map[string]*Position)

	for _, t := range trades {
		if t.ProxyWallet == "" {
			continue
		}

		usdc := t.USDCSize
		if usdc == 0 {
			usdc = t.Price * t.Size
		}

		p, ok := raw[t.ProxyWallet]
		if !ok {
			p = &Position{
				Wallet:       t.ProxyWallet,
				Outcome:      t.Outcome,
				OutcomeIndex: t.OutcomeIndex,
				FirstTradeTS: t.Timestamp,
				LastTradeTS:  t.Timestamp,
			}
			raw[t.ProxyWallet] = p
		}

		if t.Timestamp > 0 {
			if t.Timestamp < p.FirstTradeTS {
				p.FirstTradeTS = t.Timestamp
			}
			if t.Timestamp > p.LastTradeTS {
				p.LastTradeTS = t.Timestamp
			}
		}

		switch t.Side {
		case "BUY":
			p.NetShares += t.Size
			p.USDCInvested += usdc
			p.TotalBuyShares += t.Size
			p.NumBuys++
			p.Outcome = t.Outcome
			p.OutcomeIndex = t.OutcomeIndex
		case "SELL":
			p.NetShares -= t.Size
			p.NumSells++
		}
	}

	positions := make(map[string]*Position)
	for wallet, p := range raw {
		if p.TotalBuyShares > 0 {
			p.AvgEntry = p.USDCInvested / p.TotalBuyShares
		}
		if p.NetShares > dustShareThreshold {
			positions[wallet] = p
		}
	}

	return positions
}

// StartTimestamp estimates when trading in the market began: the earliest
// first-trade timestamp across positions, or 90 days back when no position
// carries one.
func StartTimestamp(positions map[string]*Position, now time.Time) int64 {
	var earliest int64
	for _, p := range positions {
		if p.FirstTradeTS > 0 && (earliest == 0 || p.FirstTradeTS < earliest) {
			earliest = p.FirstTradeTS
		}
	}
	if earliest == 0 {
		return now.AddDate(0, 0, -90).Unix()
	}
	return earliest
}
