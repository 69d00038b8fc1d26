// Package scoring rates individual wallets on their behavioral track record
// and detects temporally correlated entries across wallets.
package scoring

import (
	"math"
	"strings"
	"time"
)

// Scoring weights, sum to 1.0
const (
	weightProfit     = 0.30
	weightWinRate    = 0.25
	weightConviction = 0.20
	weightRecency    = 0.15
	weightTiming     = 0.10
)

const (
	// ProfitCeiling is the total PnL at which the profit score saturates
	ProfitCeiling = 200_000.0

	// recencyHalfLifeDays halves the recency score every N days of inactivity
	recencyHalfLifeDays = 180.0

	// Early entrants (first 20% of market life) earn a timing bonus
	earlyEntryCutoff = 0.2
	earlyEntryBonus  = 0.15

	// Long-term holders earn up to +0.05 on the composite
	holdBonusWeight = 0.05
)

// ScoreProfit scales total PnL by square root against a $200k ceiling.
// Sqrt compresses the advantage of very large profits over merely large ones.
func ScoreProfit(totalPnL, minThreshold float64) float64 {
	if totalPnL < minThreshold {
		return 0.0
	}
	return math.Min(math.Sqrt(totalPnL/ProfitCeiling), 1.0)
}

// ScoreWinRate shrinks the observed win rate toward a 0.5 neutral prior.
// A perfect record over 3 markets means far less than 65% over 300, so the
// rate is blended with the prior by a confidence weight that saturates at
// 100 markets.
func ScoreWinRate(winRate float64, marketsTraded int) float64 {
	if marketsTraded == 0 {
		return 0.0
	}
	confidence := math.Min(float64(marketsTraded)/100.0, 1.0)
	adjusted := winRate*confidence + 0.5*(1.0-confidence)
	return math.Max((adjusted-0.5)*2.0, 0.0)
}

// ScoreConviction compares this position's size to the wallet's average
// position across all its markets. Oversized positions earn a log2 boost
// with diminishing returns, capped at 1.0.
func ScoreConviction(positionUSDC, avgPositionUSDC float64) float64 {
	if avgPositionUSDC <= 0 {
		return 0.5
	}
	ratio := positionUSDC / avgPositionUSDC
	if ratio <= 1.0 {
		return 0.25 + 0.25*ratio
	}
	return math.Min(0.5+0.5*math.Log2(ratio+1)/3.32, 1.0)
}

// ScoreRecency decays exponentially with days since the wallet's last trade,
// halving every 180 days.
func ScoreRecency(lastTradeTS int64, now time.Time) float64 {
	days := math.Max(float64(now.Unix()-lastTradeTS)/86400.0, 0)
	decay := math.Ln2 / recencyHalfLifeDays
	return math.Exp(-decay * days)
}

// ScoreEntryTiming rewards wallets whose entry price has moved in their
// favor. Prices are mirrored for NO holders so the move is always measured
// from the held side's perspective. Entering within the first 20% of the
// market's life adds a flat bonus.
func ScoreEntryTiming(avgEntry, currentYesPrice float64, outcome string, firstTradeTS, marketStartTS, marketEndTS int64) float64 {
	if avgEntry <= 0 || currentYesPrice <= 0 {
		return 0.5
	}

	entry := avgEntry
	current := currentYesPrice
	if !strings.EqualFold(outcome, "yes") {
		entry = 1.0 - avgEntry
		current = 1.0 - currentYesPrice
	}
	if entry <= 0 {
		return 0.5
	}

	pctMove := (current - entry) / entry
	var timing float64
	if pctMove >= 0 {
		timing = 0.5 + 0.5*math.Min(pctMove, 1.0)
	} else {
		timing = math.Max(0.5+pctMove, 0.0)
	}

	duration := marketEndTS - marketStartTS
	if duration > 0 {
		positionInMarket := float64(firstTradeTS-marketStartTS) / float64(duration)
		if positionInMarket < earlyEntryCutoff {
			timing = math.Min(timing+earlyEntryBonus, 1.0)
		}
	}

	return math.Max(math.Min(timing, 1.0), 0.0)
}

// CategoryMultiplier boosts wallets whose lifetime profit concentrates in
// the target market's category. Missing or negative category data stays
// neutral at 1.0 rather than penalizing the wallet. A sub-5% ratio may just
// be missing tags, so the penalty floor starts at 0.85 rather than lower.
func CategoryMultiplier(categoryPnL, categoryTotal float64) float64 {
	if categoryTotal <= 0 || categoryPnL < 0 {
		return 1.0
	}
	ratio := math.Max(math.Min(categoryPnL/categoryTotal, 1.0), 0.0)
	return 0.85 + 0.40*ratio
}

// RecentFormMultiplier compares realized profit in the last 90 days against
// older history. Hot streaks get a boost, cold streaks a mild penalty kept
// gentle since raw recency is already scored separately. Missing data on
// both sides stays neutral.
func RecentFormMultiplier(recentPnL, historicalPnL float64) float64 {
	if historicalPnL <= 0 && recentPnL <= 0 {
		return 1.0
	}
	if historicalPnL <= 0 && recentPnL > 0 {
		return 1.10
	}
	if recentPnL <= 0 && historicalPnL > 0 {
		return 0.90
	}
	capped := math.Min(recentPnL/historicalPnL, 2.0)
	return 0.90 + 0.15*capped
}

// HoldDurationScore is the fraction of the market's age the wallet has held
// its position. Holding since day one approaches 1.0, a fresh entry is near
// zero.
func HoldDurationScore(firstTradeTS, marketStartTS int64, now time.Time) float64 {
	marketAge := now.Unix() - marketStartTS
	if marketAge < 1 {
		marketAge = 1
	}
	holdSeconds := now.Unix() - firstTradeTS
	if holdSeconds < 0 {
		holdSeconds = 0
	}
	return math.Min(float64(holdSeconds)/float64(marketAge), 1.0)
}
