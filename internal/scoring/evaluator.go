package scoring

import (
	"math"
	"time"

	"github.com/polysignal/engine/internal/market"
	"github.com/polysignal/engine/internal/stats"
)

// DropReason identifies the hard filter that rejected a wallet
type DropReason int

const (
	DropNone DropReason = iota
	DropTotalPnL
	DropRealizedPnL
	DropMarkets
	DropClosedWins
)

func (r DropReason) String() string {
	switch r {
	case DropNone:
		return "qualified"
	case DropTotalPnL:
		return "dropped_pnl"
	case DropRealizedPnL:
		return "dropped_realized"
	case DropMarkets:
		return "dropped_markets"
	case DropClosedWins:
		return "dropped_wins"
	default:
		return "unknown"
	}
}

// Thresholds are the hard qualification gates applied before scoring
type Thresholds struct {
	MinTotalPnL    float64
	MinRealizedPnL float64
	MinMarkets     int
	MinClosedWins  int
}

// DefaultThresholds returns the standard qualification gates
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinTotalPnL:    5_000,
		MinRealizedPnL: 500,
		MinMarkets:     5,
		MinClosedWins:  3,
	}
}

// Profile is the scored output for one qualified wallet
type Profile struct {
	Wallet  string
	Outcome string

	Composite     float64 // final, post-multiplier
	CompositeBase float64 // pre-multiplier, kept for debugging

	ProfitScore     float64
	WinRateScore    float64
	ConvictionScore float64
	RecencyScore    float64
	TimingScore     float64

	CategoryMult float64
	FormMult     float64
	HoldScore    float64

	Stats    stats.WalletStats
	Position market.Position
}

// Evaluator applies hard filters and the full scoring stack to one wallet
type Evaluator struct {
	thresholds Thresholds
	now        func() time.Time
}

// NewEvaluator creates an evaluator with the given qualification gates
func NewEvaluator(t Thresholds) *Evaluator {
	return &Evaluator{thresholds: t, now: time.Now}
}

// Evaluate scores a wallet's position against its lifetime stats. A hard
// filter failure returns a nil profile and the reason; it is an expected
// outcome, not an error.
func (e *Evaluator) Evaluate(pos *market.Position, st stats.WalletStats, mkt *market.Context, marketStartTS int64) (*Profile, DropReason) {
	now := e.now()

	if st.TotalPnL < e.thresholds.MinTotalPnL {
		return nil, DropTotalPnL
	}

	// The positions API sometimes omits realized PnL entirely for wallets
	// holding only open positions. Fall back to a fraction of total PnL so
	// profitable-but-not-yet-closed wallets are not rejected unfairly.
	effectiveRealized := st.RealizedPnL
	if effectiveRealized <= 0 {
		effectiveRealized = st.TotalPnL * 0.3
	}
	if effectiveRealized < e.thresholds.MinRealizedPnL {
		return nil, DropRealizedPnL
	}

	if st.MarketsTraded < e.thresholds.MinMarkets {
		return nil, DropMarkets
	}

	// Enforce closed wins only when closed data exists at all. An empty
	// closed record gets the benefit of the doubt.
	if st.ClosedTotal > 0 && st.ClosedWins < e.thresholds.MinClosedWins {
		return nil, DropClosedWins
	}

	avgPos := pos.USDCInvested
	if st.MarketsTraded > 0 {
		avgPos = st.TotalVolume / float64(st.MarketsTraded)
	}
	marketEndTS := mkt.EndTimestamp(now)

	p := &Profile{
		Wallet:          pos.Wallet,
		Outcome:         pos.Outcome,
		ProfitScore:     ScoreProfit(st.TotalPnL, e.thresholds.MinTotalPnL),
		WinRateScore:    ScoreWinRate(st.WinRate, st.MarketsTraded),
		ConvictionScore: ScoreConviction(pos.USDCInvested, avgPos),
		RecencyScore:    ScoreRecency(st.LastTradeTS, now),
		TimingScore: ScoreEntryTiming(pos.AvgEntry, mkt.YesPrice, pos.Outcome,
			pos.FirstTradeTS, marketStartTS, marketEndTS),
		Stats:    st,
		Position: *pos,
	}

	composite := p.ProfitScore*weightProfit +
		p.WinRateScore*weightWinRate +
		p.ConvictionScore*weightConviction +
		p.RecencyScore*weightRecency +
		p.TimingScore*weightTiming

	p.HoldScore = HoldDurationScore(pos.FirstTradeTS, marketStartTS, now)
	composite = math.Min(composite+p.HoldScore*holdBonusWeight, 1.0)
	p.CompositeBase = composite

	p.CategoryMult = CategoryMultiplier(st.CategoryPnL, st.CategoryTotal)
	p.FormMult = RecentFormMultiplier(st.RecentPnL, st.HistoricalPnL)
	p.Composite = math.Min(composite*p.CategoryMult*p.FormMult, 1.0)

	return p, DropNone
}
