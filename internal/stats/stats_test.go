package stats

import (
	"math"
	"testing"
	"time"

	"github.com/polysignal/engine/internal/polymarket/dataapi"
)

var testNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func iso(daysAgo int) string {
	return testNow.AddDate(0, 0, -daysAgo).Format(time.RFC3339)
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil, "Crypto", testNow)
	if s.TotalPnL != 0 || s.MarketsTraded != 0 || s.LastTradeTS != 0 {
		t.Errorf("empty history should produce zero stats, got %+v", s)
	}
}

func TestComputeWinRate(t *testing.T) {
	tests := []struct {
		name        string
		positions   []dataapi.Position
		wantRate    float64
		wantWins    int
		wantTotal   int
		description string
	}{
		{
			name: "wins and losses",
			positions: []dataapi.Position{
				{ConditionID: "0x1", RealizedPnL: 500, EndDate: iso(10)},
				{ConditionID: "0x2", RealizedPnL: 300, EndDate: iso(20)},
				{ConditionID: "0x3", RealizedPnL: -200, EndDate: iso(30)},
				{ConditionID: "0x4", RealizedPnL: -100, EndDate: iso(40)},
			},
			wantRate:    0.5,
			wantWins:    2,
			wantTotal:   4,
			description: "2 wins over 4 closed positions",
		},
		{
			name: "open positions do not count",
			positions: []dataapi.Position{
				{ConditionID: "0x1", RealizedPnL: 500, EndDate: iso(10)},
				{ConditionID: "0x2", CashPnL: 900}, // open, unrealized only
			},
			wantRate:    1.0,
			wantWins:    1,
			wantTotal:   1,
			description: "Only closed positions enter the record",
		},
		{
			name: "no closed record is neutral",
			positions: []dataapi.Position{
				{ConditionID: "0x1", CashPnL: 900},
				{ConditionID: "0x2", CashPnL: -100},
			},
			wantRate:    0.5,
			wantWins:    0,
			wantTotal:   0,
			description: "Nothing resolved yet, neutral prior instead of zero",
		},
		{
			name: "redeemable at a loss counts as closed",
			positions: []dataapi.Position{
				{ConditionID: "0x1", Redeemable: true, RealizedPnL: 0},
				{ConditionID: "0x2", RealizedPnL: 400, EndDate: iso(5)},
			},
			wantRate:    0.5,
			wantWins:    1,
			wantTotal:   2,
			description: "Redeemable with zero realized is a closed non-win",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Compute(tt.positions, "", testNow)
			if math.Abs(s.WinRate-tt.wantRate) > 0.001 {
				t.Errorf("%s: win rate %.3f, want %.3f\nDescription: %s",
					tt.name, s.WinRate, tt.wantRate, tt.description)
			}
			if s.ClosedWins != tt.wantWins || s.ClosedTotal != tt.wantTotal {
				t.Errorf("%s: closed %d/%d, want %d/%d",
					tt.name, s.ClosedWins, s.ClosedTotal, tt.wantWins, tt.wantTotal)
			}
		})
	}
}

func TestComputeMarketsTraded(t *testing.T) {
	t.Run("distinct condition ids", func(t *testing.T) {
		positions := []dataapi.Position{
			{ConditionID: "0x1", RealizedPnL: 100, EndDate: iso(5)},
			{ConditionID: "0x1", RealizedPnL: 50, EndDate: iso(6)},
			{ConditionID: "0x2", CashPnL: 30},
		}
		s := Compute(positions, "", testNow)
		if s.MarketsTraded != 2 {
			t.Errorf("got %d markets, want 2 distinct", s.MarketsTraded)
		}
	})

	t.Run("missing ids fall back to closed count", func(t *testing.T) {
		positions := []dataapi.Position{
			{RealizedPnL: 100, EndDate: iso(5)},
			{RealizedPnL: -50, EndDate: iso(6)},
			{RealizedPnL: 20, EndDate: iso(7)},
		}
		s := Compute(positions, "", testNow)
		if s.MarketsTraded != 3 {
			t.Errorf("got %d markets, want closed count 3", s.MarketsTraded)
		}
	})

	t.Run("never below one", func(t *testing.T) {
		positions := []dataapi.Position{
			{CashPnL: 100},
		}
		s := Compute(positions, "", testNow)
		if s.MarketsTraded != 1 {
			t.Errorf("got %d markets, want floor of 1", s.MarketsTraded)
		}
	})
}

func TestComputeLastTradeTS(t *testing.T) {
	t.Run("latest end date wins", func(t *testing.T) {
		positions := []dataapi.Position{
			{ConditionID: "0x1", RealizedPnL: 100, EndDate: iso(40)},
			{ConditionID: "0x2", RealizedPnL: 100, EndDate: iso(10)},
			{ConditionID: "0x3", RealizedPnL: 100, EndDate: iso(25)},
		}
		s := Compute(positions, "", testNow)
		want := testNow.AddDate(0, 0, -10).Unix()
		if s.LastTradeTS != want {
			t.Errorf("got %d, want %d (the most recent end date)", s.LastTradeTS, want)
		}
	})

	t.Run("no dates fall back 30 days", func(t *testing.T) {
		positions := []dataapi.Position{
			{ConditionID: "0x1", RealizedPnL: 100},
			{ConditionID: "0x2", RealizedPnL: 100, EndDate: "not-a-date"},
		}
		s := Compute(positions, "", testNow)
		want := testNow.Unix() - 86400*30
		if s.LastTradeTS != want {
			t.Errorf("got %d, want 30-day fallback %d", s.LastTradeTS, want)
		}
	})
}

func TestComputeRecentSplit(t *testing.T) {
	positions := []dataapi.Position{
		{ConditionID: "0x1", RealizedPnL: 1000, EndDate: iso(10)},  // recent
		{ConditionID: "0x2", RealizedPnL: 400, EndDate: iso(89)},   // recent, inside window
		{ConditionID: "0x3", RealizedPnL: 2000, EndDate: iso(120)}, // historical
		{ConditionID: "0x4", RealizedPnL: -300, EndDate: iso(200)}, // historical loss
		{ConditionID: "0x5", RealizedPnL: 500},                     // no date, counts as historical
	}

	s := Compute(positions, "", testNow)
	if math.Abs(s.RecentPnL-1400) > 0.001 {
		t.Errorf("recent pnl %.1f, want 1400", s.RecentPnL)
	}
	if math.Abs(s.HistoricalPnL-2200) > 0.001 {
		t.Errorf("historical pnl %.1f, want 2200", s.HistoricalPnL)
	}
}

func TestComputeCategorySplit(t *testing.T) {
	positions := []dataapi.Position{
		{ConditionID: "0x1", Category: "Crypto", RealizedPnL: 1000, EndDate: iso(10)},
		{ConditionID: "0x2", Category: "  crypto ", RealizedPnL: 500, EndDate: iso(20)},
		{ConditionID: "0x3", Category: "Politics", RealizedPnL: 2000, EndDate: iso(30)},
		{ConditionID: "0x4", Category: "", CashPnL: 300},
	}

	s := Compute(positions, "Crypto", testNow)
	if math.Abs(s.CategoryPnL-1500) > 0.001 {
		t.Errorf("category pnl %.1f, want 1500 (case and whitespace insensitive)", s.CategoryPnL)
	}
	if math.Abs(s.CategoryTotal-3800) > 0.001 {
		t.Errorf("category total %.1f, want all-position pnl 3800", s.CategoryTotal)
	}

	// No target category means no category attribution at all
	s = Compute(positions, "", testNow)
	if s.CategoryPnL != 0 {
		t.Errorf("category pnl %.1f without a target, want 0", s.CategoryPnL)
	}
}

func TestComputeTotals(t *testing.T) {
	positions := []dataapi.Position{
		{ConditionID: "0x1", CashPnL: 700, RealizedPnL: 300, CurrentValue: 5000, EndDate: iso(10)},
		{ConditionID: "0x2", CashPnL: -200, RealizedPnL: 0, CurrentValue: 1500},
	}

	s := Compute(positions, "", testNow)
	if math.Abs(s.TotalPnL-800) > 0.001 {
		t.Errorf("total pnl %.1f, want cash+realized 800", s.TotalPnL)
	}
	if math.Abs(s.RealizedPnL-300) > 0.001 {
		t.Errorf("realized pnl %.1f, want 300", s.RealizedPnL)
	}
	if math.Abs(s.TotalVolume-6500) > 0.001 {
		t.Errorf("total volume %.1f, want 6500", s.TotalVolume)
	}
}
