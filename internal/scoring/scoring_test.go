package scoring

import (
	"math"
	"testing"
	"time"
)

func almostEqual(got, want, tolerance float64) bool {
	return math.Abs(got-want) <= tolerance
}

func TestScoreProfit(t *testing.T) {
	tests := []struct {
		name        string
		totalPnL    float64
		minPnL      float64
		expected    float64
		description string
	}{
		{
			name:        "below threshold scores zero",
			totalPnL:    4999,
			minPnL:      5000,
			expected:    0.0,
			description: "Anything under the gate is zero regardless of magnitude",
		},
		{
			name:        "exactly at ceiling",
			totalPnL:    200000,
			minPnL:      5000,
			expected:    1.0,
			description: "sqrt(200000/200000) = 1.0 exactly",
		},
		{
			name:        "above ceiling capped",
			totalPnL:    800000,
			minPnL:      5000,
			expected:    1.0,
			description: "sqrt(4) = 2 capped at 1.0",
		},
		{
			name:        "quarter of ceiling",
			totalPnL:    50000,
			minPnL:      5000,
			expected:    0.5,
			description: "sqrt(0.25) = 0.5, sqrt compresses large profits",
		},
		{
			name:        "minimum qualifying profit",
			totalPnL:    5000,
			minPnL:      5000,
			expected:    0.1581,
			description: "sqrt(5000/200000) = 0.1581",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreProfit(tt.totalPnL, tt.minPnL)
			if !almostEqual(got, tt.expected, 0.001) {
				t.Errorf("%s: got %.4f, want %.4f\nDescription: %s",
					tt.name, got, tt.expected, tt.description)
			}
		})
	}
}

func TestScoreProfitMonotonic(t *testing.T) {
	prev := 0.0
	for pnl := 5000.0; pnl <= 500000; pnl += 5000 {
		got := ScoreProfit(pnl, 5000)
		if got < prev {
			t.Fatalf("score decreased: pnl=%.0f got=%.4f prev=%.4f", pnl, got, prev)
		}
		if got < 0 || got > 1 {
			t.Fatalf("score out of bounds: pnl=%.0f got=%.4f", pnl, got)
		}
		prev = got
	}
}

func TestScoreWinRate(t *testing.T) {
	tests := []struct {
		name        string
		winRate     float64
		markets     int
		expected    float64
		description string
	}{
		{
			name:        "zero markets scores zero",
			winRate:     1.0,
			markets:     0,
			expected:    0.0,
			description: "No markets means no evidence at all",
		},
		{
			name:        "perfect record on one market near zero",
			winRate:     1.0,
			markets:     1,
			expected:    0.01,
			description: "confidence 0.01, adjusted 0.505, score 0.01",
		},
		{
			name:        "full confidence at 100 markets",
			winRate:     0.75,
			markets:     100,
			expected:    0.5,
			description: "adjusted = winRate exactly, (0.75-0.5)*2",
		},
		{
			name:        "confidence saturates beyond 100",
			winRate:     0.74,
			markets:     480,
			expected:    0.48,
			description: "Same as 100 markets, confidence capped at 1.0",
		},
		{
			name:        "losing record floors at zero",
			winRate:     0.3,
			markets:     100,
			expected:    0.0,
			description: "Sub-coin-flip records never go negative",
		},
		{
			name:        "half confidence",
			winRate:     0.8,
			markets:     50,
			expected:    0.3,
			description: "adjusted = 0.8*0.5 + 0.5*0.5 = 0.65, score 0.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreWinRate(tt.winRate, tt.markets)
			if !almostEqual(got, tt.expected, 0.001) {
				t.Errorf("%s: got %.4f, want %.4f\nDescription: %s",
					tt.name, got, tt.expected, tt.description)
			}
		})
	}
}

func TestScoreConviction(t *testing.T) {
	tests := []struct {
		name        string
		invested    float64
		avgPosition float64
		expected    float64
		description string
	}{
		{
			name:        "undefined average is neutral",
			invested:    10000,
			avgPosition: 0,
			expected:    0.5,
			description: "No average position data, stay neutral",
		},
		{
			name:        "negative average is neutral",
			invested:    10000,
			avgPosition: -5,
			expected:    0.5,
			description: "Garbage denominator treated as missing",
		},
		{
			name:        "ratio exactly one",
			invested:    5000,
			avgPosition: 5000,
			expected:    0.5,
			description: "0.25 + 0.25*1 = 0.5 at the typical position size",
		},
		{
			name:        "half typical size",
			invested:    2500,
			avgPosition: 5000,
			expected:    0.375,
			description: "0.25 + 0.25*0.5",
		},
		{
			name:        "triple typical size",
			invested:    15000,
			avgPosition: 5000,
			expected:    0.8010,
			description: "0.5 + 0.5*log2(4)/3.32 = 0.5 + 1/3.32",
		},
		{
			name:        "huge oversize capped at one",
			invested:    5000000,
			avgPosition: 5000,
			expected:    1.0,
			description: "log2 boost capped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreConviction(tt.invested, tt.avgPosition)
			if !almostEqual(got, tt.expected, 0.001) {
				t.Errorf("%s: got %.4f, want %.4f\nDescription: %s",
					tt.name, got, tt.expected, tt.description)
			}
		})
	}
}

func TestScoreRecency(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		daysAgo     float64
		expected    float64
		description string
	}{
		{
			name:        "traded today",
			daysAgo:     0,
			expected:    1.0,
			description: "No decay at zero days",
		},
		{
			name:        "half life at 180 days",
			daysAgo:     180,
			expected:    0.5,
			description: "Exactly one half-life",
		},
		{
			name:        "one year out",
			daysAgo:     360,
			expected:    0.25,
			description: "Two half-lives",
		},
		{
			name:        "future timestamp clamps to now",
			daysAgo:     -10,
			expected:    1.0,
			description: "Clock skew should not produce a score above 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := now.Unix() - int64(tt.daysAgo*86400)
			got := ScoreRecency(ts, now)
			if !almostEqual(got, tt.expected, 0.005) {
				t.Errorf("%s: got %.4f, want %.4f\nDescription: %s",
					tt.name, got, tt.expected, tt.description)
			}
		})
	}
}

func TestScoreEntryTiming(t *testing.T) {
	start := int64(1_700_000_000)
	end := start + 100*86400

	tests := []struct {
		name        string
		avgEntry    float64
		yesPrice    float64
		outcome     string
		firstTrade  int64
		expected    float64
		description string
	}{
		{
			name:        "missing entry price is neutral",
			avgEntry:    0,
			yesPrice:    0.6,
			outcome:     "Yes",
			firstTrade:  start + 50*86400,
			expected:    0.5,
			description: "No price data, no judgment",
		},
		{
			name:        "yes side favorable move",
			avgEntry:    0.40,
			yesPrice:    0.60,
			outcome:     "Yes",
			firstTrade:  start + 50*86400,
			expected:    0.75,
			description: "+50% move: 0.5 + 0.5*0.5",
		},
		{
			name:        "no side mirrors prices",
			avgEntry:    0.60,
			yesPrice:    0.40,
			outcome:     "No",
			firstTrade:  start + 50*86400,
			expected:    0.75,
			description: "NO entry 0.40 -> current 0.60, same +50% move",
		},
		{
			name:        "unfavorable move",
			avgEntry:    0.60,
			yesPrice:    0.45,
			outcome:     "Yes",
			firstTrade:  start + 50*86400,
			expected:    0.25,
			description: "-25% move: 0.5 - 0.25",
		},
		{
			name:        "early entry bonus",
			avgEntry:    0.40,
			yesPrice:    0.60,
			outcome:     "Yes",
			firstTrade:  start + 10*86400,
			expected:    0.90,
			description: "0.75 + 0.15 early bonus, inside first 20% of market life",
		},
		{
			name:        "bonus capped at one",
			avgEntry:    0.20,
			yesPrice:    0.80,
			outcome:     "Yes",
			firstTrade:  start,
			expected:    1.0,
			description: "1.0 from move alone, bonus cannot exceed cap",
		},
		{
			name:        "entry at 19.9 percent gets bonus",
			avgEntry:    0.50,
			yesPrice:    0.50,
			outcome:     "Yes",
			firstTrade:  start + 19*86400,
			expected:    0.65,
			description: "Flat price 0.5 plus 0.15 bonus",
		},
		{
			name:        "entry at 20 percent misses bonus",
			avgEntry:    0.50,
			yesPrice:    0.50,
			outcome:     "Yes",
			firstTrade:  start + 20*86400,
			expected:    0.5,
			description: "Cutoff is strict less-than",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreEntryTiming(tt.avgEntry, tt.yesPrice, tt.outcome, tt.firstTrade, start, end)
			if !almostEqual(got, tt.expected, 0.001) {
				t.Errorf("%s: got %.4f, want %.4f\nDescription: %s",
					tt.name, got, tt.expected, tt.description)
			}
		})
	}
}

func TestCategoryMultiplier(t *testing.T) {
	tests := []struct {
		name        string
		categoryPnL float64
		catTotal    float64
		expected    float64
		description string
	}{
		{
			name:        "zero total is neutral",
			categoryPnL: 5000,
			catTotal:    0,
			expected:    1.0,
			description: "Missing category data never penalizes",
		},
		{
			name:        "negative total is neutral",
			categoryPnL: 1000,
			catTotal:    -200,
			expected:    1.0,
			description: "Negative denominator treated as no data",
		},
		{
			name:        "negative category pnl is neutral",
			categoryPnL: -100,
			catTotal:    50000,
			expected:    1.0,
			description: "Losses in category do not flip to a penalty",
		},
		{
			name:        "full expertise",
			categoryPnL: 50000,
			catTotal:    50000,
			expected:    1.25,
			description: "100% of profit from this category",
		},
		{
			name:        "no expertise",
			categoryPnL: 0,
			catTotal:    50000,
			expected:    0.85,
			description: "Penalty floor, not zero",
		},
		{
			name:        "half expertise",
			categoryPnL: 25000,
			catTotal:    50000,
			expected:    1.05,
			description: "0.85 + 0.40*0.5",
		},
		{
			name:        "ratio clamped above one",
			categoryPnL: 80000,
			catTotal:    50000,
			expected:    1.25,
			description: "Category exceeding total (losses elsewhere) clamps to 1.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CategoryMultiplier(tt.categoryPnL, tt.catTotal)
			if !almostEqual(got, tt.expected, 0.001) {
				t.Errorf("%s: got %.4f, want %.4f\nDescription: %s",
					tt.name, got, tt.expected, tt.description)
			}
		})
	}
}

func TestRecentFormMultiplier(t *testing.T) {
	tests := []struct {
		name        string
		recent      float64
		historical  float64
		expected    float64
		description string
	}{
		{
			name:        "no data at all is neutral",
			recent:      0,
			historical:  0,
			expected:    1.0,
			description: "Both zero, stay neutral",
		},
		{
			name:        "both negative is neutral",
			recent:      -500,
			historical:  -2000,
			expected:    1.0,
			description: "Losses on both sides treated as no usable data",
		},
		{
			name:        "new profitable wallet boosted",
			recent:      5000,
			historical:  0,
			expected:    1.10,
			description: "Recent profit with no history",
		},
		{
			name:        "cold streak mild penalty",
			recent:      -1000,
			historical:  20000,
			expected:    0.90,
			description: "Gentle, recency score already covers staleness",
		},
		{
			name:        "steady form",
			recent:      10000,
			historical:  10000,
			expected:    1.05,
			description: "ratio 1.0: 0.90 + 0.15",
		},
		{
			name:        "hot streak capped",
			recent:      100000,
			historical:  10000,
			expected:    1.20,
			description: "ratio capped at 2.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecentFormMultiplier(tt.recent, tt.historical)
			if !almostEqual(got, tt.expected, 0.001) {
				t.Errorf("%s: got %.4f, want %.4f\nDescription: %s",
					tt.name, got, tt.expected, tt.description)
			}
		})
	}
}

func TestHoldDurationScore(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	marketStart := now.AddDate(0, 0, -100).Unix()

	tests := []struct {
		name        string
		firstTrade  int64
		expected    float64
		description string
	}{
		{
			name:        "held since market open",
			firstTrade:  marketStart,
			expected:    1.0,
			description: "Full market age held",
		},
		{
			name:        "entered halfway",
			firstTrade:  now.AddDate(0, 0, -50).Unix(),
			expected:    0.5,
			description: "Half the market age",
		},
		{
			name:        "entered yesterday",
			firstTrade:  now.AddDate(0, 0, -1).Unix(),
			expected:    0.01,
			description: "Fresh entry near zero",
		},
		{
			name:        "entered before market start capped",
			firstTrade:  now.AddDate(0, 0, -150).Unix(),
			expected:    1.0,
			description: "Cannot hold longer than the market existed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HoldDurationScore(tt.firstTrade, marketStart, now)
			if !almostEqual(got, tt.expected, 0.001) {
				t.Errorf("%s: got %.4f, want %.4f\nDescription: %s",
					tt.name, got, tt.expected, tt.description)
			}
		})
	}
}
