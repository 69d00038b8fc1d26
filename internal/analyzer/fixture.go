package analyzer

import (
	"context"
	"time"

	"github.com/polysignal/engine/internal/market"
	"github.com/polysignal/engine/internal/stats"
)

// MockBackend serves a canned market, holder set, and stats so the pipeline
// can run offline. It implements MarketResolver, PositionSource, and
// stats.Provider.
type MockBackend struct {
	now time.Time
}

// NewMockBackend creates a mock backend anchored at the current time
func NewMockBackend() *MockBackend {
	return &MockBackend{now: time.Now().UTC()}
}

func (m *MockBackend) ts(daysAgo int) int64 {
	return m.now.Unix() - int64(daysAgo)*86400
}

// ResolveMarket returns the canned market regardless of URL
func (m *MockBackend) ResolveMarket(ctx context.Context, rawURL string) (*market.Context, error) {
	return &market.Context{
		ConditionID: "0xmock0001",
		Question:    "Will Bitcoin exceed $120,000 by end of Q2?",
		YesPrice:    0.54,
		NoPrice:     0.46,
		Volume:      1_450_000,
		Liquidity:   520_000,
		EndDate:     m.now.AddDate(0, 0, 60).Format("2006-01-02"),
		Category:    "Crypto",
	}, nil
}

// MarketPositions returns the canned holder set
func (m *MockBackend) MarketPositions(ctx context.Context, conditionID string) (map[string]*market.Position, error) {
	type row struct {
		wallet     string
		outcome    string
		outcomeIdx int
		shares     float64
		invested   float64
		avgEntry   float64
		firstDays  int
		lastDays   int
		buys       int
		sells      int
	}
	rows := []row{
		{"0xWhale001", "Yes", 0, 95000, 31350, 0.33, 60, 2, 3, 0},
		{"0xSmart002", "Yes", 0, 62000, 25420, 0.41, 45, 5, 2, 0},
		{"0xPro003", "No", 1, 48000, 30720, 0.64, 30, 1, 4, 1},
		{"0xSavvy004", "Yes", 0, 38000, 14820, 0.39, 55, 8, 2, 0},
		{"0xSharp005", "No", 1, 29500, 17405, 0.59, 20, 3, 2, 0},
		{"0xKeen006", "Yes", 0, 22000, 9680, 0.44, 40, 14, 1, 0},
		{"0xAce007", "Yes", 0, 18500, 8695, 0.47, 25, 20, 1, 0},
		{"0xEdge008", "No", 1, 15000, 8250, 0.55, 15, 6, 2, 0},
		{"0xClev009", "Yes", 0, 12000, 6000, 0.50, 35, 120, 1, 0},
		{"0xBold010", "No", 1, 10200, 6324, 0.62, 10, 10, 1, 0},
		{"0xQuik011", "Yes", 0, 8800, 3344, 0.38, 50, 45, 1, 0},
		{"0xEarl013", "Yes", 0, 6900, 2139, 0.31, 70, 7, 2, 0},
		{"0xTiny015", "Yes", 0, 5300, 2756, 0.52, 18, 40, 1, 0},
	}

	positions := make(map[string]*market.Position, len(rows))
	for _, r := range rows {
		positions[r.wallet] = &market.Position{
			Wallet:         r.wallet,
			Outcome:        r.outcome,
			OutcomeIndex:   r.outcomeIdx,
			NetShares:      r.shares,
			USDCInvested:   r.invested,
			TotalBuyShares: r.shares,
			AvgEntry:       r.avgEntry,
			FirstTradeTS:   m.ts(r.firstDays),
			LastTradeTS:    m.ts(r.lastDays),
			NumBuys:        r.buys,
			NumSells:       r.sells,
		}
	}
	return positions, nil
}

// WalletStats returns the canned lifetime record for a wallet. Unknown
// wallets get empty stats, which the profit gate drops.
func (m *MockBackend) WalletStats(ctx context.Context, wallet, targetCategory string) (stats.WalletStats, error) {
	type row struct {
		totalPnL    float64
		realizedPnL float64
		winRate     float64
		closedWins  int
		closedTotal int
		markets     int
		volume      float64
		lastDays    int
		recentPnL   float64
		histPnL     float64
		catPnL      float64
		catTotal    float64
	}
	rows := map[string]row{
		// Crypto expert, hot streak, big realized profit
		"0xWhale001": {312000, 290000, 0.74, 355, 480, 480, 4100000, 2, 42000, 248000, 198000, 290000},
		// Solid crypto trader, consistent
		"0xSmart002": {88000, 79000, 0.69, 131, 190, 190, 1200000, 5, 18000, 61000, 55000, 79000},
		// Politics specialist, less relevant for a crypto market
		"0xPro003": {145000, 130000, 0.78, 242, 310, 310, 2300000, 1, 8000, 122000, 9100, 130000},
		// Crypto specialist, smaller scale
		"0xSavvy004": {52000, 46000, 0.65, 84, 130, 130, 780000, 8, 14000, 32000, 35000, 46000},
		// Diversified, recent cold streak
		"0xSharp005": {71000, 63000, 0.72, 151, 210, 210, 1050000, 3, -4000, 67000, 12000, 63000},
		// Decent crypto record
		"0xKeen006": {28000, 24000, 0.61, 52, 85, 85, 420000, 14, 6000, 18000, 16000, 24000},
		// Sports bettor, weak crypto expertise
		"0xAce007": {19500, 17000, 0.58, 39, 67, 67, 310000, 20, 2000, 15000, 1700, 17000},
		// Consistent, some crypto
		"0xEdge008": {33000, 29000, 0.63, 69, 110, 110, 560000, 6, 7000, 22000, 18000, 29000},
		// Inactive 120 days, stale profits
		"0xClev009": {11000, 9500, 0.54, 24, 44, 44, 180000, 120, 0, 9500, 4000, 9500},
		// New, promising, hot streak
		"0xBold010": {22000, 19000, 0.60, 47, 79, 79, 350000, 10, 9000, 10000, 14000, 19000},
		// Barely qualifies, thin record
		"0xQuik011": {7800, 6200, 0.52, 16, 31, 31, 120000, 45, 1000, 5200, 2000, 6200},
		// Early entrant, crypto focus
		"0xEarl013": {14000, 12000, 0.57, 31, 55, 55, 210000, 7, 4000, 8000, 9000, 12000},
		// Thin track record
		"0xTiny015": {6200, 5100, 0.53, 13, 25, 25, 95000, 40, 500, 4600, 1000, 5100},
	}

	r, ok := rows[wallet]
	if !ok {
		return stats.WalletStats{}, nil
	}
	return stats.WalletStats{
		TotalPnL:      r.totalPnL,
		RealizedPnL:   r.realizedPnL,
		WinRate:       r.winRate,
		ClosedWins:    r.closedWins,
		ClosedTotal:   r.closedTotal,
		MarketsTraded: r.markets,
		TotalVolume:   r.volume,
		LastTradeTS:   m.ts(r.lastDays),
		RecentPnL:     r.recentPnL,
		HistoricalPnL: r.histPnL,
		CategoryPnL:   r.catPnL,
		CategoryTotal: r.catTotal,
	}, nil
}
