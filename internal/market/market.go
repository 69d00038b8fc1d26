// Package market holds the target-market context and the reconstruction of
// open wallet positions from raw trade history.
package market

import "time"

// Context describes the market under analysis
type Context struct {
	ConditionID string
	Question    string
	YesPrice    float64
	NoPrice     float64
	Volume      float64
	Liquidity   float64
	EndDate     string // ISO date, may be empty
	Category    string
}

// EndTimestamp parses the market end date. Markets without a usable end date
// are treated as resolving 30 days out.
func (c *Context) EndTimestamp(now time.Time) int64 {
	if c.EndDate != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, c.EndDate); err == nil {
				return t.Unix()
			}
		}
	}
	return now.AddDate(0, 0, 30).Unix()
}

// Position is a wallet's reconstructed open position in the target market
type Position struct {
	Wallet         string
	Outcome        string // Yes or No
	OutcomeIndex   int
	NetShares      float64
	USDCInvested   float64
	TotalBuyShares float64
	AvgEntry       float64
	FirstTradeTS   int64
	LastTradeTS    int64
	NumBuys        int
	NumSells       int
}
