package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/polysignal/engine/internal/analyzer"
	"github.com/polysignal/engine/internal/scoring"
	"github.com/polysignal/engine/internal/storage"
)

// jsonReport is the machine-readable output shape for -json
type jsonReport struct {
	Market struct {
		Question    string  `json:"question"`
		ConditionID string  `json:"condition_id"`
		Category    string  `json:"category"`
		YesPrice    float64 `json:"yes_price"`
		NoPrice     float64 `json:"no_price"`
		Volume      float64 `json:"volume"`
		Liquidity   float64 `json:"liquidity"`
		EndDate     string  `json:"end_date"`
	} `json:"market"`
	Signal struct {
		Signal         string  `json:"signal"`
		Strength       string  `json:"strength"`
		Confidence     float64 `json:"confidence"`
		Reasoning      string  `json:"reasoning"`
		YesPct         float64 `json:"yes_pct"`
		NoPct          float64 `json:"no_pct"`
		YesCount       int     `json:"yes_count"`
		NoCount        int     `json:"no_count"`
		TotalQualified int     `json:"total_qualified"`
		Top5Consensus  string  `json:"top5_consensus"`
		WhaleWarning   string  `json:"whale_warning,omitempty"`
		ClusterWarning string  `json:"cluster_warning,omitempty"`
		ClustersFound  int     `json:"clusters_found"`
	} `json:"signal"`
	Wallets []jsonWallet `json:"wallets"`
	Stats   struct {
		TotalHolders   int     `json:"total_holders"`
		WalletsChecked int     `json:"wallets_checked"`
		Qualified      int     `json:"qualified"`
		ElapsedSec     float64 `json:"elapsed_s"`
	} `json:"stats"`
	Drops struct {
		BelowPnL      int `json:"dropped_below_pnl"`
		BelowRealized int `json:"dropped_below_realized"`
		BelowMarkets  int `json:"dropped_below_markets"`
		BelowWins     int `json:"dropped_below_wins"`
	} `json:"filter_stats"`
}

type jsonWallet struct {
	Address       string  `json:"address"`
	Outcome       string  `json:"outcome"`
	Composite     float64 `json:"composite"`
	ProfitScore   float64 `json:"s_profit"`
	WinRateScore  float64 `json:"s_win_rate"`
	Conviction    float64 `json:"s_conviction"`
	RecencyScore  float64 `json:"s_recency"`
	TimingScore   float64 `json:"s_timing"`
	CategoryMult  float64 `json:"cat_multiplier"`
	FormMult      float64 `json:"form_multiplier"`
	TotalPnL      float64 `json:"total_pnl"`
	RealizedPnL   float64 `json:"realized_pnl"`
	WinRate       float64 `json:"win_rate"`
	MarketsTraded int     `json:"markets_traded"`
	USDCInvested  float64 `json:"usdc_invested"`
	NetShares     float64 `json:"net_shares"`
}

func buildReport(result *analyzer.Result, topN int) *jsonReport {
	r := &jsonReport{}
	r.Market.Question = result.Market.Question
	r.Market.ConditionID = result.Market.ConditionID
	r.Market.Category = result.Market.Category
	r.Market.YesPrice = result.Market.YesPrice
	r.Market.NoPrice = result.Market.NoPrice
	r.Market.Volume = result.Market.Volume
	r.Market.Liquidity = result.Market.Liquidity
	r.Market.EndDate = result.Market.EndDate

	r.Signal.Signal = result.Signal.Signal
	r.Signal.Strength = result.Signal.Strength
	r.Signal.Confidence = result.Signal.Confidence
	r.Signal.Reasoning = result.Signal.Reasoning
	r.Signal.YesPct = result.Signal.YesPct
	r.Signal.NoPct = result.Signal.NoPct
	r.Signal.YesCount = result.Signal.YesCount
	r.Signal.NoCount = result.Signal.NoCount
	r.Signal.TotalQualified = result.Signal.TotalQualified
	r.Signal.Top5Consensus = result.Signal.Top5Consensus
	r.Signal.WhaleWarning = result.Signal.WhaleWarning
	r.Signal.ClusterWarning = result.Signal.ClusterWarning
	r.Signal.ClustersFound = result.Signal.ClustersFound

	for _, p := range topProfiles(result.Profiles, topN) {
		r.Wallets = append(r.Wallets, jsonWallet{
			Address:       p.Wallet,
			Outcome:       p.Outcome,
			Composite:     p.Composite,
			ProfitScore:   p.ProfitScore,
			WinRateScore:  p.WinRateScore,
			Conviction:    p.ConvictionScore,
			RecencyScore:  p.RecencyScore,
			TimingScore:   p.TimingScore,
			CategoryMult:  p.CategoryMult,
			FormMult:      p.FormMult,
			TotalPnL:      p.Stats.TotalPnL,
			RealizedPnL:   p.Stats.RealizedPnL,
			WinRate:       p.Stats.WinRate,
			MarketsTraded: p.Stats.MarketsTraded,
			USDCInvested:  p.Position.USDCInvested,
			NetShares:     p.Position.NetShares,
		})
	}

	r.Stats.TotalHolders = result.Stats.TotalHolders
	r.Stats.WalletsChecked = result.Stats.WalletsChecked
	r.Stats.Qualified = result.Stats.Qualified
	r.Stats.ElapsedSec = result.Stats.Elapsed.Seconds()

	r.Drops.BelowPnL = result.Drops.BelowPnL
	r.Drops.BelowRealized = result.Drops.BelowRealized
	r.Drops.BelowMarkets = result.Drops.BelowMarkets
	r.Drops.BelowWins = result.Drops.BelowWins

	return r
}

func formatReport(result *analyzer.Result, topN int) string {
	var b strings.Builder
	rule := strings.Repeat("=", 70)
	thin := strings.Repeat("-", 70)

	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "SMART MONEY ANALYSIS\n")
	fmt.Fprintf(&b, "%s\n\n", rule)

	fmt.Fprintf(&b, "Market:    %s\n", result.Market.Question)
	fmt.Fprintf(&b, "Category:  %s\n", result.Market.Category)
	fmt.Fprintf(&b, "Prices:    YES %.2f / NO %.2f\n", result.Market.YesPrice, result.Market.NoPrice)
	if result.Market.Volume > 0 {
		fmt.Fprintf(&b, "Volume:    $%.0f (liquidity $%.0f)\n", result.Market.Volume, result.Market.Liquidity)
	}
	if result.Market.EndDate != "" {
		fmt.Fprintf(&b, "Ends:      %s\n", result.Market.EndDate)
	}

	sig := result.Signal
	fmt.Fprintf(&b, "\n%s\n", thin)
	fmt.Fprintf(&b, "SIGNAL: %s (%s)  confidence %.1f/10\n", sig.Signal, sig.Strength, sig.Confidence)
	fmt.Fprintf(&b, "%s\n", thin)
	fmt.Fprintf(&b, "YES vote: %5.1f%% (%d wallets)    NO vote: %5.1f%% (%d wallets)\n",
		sig.YesPct, sig.YesCount, sig.NoPct, sig.NoCount)
	fmt.Fprintf(&b, "Top-5 consensus: %s\n", sig.Top5Consensus)
	if sig.WhaleWarning != "" {
		fmt.Fprintf(&b, "WARNING: %s\n", sig.WhaleWarning)
	}
	if sig.ClusterWarning != "" {
		fmt.Fprintf(&b, "WARNING: %s\n", sig.ClusterWarning)
	}
	fmt.Fprintf(&b, "\n%s\n", sig.Reasoning)

	top := topProfiles(result.Profiles, topN)
	fmt.Fprintf(&b, "\n%s\n", thin)
	fmt.Fprintf(&b, "TOP %d QUALIFIED WALLETS (of %d)\n", len(top), len(result.Profiles))
	fmt.Fprintf(&b, "%s\n", thin)
	fmt.Fprintf(&b, "%-4s %-14s %-4s %-6s %-11s %-6s %-5s %-10s\n",
		"#", "Wallet", "Side", "Score", "Total P&L", "WinRt", "Mkts", "Invested")
	for i, p := range top {
		fmt.Fprintf(&b, "%-4d %-14s %-4s %.3f  $%-10.0f %-5.0f%% %-5d $%-9.0f\n",
			i+1, shorten(p.Wallet), strings.ToUpper(p.Outcome), p.Composite,
			p.Stats.TotalPnL, p.Stats.WinRate*100, p.Stats.MarketsTraded,
			p.Position.USDCInvested)
	}

	fmt.Fprintf(&b, "\n%s\n", thin)
	fmt.Fprintf(&b, "RUN STATS\n")
	fmt.Fprintf(&b, "%s\n", thin)
	fmt.Fprintf(&b, "Holders scanned:  %d\n", result.Stats.TotalHolders)
	fmt.Fprintf(&b, "Qualified:        %d\n", result.Stats.Qualified)
	fmt.Fprintf(&b, "Dropped:          %d below profit, %d below realized, %d below markets, %d below wins\n",
		result.Drops.BelowPnL, result.Drops.BelowRealized, result.Drops.BelowMarkets, result.Drops.BelowWins)
	fmt.Fprintf(&b, "Elapsed:          %.1fs\n", result.Stats.Elapsed.Seconds())

	return b.String()
}

func formatHistory(runs []storage.AnalysisRun, topWallets map[int64]string) string {
	var b strings.Builder
	thin := strings.Repeat("-", 70)

	fmt.Fprintf(&b, "%s\n", thin)
	fmt.Fprintf(&b, "RECENT RUNS FOR THIS MARKET\n")
	fmt.Fprintf(&b, "%s\n", thin)
	fmt.Fprintf(&b, "%-17s %-16s %-9s %-5s %-7s %-7s %-14s\n",
		"When", "Signal", "Strength", "Conf", "YES%", "Qualif", "Top wallet")
	for _, run := range runs {
		when := time.Unix(run.CreatedTS, 0).UTC().Format("2006-01-02 15:04")
		top := topWallets[run.ID]
		if top != "" {
			top = shorten(top)
		}
		fmt.Fprintf(&b, "%-17s %-16s %-9s %-5.1f %-7.1f %-7d %-14s\n",
			when, run.Signal, run.Strength, run.Confidence, run.YesPct, run.Qualified, top)
	}

	return b.String()
}

func topProfiles(profiles []*scoring.Profile, n int) []*scoring.Profile {
	if len(profiles) > n {
		return profiles[:n]
	}
	return profiles
}

func shorten(wallet string) string {
	if len(wallet) <= 12 {
		return wallet
	}
	return wallet[:8] + ".." + wallet[len(wallet)-2:]
}
