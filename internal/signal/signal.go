// Package signal turns a ranked set of scored wallet profiles into a single
// market-level directional signal.
package signal

import (
	"fmt"
	"math"
	"strings"

	"github.com/polysignal/engine/internal/scoring"
)

// Signal directions
const (
	BuyYes        = "BUY_YES"
	BuyNo         = "BUY_NO"
	NoClearSignal = "NO_CLEAR_SIGNAL"
)

// Strength labels
const (
	StrengthStrong   = "STRONG"
	StrengthModerate = "MODERATE"
	StrengthWeak     = "WEAK"
	StrengthNone     = "N/A"
)

// Weighted-vote share thresholds on the dominant side
const (
	strongThreshold   = 0.65
	moderateThreshold = 0.57
	weakThreshold     = 0.52
)

// Signal is the final aggregated output for a market
type Signal struct {
	Signal         string
	Strength       string
	Confidence     float64 // 0-10
	Reasoning      string
	YesPct         float64 // 0-100
	NoPct          float64 // 0-100
	YesCount       int
	NoCount        int
	TotalQualified int
	Top5Consensus  string
	WhaleWarning   string
	ClusterWarning string
	ClustersFound  int
}

// Aggregate converts scored profiles into a market signal. Profiles must be
// pre-sorted by composite score descending; the top-5 consensus and whale
// check both index from the front.
//
// Vote weight per wallet is composite x conviction x sqrt(invested). Wallets
// that entered within 24 hours of each other form a cluster whose combined
// vote is capped at 1.5x a single average member, so coordinated wallets
// cannot dominate the signal.
func Aggregate(profiles []*scoring.Profile) *Signal {
	if len(profiles) < 3 {
		return emptySignal(fmt.Sprintf("Only %d qualified wallets - need 3+ for a signal", len(profiles)))
	}

	clusters := scoring.DetectClusters(profiles)
	clusterOf := make(map[string]int)
	for cid, cluster := range clusters {
		for _, wallet := range cluster {
			clusterOf[wallet] = cid
		}
	}

	voteRaw := func(p *scoring.Profile) float64 {
		return p.Composite * p.ConvictionScore * math.Sqrt(math.Max(p.Position.USDCInvested, 1))
	}

	// Scale each cluster so its total equals vote cap x average member vote
	clusterTotals := make(map[int]float64)
	clusterCounts := make(map[int]int)
	for _, p := range profiles {
		if cid, ok := clusterOf[p.Wallet]; ok {
			clusterTotals[cid] += voteRaw(p)
			clusterCounts[cid]++
		}
	}
	clusterScales := make(map[int]float64)
	for cid, total := range clusterTotals {
		scale := 1.0
		if total > 0 {
			avgSingle := total / float64(clusterCounts[cid])
			scale = avgSingle * scoring.ClusterVoteCap / total
		}
		clusterScales[cid] = scale
	}

	vote := func(p *scoring.Profile) float64 {
		raw := voteRaw(p)
		if cid, ok := clusterOf[p.Wallet]; ok {
			return raw * clusterScales[cid]
		}
		return raw
	}

	var yesVotes, noVotes float64
	var yesCount, noCount int
	for _, p := range profiles {
		if isYes(p.Outcome) {
			yesVotes += vote(p)
			yesCount++
		} else {
			noVotes += vote(p)
			noCount++
		}
	}

	total := yesVotes + noVotes
	if total == 0 {
		total = 1
	}
	yesPct := yesVotes / total
	noPct := noVotes / total

	// Top-5 consensus
	top5 := profiles
	if len(top5) > 5 {
		top5 = top5[:5]
	}
	top5Yes := 0
	for _, p := range top5 {
		if isYes(p.Outcome) {
			top5Yes++
		}
	}
	top5No := len(top5) - top5Yes

	var topLabel string
	switch {
	case top5Yes >= 4:
		topLabel = fmt.Sprintf("Strong YES (%d/5)", top5Yes)
	case top5No >= 4:
		topLabel = fmt.Sprintf("Strong NO (%d/5)", top5No)
	case top5Yes >= 3:
		topLabel = fmt.Sprintf("Lean YES (%d/5)", top5Yes)
	case top5No >= 3:
		topLabel = fmt.Sprintf("Lean NO (%d/5)", top5No)
	default:
		topLabel = fmt.Sprintf("Split (%d/%d)", top5Yes, top5No)
	}

	// Confidence (0-10)
	spread := math.Abs(yesPct - noPct)
	sampleFactor := math.Min(float64(len(profiles))/10.0, 1.5)
	consensusBonus := 0.0
	if strings.Contains(topLabel, "Strong") {
		consensusBonus = 2.0
	} else if strings.Contains(topLabel, "Lean") {
		consensusBonus = 1.0
	}
	confidence := math.Min(spread*10*sampleFactor+consensusBonus, 10.0)

	dominantPct := math.Max(yesPct, noPct)
	var strength string
	switch {
	case dominantPct >= strongThreshold:
		strength = StrengthStrong
	case dominantPct >= moderateThreshold:
		strength = StrengthModerate
	case dominantPct >= weakThreshold:
		strength = StrengthWeak
	}

	direction := NoClearSignal
	if strength != "" {
		if yesPct > noPct {
			direction = BuyYes
		} else {
			direction = BuyNo
		}
	}

	// Whale dominance check
	whaleWarning := ""
	if len(profiles) >= 2 {
		top := profiles[0].Position.USDCInvested
		second := profiles[1].Position.USDCInvested
		if second > 0 && top/second >= 3 {
			whaleWarning = fmt.Sprintf("Single whale dominates (%.1fx #2 holder)", top/second)
		}
	}

	// Cluster warning
	clusterWarning := ""
	if len(clusters) > 0 {
		biggest := 0
		for _, c := range clusters {
			if len(c) > biggest {
				biggest = len(c)
			}
		}
		if biggest >= 3 {
			clusterWarning = fmt.Sprintf("%d wallets entered within 24h of each other - possible coordination (vote weight capped)", biggest)
		}
	}

	dominantSide := "YES"
	dominantCount := yesCount
	if noPct > yesPct {
		dominantSide = "NO"
		dominantCount = noCount
	}

	var topPnL float64
	for _, p := range top5 {
		topPnL += p.Stats.TotalPnL
	}
	topAvgPnL := topPnL / float64(len(top5))

	var b strings.Builder
	if strength != "" {
		b.WriteString(strength + " ")
	}
	fmt.Fprintf(&b, "%s: %d/%d qualified wallets positioned %s (%.0f%% weighted vote). ",
		strings.ReplaceAll(direction, "_", " "), dominantCount, len(profiles), dominantSide, dominantPct*100)
	fmt.Fprintf(&b, "Top-5 consensus: %s. ", topLabel)
	fmt.Fprintf(&b, "Avg P&L of top-5: $%.0f.", topAvgPnL)
	if whaleWarning != "" {
		b.WriteString(" Warning: " + whaleWarning + ".")
	}
	if clusterWarning != "" {
		b.WriteString(" Warning: " + clusterWarning + ".")
	}

	strengthLabel := strength
	if strengthLabel == "" {
		strengthLabel = StrengthNone
	}

	return &Signal{
		Signal:         direction,
		Strength:       strengthLabel,
		Confidence:     round1(confidence),
		Reasoning:      b.String(),
		YesPct:         round1(yesPct * 100),
		NoPct:          round1(noPct * 100),
		YesCount:       yesCount,
		NoCount:        noCount,
		TotalQualified: len(profiles),
		Top5Consensus:  topLabel,
		WhaleWarning:   whaleWarning,
		ClusterWarning: clusterWarning,
		ClustersFound:  len(clusters),
	}
}

func emptySignal(reason string) *Signal {
	return &Signal{
		Signal:        NoClearSignal,
		Strength:      StrengthNone,
		Confidence:    0.0,
		Reasoning:     reason,
		Top5Consensus: StrengthNone,
	}
}

func isYes(outcome string) bool {
	return strings.EqualFold(outcome, "yes")
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
