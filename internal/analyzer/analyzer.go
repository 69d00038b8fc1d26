// Package analyzer orchestrates the full market analysis pipeline: resolve
// market, reconstruct positions, profile every holder concurrently, score,
// and aggregate the final signal.
package analyzer

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/polysignal/engine/internal/market"
	"github.com/polysignal/engine/internal/metrics"
	"github.com/polysignal/engine/internal/scoring"
	"github.com/polysignal/engine/internal/signal"
	"github.com/polysignal/engine/internal/stats"
)

// DefaultWorkers is the number of concurrent wallet stat lookups.
// Aggressive enough to be fast, gentle enough not to get rate-limited.
const DefaultWorkers = 10

// MarketResolver resolves a market URL to the market under analysis
type MarketResolver interface {
	ResolveMarket(ctx context.Context, rawURL string) (*market.Context, error)
}

// PositionSource returns current open positions per wallet for a market
type PositionSource interface {
	MarketPositions(ctx context.Context, conditionID string) (map[string]*market.Position, error)
}

// ProgressFunc receives progress updates during a run. Percent is
// monotonically non-decreasing in [0,100]. Purely observational.
type ProgressFunc func(message string, percent int)

// RunStats summarizes a completed analysis run
type RunStats struct {
	TotalHolders   int
	WalletsChecked int
	Qualified      int
	Elapsed        time.Duration
}

// DropCounts tallies wallets rejected per hard filter
type DropCounts struct {
	BelowPnL      int
	BelowRealized int
	BelowMarkets  int
	BelowWins     int
}

// Result is the success payload of an analysis run
type Result struct {
	MarketURL string
	Market    *market.Context
	Signal    *signal.Signal
	Profiles  []*scoring.Profile // sorted by composite, descending
	Stats     RunStats
	Drops     DropCounts
}

// Analyzer runs the analysis pipeline against pluggable data sources
type Analyzer struct {
	markets   MarketResolver
	positions PositionSource
	stats     stats.Provider
	evaluator *scoring.Evaluator
	workers   int
	now       func() time.Time
}

// New creates an analyzer. workers <= 0 falls back to DefaultWorkers.
func New(markets MarketResolver, positions PositionSource, statsProvider stats.Provider, thresholds scoring.Thresholds, workers int) *Analyzer {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Analyzer{
		markets:   markets,
		positions: positions,
		stats:     statsProvider,
		evaluator: scoring.NewEvaluator(thresholds),
		workers:   workers,
		now:       time.Now,
	}
}

type walletTask struct {
	index    int
	wallet   string
	position *market.Position
}

type walletResult struct {
	index   int
	wallet  string
	profile *scoring.Profile
	drop    scoring.DropReason
	statErr error
}

// Run executes the full pipeline for one market. Failures before scoring
// begins (unresolvable market, no trades, no holders) abort the run; a
// single wallet's stats lookup failing is absorbed as empty stats and
// counted, never propagated.
func (a *Analyzer) Run(ctx context.Context, marketURL string, progress ProgressFunc) (*Result, error) {
	report := func(msg string, pct int) {
		if progress != nil {
			progress(msg, pct)
		}
	}

	t0 := a.now()

	report("Fetching market metadata...", 5)
	mkt, err := a.markets.ResolveMarket(ctx, marketURL)
	if err != nil {
		metrics.RecordAnalysisRun(time.Since(t0), err)
		return nil, fmt.Errorf("market fetch failed: %w", err)
	}
	if mkt.ConditionID == "" {
		err := fmt.Errorf("market could not be resolved from %s", marketURL)
		metrics.RecordAnalysisRun(time.Since(t0), err)
		return nil, err
	}

	report("Fetching market trades...", 15)
	positions, err := a.positions.MarketPositions(ctx, mkt.ConditionID)
	if err != nil {
		metrics.RecordAnalysisRun(time.Since(t0), err)
		return nil, fmt.Errorf("trades fetch failed: %w", err)
	}
	if len(positions) == 0 {
		err := fmt.Errorf("no current holders found after aggregating trades")
		metrics.RecordAnalysisRun(time.Since(t0), err)
		return nil, err
	}

	totalHolders := len(positions)
	marketStartTS := market.StartTimestamp(positions, a.now())

	report(fmt.Sprintf("Profiling %d holders (concurrent)...", totalHolders), 30)

	// Submission order is fixed up front so composite ties break
	// deterministically across runs.
	tasks := make([]walletTask, 0, totalHolders)
	for wallet, pos := range positions {
		tasks = append(tasks, walletTask{wallet: wallet, position: pos})
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].wallet < tasks[j].wallet })
	for i := range tasks {
		tasks[i].index = i
	}

	results := make(chan walletResult, totalHolders)
	sem := make(chan struct{}, a.workers)
	var wg sync.WaitGroup

	for _, task := range tasks {
		wg.Add(1)
		go func(task walletTask) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			st, statErr := a.stats.WalletStats(ctx, task.wallet, mkt.Category)
			if statErr != nil {
				// Empty stats will fail the profit gate and be counted
				// as a drop; the batch continues regardless.
				st = stats.WalletStats{}
			}
			metrics.RecordWalletStatsFetch(statErr)

			profile, drop := a.evaluator.Evaluate(task.position, st, mkt, marketStartTS)
			results <- walletResult{
				index:   task.index,
				wallet:  task.wallet,
				profile: profile,
				drop:    drop,
				statErr: statErr,
			}
		}(task)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// The consuming side owns all mutable aggregate state; workers only
	// publish results, so no locks are needed in the task bodies.
	type indexed struct {
		index   int
		profile *scoring.Profile
	}
	var scored []indexed
	var drops DropCounts
	checked := 0
	completed := 0

	for res := range results {
		completed++
		if completed%10 == 0 || completed == totalHolders {
			pct := 30 + int(float64(completed)/float64(totalHolders)*55)
			report(fmt.Sprintf("Profiled %d/%d wallets...", completed, totalHolders), pct)
		}

		checked++
		metrics.RecordWalletEvaluation(res.drop.String())

		if res.statErr != nil {
			log.WithFields(log.Fields{
				"wallet": res.wallet,
			}).WithError(res.statErr).Debug("Wallet stats lookup failed, treating as empty")
		}

		switch res.drop {
		case scoring.DropNone:
			scored = append(scored, indexed{index: res.index, profile: res.profile})
			metrics.RecordCompositeScore(res.profile.Composite)
		case scoring.DropTotalPnL:
			drops.BelowPnL++
		case scoring.DropRealizedPnL:
			drops.BelowRealized++
		case scoring.DropMarkets:
			drops.BelowMarkets++
		case scoring.DropClosedWins:
			drops.BelowWins++
		}
	}

	if len(scored) == 0 {
		err := fmt.Errorf(
			"no wallets passed all filters (%d checked); dropped: %d below profit, %d below realized, %d below markets, %d below wins",
			checked, drops.BelowPnL, drops.BelowRealized, drops.BelowMarkets, drops.BelowWins)
		metrics.RecordAnalysisRun(time.Since(t0), err)
		return nil, err
	}

	report("Generating signal...", 90)

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].profile.Composite != scored[j].profile.Composite {
			return scored[i].profile.Composite > scored[j].profile.Composite
		}
		return scored[i].index < scored[j].index
	})

	profiles := make([]*scoring.Profile, len(scored))
	for i, s := range scored {
		profiles[i] = s.profile
	}

	sig := signal.Aggregate(profiles)
	metrics.RecordSignal(sig.Signal, sig.Strength)
	metrics.RecordClusters(sig.ClustersFound)

	elapsed := time.Since(t0)
	metrics.RecordAnalysisRun(elapsed, nil)
	report("Done", 100)

	log.WithFields(log.Fields{
		"market":     mkt.Question,
		"holders":    totalHolders,
		"qualified":  len(profiles),
		"signal":     sig.Signal,
		"confidence": sig.Confidence,
		"elapsed":    elapsed.Round(100 * time.Millisecond).String(),
	}).Info("Analysis complete")

	return &Result{
		MarketURL: marketURL,
		Market:    mkt,
		Signal:    sig,
		Profiles:  profiles,
		Stats: RunStats{
			TotalHolders:   totalHolders,
			WalletsChecked: checked,
			Qualified:      len(profiles),
			Elapsed:        elapsed,
		},
		Drops: drops,
	}, nil
}
