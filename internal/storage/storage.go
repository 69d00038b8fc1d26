// Package storage persists analysis run history. It is write-mostly: the
// engine itself is stateless between runs, the database only keeps an audit
// trail of past signals and scored wallets.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/polysignal/engine/internal/analyzer"
	"github.com/polysignal/engine/internal/config"
	"github.com/polysignal/engine/internal/metrics"
)

// DB wraps the GORM database connection
type DB struct {
	conn *gorm.DB
	log  *logrus.Logger
}

// New creates a new database connection with GORM
func New(cfg *config.Config, log *logrus.Logger) (*DB, error) {
	gormLogger := logger.New(
		&gormLogAdapter{log: log},
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	conn, err := gorm.Open(mysql.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.DatabaseMaxConns)
	sqlDB.SetMaxIdleConns(cfg.DatabaseMaxConns / 2)
	sqlDB.SetConnMaxIdleTime(cfg.DatabaseMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("Database connection established")

	return &DB{conn: conn, log: log}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate runs GORM auto-migration (for development only)
func (db *DB) AutoMigrate() error {
	return db.conn.AutoMigrate(
		&AnalysisRun{},
		&WalletProfileRecord{},
	)
}

// RecordRun persists a completed analysis run and its scored wallets in one
// transaction
func (db *DB) RecordRun(ctx context.Context, result *analyzer.Result) (int64, error) {
	start := time.Now()

	run := &AnalysisRun{
		MarketURL:       result.MarketURL,
		ConditionID:     result.Market.ConditionID,
		Question:        result.Market.Question,
		Category:        result.Market.Category,
		YesPrice:        result.Market.YesPrice,
		Signal:          result.Signal.Signal,
		Strength:        result.Signal.Strength,
		Confidence:      result.Signal.Confidence,
		YesPct:          result.Signal.YesPct,
		NoPct:           result.Signal.NoPct,
		Reasoning:       result.Signal.Reasoning,
		TotalHolders:    result.Stats.TotalHolders,
		WalletsChecked:  result.Stats.WalletsChecked,
		Qualified:       result.Stats.Qualified,
		DroppedPnL:      result.Drops.BelowPnL,
		DroppedRealized: result.Drops.BelowRealized,
		DroppedMarkets:  result.Drops.BelowMarkets,
		DroppedWins:     result.Drops.BelowWins,
		ClustersFound:   result.Signal.ClustersFound,
		ElapsedMS:       result.Stats.Elapsed.Milliseconds(),
	}

	err := db.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return err
		}
		for rank, p := range result.Profiles {
			record := &WalletProfileRecord{
				RunID:           run.ID,
				WalletAddress:   p.Wallet,
				Outcome:         p.Outcome,
				Rank:            rank + 1,
				Composite:       p.Composite,
				CompositeBase:   p.CompositeBase,
				ProfitScore:     p.ProfitScore,
				WinRateScore:    p.WinRateScore,
				ConvictionScore: p.ConvictionScore,
				RecencyScore:    p.RecencyScore,
				TimingScore:     p.TimingScore,
				CategoryMult:    p.CategoryMult,
				FormMult:        p.FormMult,
				TotalPnL:        p.Stats.TotalPnL,
				RealizedPnL:     p.Stats.RealizedPnL,
				WinRate:         p.Stats.WinRate,
				MarketsTraded:   p.Stats.MarketsTraded,
				USDCInvested:    p.Position.USDCInvested,
				NetShares:       p.Position.NetShares,
				FirstTradeTS:    p.Position.FirstTradeTS,
			}
			if err := tx.Create(record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	metrics.RecordDatabaseQuery("record_run", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}

	return run.ID, nil
}

// RecentRuns retrieves the most recent runs for a market, newest first
func (db *DB) RecentRuns(ctx context.Context, conditionID string, limit int) ([]AnalysisRun, error) {
	start := time.Now()
	var runs []AnalysisRun
	result := db.conn.WithContext(ctx).
		Where("condition_id = ?", conditionID).
		Order("created_ts DESC").
		Limit(limit).
		Find(&runs)
	metrics.RecordDatabaseQuery("recent_runs", time.Since(start), result.Error)
	return runs, result.Error
}

// RunProfiles retrieves the scored wallets recorded for a run, by rank
func (db *DB) RunProfiles(ctx context.Context, runID int64) ([]WalletProfileRecord, error) {
	start := time.Now()
	var records []WalletProfileRecord
	result := db.conn.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("`rank` ASC").
		Find(&records)
	metrics.RecordDatabaseQuery("run_profiles", time.Since(start), result.Error)
	return records, result.Error
}

// gormLogAdapter adapts logrus to GORM's logger interface
type gormLogAdapter struct {
	log *logrus.Logger
}

func (l *gormLogAdapter) Printf(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}
