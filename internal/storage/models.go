package storage

import (
	"time"

	"gorm.io/gorm"
)

// AnalysisRun records one completed market analysis
type AnalysisRun struct {
	ID             int64   `gorm:"primaryKey;autoIncrement"`
	MarketURL      string  `gorm:"size:512;not null"`
	ConditionID    string  `gorm:"size:128;not null;index"`
	Question       string  `gorm:"size:512"`
	Category       string  `gorm:"size:128"`
	YesPrice       float64 `gorm:"type:decimal(10,6)"`
	Signal         string  `gorm:"size:32;not null;index"`
	Strength       string  `gorm:"size:16;not null"`
	Confidence     float64 `gorm:"type:decimal(4,1);not null"`
	YesPct         float64 `gorm:"type:decimal(5,1)"`
	NoPct          float64 `gorm:"type:decimal(5,1)"`
	Reasoning      string  `gorm:"type:text"`
	TotalHolders   int     `gorm:"not null"`
	WalletsChecked int     `gorm:"not null"`
	Qualified      int     `gorm:"not null"`
	DroppedPnL     int     `gorm:"not null;default:0"`
	DroppedRealized int    `gorm:"not null;default:0"`
	DroppedMarkets int     `gorm:"not null;default:0"`
	DroppedWins    int     `gorm:"not null;default:0"`
	ClustersFound  int     `gorm:"not null;default:0"`
	ElapsedMS      int64   `gorm:"not null"`
	CreatedTS      int64   `gorm:"not null;index"`
}

func (AnalysisRun) TableName() string {
	return "analysis_runs"
}

// WalletProfileRecord stores one scored wallet from a run, for later audit
// of how scores evolved between runs
type WalletProfileRecord struct {
	ID            int64   `gorm:"primaryKey;autoIncrement"`
	RunID         int64   `gorm:"not null;index"`
	WalletAddress string  `gorm:"size:128;not null;index"`
	Outcome       string  `gorm:"size:10;not null"`
	Rank          int     `gorm:"not null"`
	Composite     float64 `gorm:"type:decimal(6,4);not null"`
	CompositeBase float64 `gorm:"type:decimal(6,4);not null"`
	ProfitScore   float64 `gorm:"type:decimal(5,3)"`
	WinRateScore  float64 `gorm:"type:decimal(5,3)"`
	ConvictionScore float64 `gorm:"type:decimal(5,3)"`
	RecencyScore  float64 `gorm:"type:decimal(5,3)"`
	TimingScore   float64 `gorm:"type:decimal(5,3)"`
	CategoryMult  float64 `gorm:"type:decimal(5,3)"`
	FormMult      float64 `gorm:"type:decimal(5,3)"`
	TotalPnL      float64 `gorm:"type:decimal(20,6)"`
	RealizedPnL   float64 `gorm:"type:decimal(20,6)"`
	WinRate       float64 `gorm:"type:decimal(5,4)"`
	MarketsTraded int     `gorm:"not null;default:0"`
	USDCInvested  float64 `gorm:"type:decimal(20,6)"`
	NetShares     float64 `gorm:"type:decimal(20,6)"`
	FirstTradeTS  int64   `gorm:"not null;default:0"`
	CreatedTS     int64   `gorm:"not null;index"`
}

func (WalletProfileRecord) TableName() string {
	return "wallet_profiles"
}

// BeforeCreate hooks for timestamps
func (r *AnalysisRun) BeforeCreate(tx *gorm.DB) error {
	if r.CreatedTS == 0 {
		r.CreatedTS = time.Now().Unix()
	}
	return nil
}

func (p *WalletProfileRecord) BeforeCreate(tx *gorm.DB) error {
	if p.CreatedTS == 0 {
		p.CreatedTS = time.Now().Unix()
	}
	return nil
}
