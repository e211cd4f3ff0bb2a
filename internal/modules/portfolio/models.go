package portfolio

import (
	"time"

	"github.com/snowfolio/snowfolio/internal/domain"
	"github.com/snowfolio/snowfolio/internal/modules/risk"
)

// UserProfile is the persisted per-wallet profile: questionnaire answers,
// the derived risk score, and rebalance preferences.
type UserProfile struct {
	Address                string             `json:"address"`
	Assessment             risk.Assessment    `json:"assessment"`
	RiskScore              int                `json:"risk_score"`
	RiskProfile            domain.RiskProfile `json:"risk_profile"`
	AutoRebalanceEnabled   bool               `json:"auto_rebalance_enabled"`
	RebalanceFrequencyDays int                `json:"rebalance_frequency_days"`
	CheckIntervalMinutes   int                `json:"check_interval_minutes"`
	LastRebalanceAt        *time.Time         `json:"last_rebalance_at,omitempty"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

// Snapshot is one recorded observation of a wallet's on-chain portfolio.
type Snapshot struct {
	Address       string            `json:"address"`
	TotalValueUSD float64           `json:"total_value_usd"`
	Allocation    domain.Allocation `json:"allocation"`
	RecordedAt    time.Time         `json:"recorded_at"`
}
