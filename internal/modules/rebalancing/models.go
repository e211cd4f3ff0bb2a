package rebalancing

import (
	"time"

	"github.com/snowfolio/snowfolio/internal/domain"
)

// Urgency ranks how pressing a rebalance decision is.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Rank returns the numeric ordering used for tie-breaking (high wins).
func (u Urgency) Rank() int {
	switch u {
	case UrgencyHigh:
		return 3
	case UrgencyMedium:
		return 2
	case UrgencyLow:
		return 1
	}
	return 0
}

// Decision is the outcome of one rebalance evaluation. Produced fresh per
// call; the evaluation itself never persists anything.
type Decision struct {
	ShouldRebalance        bool               `json:"should_rebalance"`
	Reason                 string             `json:"reason"`
	Urgency                Urgency            `json:"urgency"`
	NewAllocation          *domain.Allocation `json:"new_allocation,omitempty"`
	ExpectedImprovementBps *float64           `json:"expected_improvement_bps,omitempty"`
	EstimatedGasCostAVAX   *float64           `json:"estimated_gas_cost_avax,omitempty"`
}

// HistoryEntry is one recorded auto-rebalance trigger.
type HistoryEntry struct {
	ID          string            `json:"id"`
	Address     string            `json:"address"`
	Reason      string            `json:"reason"`
	Urgency     Urgency           `json:"urgency"`
	Executed    bool              `json:"executed"`
	Allocation  domain.Allocation `json:"allocation"`
	GasCostAVAX float64           `json:"gas_cost_avax"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Trigger thresholds. Fixed policy constants; the product has no
// configuration surface for them.
const (
	// Drift rule: percentage points of max per-protocol drift.
	driftTriggerPts = 10.0
	driftHighPts    = 20.0

	// Opportunity rule: basis points of weighted-APY improvement.
	opportunityTriggerBps = 100.0
	opportunityHighBps    = 300.0

	// Time rule: days since last rebalance for high urgency.
	timeHighDays = 60

	// Profile-mismatch rule: percentage held in the wrong risk bucket.
	conservativeMaxHighRiskPct = 20.0
	aggressiveMaxLowRiskPct    = 50.0
)
