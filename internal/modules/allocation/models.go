package allocation

import (
	"github.com/snowfolio/snowfolio/internal/domain"
)

// StrategySource records whether a strategy was built from live yield data
// or from fallback defaults, so callers can tell the two apart.
type StrategySource string

const (
	SourceLive     StrategySource = "live"
	SourceFallback StrategySource = "fallback"
)

// Strategy is a target percentage allocation with its supporting context.
// ExpectedAPY is a fraction (0.085 = 8.5% annual).
type Strategy struct {
	Allocation  domain.Allocation  `json:"allocation"`
	Rationale   string             `json:"rationale"`
	ExpectedAPY float64            `json:"expected_apy"`
	RiskLevel   domain.RiskProfile `json:"risk_level"`
	Source      StrategySource     `json:"source"`
}

// bounds is the per-protocol floor/ceiling applied after yield adjustment.
type bounds struct {
	min, max float64
}

// profileBase holds the base allocation and clamping bounds for one profile.
// Floors keep a protocol from being squeezed to zero unless its base is
// already zero; ceilings cap single-protocol concentration.
type profileBase struct {
	base   domain.Allocation
	limits map[domain.Protocol]bounds
}

var profileBases = map[domain.RiskProfile]profileBase{
	domain.ProfileConservative: {
		base: domain.Allocation{Aave: 70, TraderJoe: 30, YieldYak: 0},
		limits: map[domain.Protocol]bounds{
			domain.ProtocolAave:      {min: 50, max: 90},
			domain.ProtocolTraderJoe: {min: 10, max: 50},
			domain.ProtocolYieldYak:  {min: 0, max: 10},
		},
	},
	domain.ProfileBalanced: {
		base: domain.Allocation{Aave: 40, TraderJoe: 40, YieldYak: 20},
		limits: map[domain.Protocol]bounds{
			domain.ProtocolAave:      {min: 20, max: 60},
			domain.ProtocolTraderJoe: {min: 20, max: 60},
			domain.ProtocolYieldYak:  {min: 5, max: 40},
		},
	},
	domain.ProfileAggressive: {
		base: domain.Allocation{Aave: 20, TraderJoe: 30, YieldYak: 50},
		limits: map[domain.Protocol]bounds{
			domain.ProtocolAave:      {min: 5, max: 40},
			domain.ProtocolTraderJoe: {min: 10, max: 50},
			domain.ProtocolYieldYak:  {min: 30, max: 70},
		},
	},
}

// adjustmentScale is the maximum pull, in percentage points, a protocol's
// relative yield advantage can exert on its base allocation.
const adjustmentScale = 10.0
