package domain

import "time"

// Protocol identifies one of the supported Avalanche yield protocols.
type Protocol string

const (
	ProtocolAave      Protocol = "aave"
	ProtocolTraderJoe Protocol = "traderjoe"
	ProtocolYieldYak  Protocol = "yieldyak"
)

// Protocols lists the supported protocols ordered from lowest to highest risk.
// Aave (lending, battle-tested) < TraderJoe (DEX LP) < YieldYak (auto-compounding farms).
var Protocols = []Protocol{ProtocolAave, ProtocolTraderJoe, ProtocolYieldYak}

// LowestRiskProtocol and HighestRiskProtocol anchor the profile-mismatch checks.
const (
	LowestRiskProtocol  = ProtocolAave
	HighestRiskProtocol = ProtocolYieldYak
)

// RiskProfile is the three-tier classification derived from a risk score.
type RiskProfile string

const (
	ProfileConservative RiskProfile = "conservative"
	ProfileBalanced     RiskProfile = "balanced"
	ProfileAggressive   RiskProfile = "aggressive"
)

// YieldSnapshot is a point-in-time APY observation for one protocol.
// APY is a percentage (8.5 = 8.5% annual).
type YieldSnapshot struct {
	Protocol   Protocol  `json:"protocol"`
	APY        float64   `json:"apy"`
	Source     string    `json:"source"`
	RecordedAt time.Time `json:"recorded_at"`
}

// YieldSet holds the current APY per protocol, as percentages.
type YieldSet map[Protocol]float64

// Complete reports whether every supported protocol has a yield entry.
func (y YieldSet) Complete() bool {
	for _, p := range Protocols {
		if _, ok := y[p]; !ok {
			return false
		}
	}
	return true
}

// Average returns the mean APY across the supported protocols.
// Returns 0 when the set is incomplete.
func (y YieldSet) Average() float64 {
	if !y.Complete() {
		return 0
	}
	var sum float64
	for _, p := range Protocols {
		sum += y[p]
	}
	return sum / float64(len(Protocols))
}

// Allocation is a percentage split across the three protocols.
// A well-formed allocation sums to 100.
type Allocation struct {
	Aave      float64 `json:"aave"`
	TraderJoe float64 `json:"traderjoe"`
	YieldYak  float64 `json:"yieldyak"`
}

// Get returns the percentage allocated to a protocol.
func (a Allocation) Get(p Protocol) float64 {
	switch p {
	case ProtocolAave:
		return a.Aave
	case ProtocolTraderJoe:
		return a.TraderJoe
	case ProtocolYieldYak:
		return a.YieldYak
	}
	return 0
}

// Set assigns the percentage for a protocol.
func (a *Allocation) Set(p Protocol, pct float64) {
	switch p {
	case ProtocolAave:
		a.Aave = pct
	case ProtocolTraderJoe:
		a.TraderJoe = pct
	case ProtocolYieldYak:
		a.YieldYak = pct
	}
}

// Total returns the sum of the three percentages.
func (a Allocation) Total() float64 {
	return a.Aave + a.TraderJoe + a.YieldYak
}

// WeightedAPY returns the allocation-weighted APY (percent) for the given yields.
func (a Allocation) WeightedAPY(yields YieldSet) float64 {
	var apy float64
	for _, p := range Protocols {
		apy += a.Get(p) / 100.0 * yields[p]
	}
	return apy
}

// MaxDrift returns the largest per-protocol absolute difference, in
// percentage points, between this allocation and another.
func (a Allocation) MaxDrift(other Allocation) float64 {
	var maxDrift float64
	for _, p := range Protocols {
		drift := a.Get(p) - other.Get(p)
		if drift < 0 {
			drift = -drift
		}
		if drift > maxDrift {
			maxDrift = drift
		}
	}
	return maxDrift
}
