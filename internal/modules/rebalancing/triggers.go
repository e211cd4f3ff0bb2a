package rebalancing

import (
	"fmt"
	"time"

	"github.com/snowfolio/snowfolio/internal/domain"
	"github.com/snowfolio/snowfolio/internal/modules/portfolio"
)

// evaluationInput bundles everything the trigger rules need for one pass.
type evaluationInput struct {
	profile *portfolio.UserProfile
	current domain.Allocation
	target  domain.Allocation
	yields  domain.YieldSet // smoothed where history allows
	now     time.Time
}

// checkTime triggers when the configured rebalance interval has elapsed.
// A profile that has never rebalanced uses its creation time as baseline.
func checkTime(in evaluationInput) *Decision {
	baseline := in.profile.CreatedAt
	if in.profile.LastRebalanceAt != nil {
		baseline = *in.profile.LastRebalanceAt
	}

	frequency := in.profile.RebalanceFrequencyDays
	if frequency <= 0 {
		frequency = 30
	}

	days := int(in.now.Sub(baseline).Hours() / 24)
	if days < frequency {
		return nil
	}

	urgency := UrgencyMedium
	if days > timeHighDays {
		urgency = UrgencyHigh
	}

	return &Decision{
		ShouldRebalance: true,
		Reason:          fmt.Sprintf("%d days since last rebalance (interval %d days)", days, frequency),
		Urgency:         urgency,
		NewAllocation:   &in.target,
	}
}

// checkDrift triggers when any protocol has drifted more than 10 percentage
// points from the target allocation.
func checkDrift(in evaluationInput) *Decision {
	drift := in.current.MaxDrift(in.target)
	if drift <= driftTriggerPts {
		return nil
	}

	urgency := UrgencyMedium
	if drift > driftHighPts {
		urgency = UrgencyHigh
	}

	return &Decision{
		ShouldRebalance: true,
		Reason:          fmt.Sprintf("Allocation drifted %.1f points from target", drift),
		Urgency:         urgency,
		NewAllocation:   &in.target,
	}
}

// checkOpportunity triggers when moving to the target allocation would
// improve the weighted APY by more than 100 basis points.
func checkOpportunity(in evaluationInput) *Decision {
	currentAPY := in.current.WeightedAPY(in.yields)
	targetAPY := in.target.WeightedAPY(in.yields)

	// APYs are percentages; 1 percentage point = 100 bps.
	improvementBps := (targetAPY - currentAPY) * 100
	if improvementBps <= opportunityTriggerBps {
		return nil
	}

	urgency := UrgencyMedium
	if improvementBps > opportunityHighBps {
		urgency = UrgencyHigh
	}

	return &Decision{
		ShouldRebalance:        true,
		Reason:                 fmt.Sprintf("Rebalancing would improve yield by %.0f bps", improvementBps),
		Urgency:                urgency,
		NewAllocation:          &in.target,
		ExpectedImprovementBps: &improvementBps,
	}
}

// checkProfileMismatch triggers when the held allocation contradicts the
// user's risk profile: a conservative wallet deep in the riskiest protocol,
// or an aggressive one parked in lending.
func checkProfileMismatch(in evaluationInput) *Decision {
	switch in.profile.RiskProfile {
	case domain.ProfileConservative:
		pct := in.current.Get(domain.HighestRiskProtocol)
		if pct > conservativeMaxHighRiskPct {
			return &Decision{
				ShouldRebalance: true,
				Reason:          fmt.Sprintf("Conservative profile holds %.1f%% in %s", pct, domain.HighestRiskProtocol),
				Urgency:         UrgencyHigh,
				NewAllocation:   &in.target,
			}
		}
	case domain.ProfileAggressive:
		pct := in.current.Get(domain.LowestRiskProtocol)
		if pct > aggressiveMaxLowRiskPct {
			return &Decision{
				ShouldRebalance: true,
				Reason:          fmt.Sprintf("Aggressive profile holds %.1f%% in %s", pct, domain.LowestRiskProtocol),
				Urgency:         UrgencyMedium,
				NewAllocation:   &in.target,
			}
		}
	}
	return nil
}
