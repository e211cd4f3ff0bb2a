package rebalancing

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/snowfolio/snowfolio/internal/domain"
	"github.com/snowfolio/snowfolio/internal/modules/allocation"
	"github.com/snowfolio/snowfolio/internal/modules/portfolio"
	"github.com/snowfolio/snowfolio/internal/modules/yields"
)

// Service evaluates rebalance decisions against a user's current on-chain
// allocation. Evaluation is side-effect free apart from upstream reads.
type Service struct {
	yieldService *yields.Service
	gas          *GasEstimator
	log          zerolog.Logger
}

// NewService creates a new rebalancing service
func NewService(yieldService *yields.Service, gas *GasEstimator, log zerolog.Logger) *Service {
	return &Service{
		yieldService: yieldService,
		gas:          gas,
		log:          log.With().Str("service", "rebalancing").Logger(),
	}
}

// Evaluate runs the four trigger rules and returns the single
// highest-urgency decision, or a no-rebalance result when nothing fires.
//
// Rules are checked in a fixed order (time, drift, opportunity, mismatch);
// the stable sort by urgency rank means earlier rules win ties.
func (s *Service) Evaluate(ctx context.Context, profile *portfolio.UserProfile, current domain.Allocation) Decision {
	currentYields := s.yieldService.CurrentSet(ctx)
	smoothed := s.yieldService.SmoothedSet(currentYields)

	target := allocation.Generate(profile.RiskScore, currentYields).Allocation

	in := evaluationInput{
		profile: profile,
		current: current,
		target:  target,
		yields:  smoothed,
		now:     time.Now().UTC(),
	}

	var triggered []*Decision
	for _, rule := range []func(evaluationInput) *Decision{
		checkTime,
		checkDrift,
		checkOpportunity,
		checkProfileMismatch,
	} {
		if d := rule(in); d != nil {
			triggered = append(triggered, d)
		}
	}

	if len(triggered) == 0 {
		return Decision{
			ShouldRebalance: false,
			Reason:          "Allocation within tolerance; no trigger fired",
			Urgency:         UrgencyLow,
		}
	}

	sort.SliceStable(triggered, func(i, j int) bool {
		return triggered[i].Urgency.Rank() > triggered[j].Urgency.Rank()
	})

	decision := *triggered[0]
	gasCost := s.gas.EstimateAVAX(ctx)
	decision.EstimatedGasCostAVAX = &gasCost

	s.log.Info().
		Str("address", profile.Address).
		Str("urgency", string(decision.Urgency)).
		Str("reason", decision.Reason).
		Int("rules_triggered", len(triggered)).
		Msg("Rebalance triggered")

	return decision
}
