package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/snowfolio/snowfolio/internal/domain"
)

func liveYields() domain.YieldSet {
	return domain.YieldSet{
		domain.ProtocolAave:      4.0,
		domain.ProtocolTraderJoe: 9.0,
		domain.ProtocolYieldYak:  13.0,
	}
}

func TestGenerate_SumsToHundred(t *testing.T) {
	scores := []int{0, 10, 33, 34, 50, 66, 67, 80, 100}
	yieldSets := []domain.YieldSet{
		nil,
		liveYields(),
		{domain.ProtocolAave: 1.0, domain.ProtocolTraderJoe: 25.0, domain.ProtocolYieldYak: 60.0},
	}

	for _, score := range scores {
		for _, ys := range yieldSets {
			strategy := Generate(score, ys)
			assert.InDelta(t, 100.0, strategy.Allocation.Total(), 1e-9,
				"score %d yields %v", score, ys)
		}
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	first := Generate(55, liveYields())
	second := Generate(55, liveYields())
	assert.Equal(t, first, second)
}

func TestGenerate_FallbackWithoutYields(t *testing.T) {
	tests := []struct {
		name   string
		yields domain.YieldSet
	}{
		{"nil set", nil},
		{"incomplete set", domain.YieldSet{domain.ProtocolAave: 4.0}},
		{"all zero", domain.YieldSet{domain.ProtocolAave: 0, domain.ProtocolTraderJoe: 0, domain.ProtocolYieldYak: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy := Generate(20, tt.yields)

			assert.Equal(t, SourceFallback, strategy.Source)
			assert.Equal(t, domain.ProfileConservative, strategy.RiskLevel)
			// Conservative base split, untouched.
			assert.Equal(t, 70.0, strategy.Allocation.Aave)
			assert.Equal(t, 30.0, strategy.Allocation.TraderJoe)
			assert.Equal(t, 0.0, strategy.Allocation.YieldYak)
			assert.Greater(t, strategy.ExpectedAPY, 0.0)
		})
	}
}

func TestGenerate_LiveYieldsTiltTowardAdvantage(t *testing.T) {
	// YieldYak far above average should pull the aggressive allocation up
	// toward it, within the profile ceiling.
	skewed := domain.YieldSet{
		domain.ProtocolAave:      2.0,
		domain.ProtocolTraderJoe: 5.0,
		domain.ProtocolYieldYak:  30.0,
	}

	base := Generate(80, nil)
	tilted := Generate(80, skewed)

	assert.Equal(t, SourceLive, tilted.Source)
	assert.Greater(t, tilted.Allocation.YieldYak, base.Allocation.YieldYak)
	assert.InDelta(t, 100.0, tilted.Allocation.Total(), 1e-9)
}

func TestGenerate_RespectsProfileLimitsBeforeNormalization(t *testing.T) {
	// Extreme yield skew must not push conservative wallets into the
	// highest-risk protocol beyond its ceiling share.
	skewed := domain.YieldSet{
		domain.ProtocolAave:      0.1,
		domain.ProtocolTraderJoe: 0.1,
		domain.ProtocolYieldYak:  90.0,
	}

	strategy := Generate(10, skewed)

	assert.Equal(t, domain.ProfileConservative, strategy.RiskLevel)
	// The raw tilt would be ~20 points; the 10-point ceiling applies before
	// normalization, which can then scale the share up by at most the
	// shortfall of the clamped total from 100.
	assert.Less(t, strategy.Allocation.YieldYak, 12.0)
	assert.Greater(t, strategy.Allocation.Aave, 50.0)
}

func TestGenerate_ExpectedAPYIsFraction(t *testing.T) {
	strategy := Generate(50, liveYields())

	weighted := strategy.Allocation.WeightedAPY(liveYields())
	assert.InDelta(t, weighted/100.0, strategy.ExpectedAPY, 1e-9)
}

func TestGenerate_RationaleMentionsProfileAndSource(t *testing.T) {
	live := Generate(50, liveYields())
	assert.Contains(t, live.Rationale, "Balanced profile.")
	assert.Contains(t, live.Rationale, "above-average")

	fallback := Generate(50, nil)
	assert.Contains(t, fallback.Rationale, "default yield assumptions")
}
