package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/snowfolio/snowfolio/internal/domain"
)

func baseAssessment() Assessment {
	return Assessment{
		Age:                  35,
		Income:               80000,
		MonthlyExpenses:      3000,
		InvestmentGoal:       "medium_term",
		RiskTolerance:        "medium",
		InvestmentExperience: "intermediate",
		TimeHorizon:          10,
		LiquidityNeed:        "medium",
	}
}

func TestCalculateScore_AggressiveScenario(t *testing.T) {
	a := Assessment{
		Age:                  25,
		Income:               150000,
		MonthlyExpenses:      2500,
		InvestmentGoal:       "long_term",
		RiskTolerance:        "high",
		InvestmentExperience: "advanced",
		TimeHorizon:          20,
		LiquidityNeed:        "low",
	}

	score := CalculateScore(a)
	assert.Greater(t, score, 66, "young high earner with high tolerance should score aggressive")
	assert.Equal(t, domain.ProfileAggressive, ProfileForScore(score))
}

func TestCalculateScore_AlwaysInRange(t *testing.T) {
	tests := []struct {
		name string
		a    Assessment
	}{
		{"zero values", Assessment{}},
		{"extreme young rich", Assessment{Age: 18, Income: 10_000_000, RiskTolerance: "very_high", InvestmentExperience: "expert", InvestmentGoal: "retirement", TimeHorizon: 50}},
		{"extreme old poor", Assessment{Age: 100, Income: 0, MonthlyExpenses: 10000, RiskTolerance: "very_low", InvestmentExperience: "none", InvestmentGoal: "short_term"}},
		{"negative inputs", Assessment{Age: -5, Income: -1000, MonthlyExpenses: -500, TimeHorizon: -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := CalculateScore(tt.a)
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		})
	}
}

func TestCalculateScore_MonotonicInTolerance(t *testing.T) {
	levels := []string{"very_low", "low", "medium", "high", "very_high"}

	prev := -1
	for _, level := range levels {
		a := baseAssessment()
		a.RiskTolerance = level

		score := CalculateScore(a)
		assert.GreaterOrEqual(t, score, prev, "score must not decrease from tolerance %q", level)
		prev = score
	}
}

func TestCalculateScore_UnknownCategoricalDefaultsToMidpoint(t *testing.T) {
	known := baseAssessment()
	unknown := baseAssessment()
	unknown.RiskTolerance = "somewhat spicy"

	// "medium" scores exactly the midpoint, so an unknown answer matches it.
	assert.Equal(t, CalculateScore(known), CalculateScore(unknown))
}

func TestProfileForScore_Boundaries(t *testing.T) {
	tests := []struct {
		score   int
		profile domain.RiskProfile
	}{
		{0, domain.ProfileConservative},
		{33, domain.ProfileConservative},
		{34, domain.ProfileBalanced},
		{66, domain.ProfileBalanced},
		{67, domain.ProfileAggressive},
		{100, domain.ProfileAggressive},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.profile, ProfileForScore(tt.score), "score %d", tt.score)
	}
}

func TestExpenseRatioScore_ZeroIncome(t *testing.T) {
	assert.Equal(t, 0.0, expenseRatioScore(2000, 0))
	assert.Equal(t, 0.0, expenseRatioScore(0, -100))
}

func TestScoreBreakdown_CoversAllFactors(t *testing.T) {
	breakdown := ScoreBreakdown(baseAssessment())

	for _, factor := range []string{"age", "income", "expense_ratio", "goal", "tolerance", "experience", "time_horizon"} {
		v, ok := breakdown[factor]
		assert.True(t, ok, "missing factor %q", factor)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}
