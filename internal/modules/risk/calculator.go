package risk

import (
	"math"

	"github.com/snowfolio/snowfolio/internal/domain"
)

// CalculateScore maps questionnaire answers to a 0-100 risk score.
//
// Seven sub-scores are computed on a 0-100 scale and combined with fixed
// weights summing to 1.0:
//
//	age (0.20), income (0.15), expense ratio (0.10), goal (0.15),
//	tolerance (0.25), experience (0.10), time horizon (0.05)
//
// The result is rounded to the nearest integer and clamped to [0,100], so
// extreme or out-of-range numeric inputs degrade instead of failing.
func CalculateScore(a Assessment) int {
	score := ageScore(a.Age)*weightAge +
		incomeScore(a.Income)*weightIncome +
		expenseRatioScore(a.MonthlyExpenses, a.Income)*weightExpenses +
		lookupScore(goalScores, a.InvestmentGoal)*weightGoal +
		lookupScore(toleranceScores, a.RiskTolerance)*weightTolerance +
		lookupScore(experienceScores, a.InvestmentExperience)*weightExperience +
		horizonScore(a.TimeHorizon)*weightHorizon

	return int(clamp(math.Round(score), 0, 100))
}

// ProfileForScore maps a score to its three-tier profile.
// Boundaries: [0,33] conservative, [34,66] balanced, [67,100] aggressive.
func ProfileForScore(score int) domain.RiskProfile {
	switch {
	case score <= 33:
		return domain.ProfileConservative
	case score <= 66:
		return domain.ProfileBalanced
	default:
		return domain.ProfileAggressive
	}
}

// ScoreBreakdown exposes the per-factor sub-scores for API transparency.
func ScoreBreakdown(a Assessment) map[string]float64 {
	return map[string]float64{
		"age":           ageScore(a.Age),
		"income":        incomeScore(a.Income),
		"expense_ratio": expenseRatioScore(a.MonthlyExpenses, a.Income),
		"goal":          lookupScore(goalScores, a.InvestmentGoal),
		"tolerance":     lookupScore(toleranceScores, a.RiskTolerance),
		"experience":    lookupScore(experienceScores, a.InvestmentExperience),
		"time_horizon":  horizonScore(a.TimeHorizon),
	}
}

// ageScore: younger investors have higher risk capacity. 40 is neutral (50);
// each year under adds 2 points.
func ageScore(age int) float64 {
	return clamp((40-float64(age))*2+50, 0, 100)
}

// incomeScore: $100k annual income maps to 70; capped at 100.
func incomeScore(income float64) float64 {
	return math.Min(100, income/100000*40+30)
}

// expenseRatioScore: the fraction of income consumed by annual expenses,
// inverted. Zero income scores 0 (fully consumed) rather than dividing.
func expenseRatioScore(monthlyExpenses, income float64) float64 {
	if income <= 0 {
		return 0
	}
	return math.Max(0, 100-(monthlyExpenses*12/income)*100)
}

// horizonScore: 20+ year horizons max out.
func horizonScore(years float64) float64 {
	return math.Min(100, years/20*100)
}

// lookupScore returns the categorical sub-score, defaulting to the scale
// midpoint for unknown answers.
func lookupScore(table map[string]float64, key string) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	return 50
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
