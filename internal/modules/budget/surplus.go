package budget

import "math"

// Default emergency fund target, in months of expenses.
const DefaultEmergencyMonths = 6

// Recommended investment percentage bounds.
const (
	minInvestmentPct = 20.0
	maxInvestmentPct = 80.0
)

// While the emergency fund is short, this share of the surplus is diverted
// to it (capped at the outstanding shortfall).
const emergencyFundShare = 0.5

// SurplusResult describes how much of the monthly budget is investable.
type SurplusResult struct {
	MonthlySurplus           float64 `json:"monthly_surplus"`
	EmergencyFundNeeded      float64 `json:"emergency_fund_needed"`
	InvestableAmount         float64 `json:"investable_amount"`
	RecommendedInvestmentPct float64 `json:"recommended_investment_percentage"`
}

// CalculateSurplus derives the investable monthly amount from income,
// expenses, and emergency fund state.
//
// Surplus is income minus expenses (reported floored at zero). While the
// emergency fund is below target, half of the raw surplus is held back for
// it, capped at the shortfall; the rest is investable. The recommended
// investment percentage of the surplus is clamped to [20,80].
func CalculateSurplus(monthlyIncome, monthlyExpenses float64, emergencyMonths float64, currentEmergencyFund float64) SurplusResult {
	if emergencyMonths <= 0 {
		emergencyMonths = DefaultEmergencyMonths
	}
	if currentEmergencyFund < 0 {
		currentEmergencyFund = 0
	}

	rawSurplus := monthlyIncome - monthlyExpenses
	fundNeeded := math.Max(0, monthlyExpenses*emergencyMonths-currentEmergencyFund)

	investable := math.Max(0, rawSurplus)
	if fundNeeded > 0 && rawSurplus > 0 {
		toFund := math.Min(rawSurplus*emergencyFundShare, fundNeeded)
		investable = rawSurplus - toFund
	}

	recommendedPct := maxInvestmentPct
	if rawSurplus > 0 {
		recommendedPct = clampPct(investable / rawSurplus * 100)
	} else {
		recommendedPct = minInvestmentPct
	}

	return SurplusResult{
		MonthlySurplus:           math.Max(0, rawSurplus),
		EmergencyFundNeeded:      fundNeeded,
		InvestableAmount:         investable,
		RecommendedInvestmentPct: recommendedPct,
	}
}

func clampPct(pct float64) float64 {
	if pct < minInvestmentPct {
		return minInvestmentPct
	}
	if pct > maxInvestmentPct {
		return maxInvestmentPct
	}
	return pct
}
