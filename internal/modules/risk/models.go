package risk

// Assessment holds the questionnaire answers used to derive a risk score.
// Numeric ranges (age 18-100, income/expenses >= 0) are enforced at the
// HTTP boundary; the calculator itself only clamps.
type Assessment struct {
	Age                  int     `json:"age"`
	Income               float64 `json:"income"`          // annual, USD
	MonthlyExpenses      float64 `json:"monthly_expenses"`
	InvestmentGoal       string  `json:"investment_goal"`       // short_term, medium_term, long_term, retirement
	RiskTolerance        string  `json:"risk_tolerance"`        // very_low, low, medium, high, very_high
	InvestmentExperience string  `json:"investment_experience"` // none, beginner, intermediate, advanced, expert
	TimeHorizon          float64 `json:"time_horizon"`          // years
	LiquidityNeed        string  `json:"liquidity_need"`        // low, medium, high
}

// Factor weights. Sum to 1.0.
const (
	weightAge        = 0.20
	weightIncome     = 0.15
	weightExpenses   = 0.10
	weightGoal       = 0.15
	weightTolerance  = 0.25
	weightExperience = 0.10
	weightHorizon    = 0.05
)

// Categorical sub-scores on the 0-100 scale. Unknown answers score the
// midpoint of their category's range rather than failing.
var (
	goalScores = map[string]float64{
		"short_term":  20,
		"medium_term": 45,
		"long_term":   70,
		"retirement":  80,
	}
	toleranceScores = map[string]float64{
		"very_low":  10,
		"low":       25,
		"medium":    50,
		"high":      75,
		"very_high": 90,
	}
	experienceScores = map[string]float64{
		"none":         10,
		"beginner":     25,
		"intermediate": 50,
		"advanced":     75,
		"expert":       90,
	}
)
