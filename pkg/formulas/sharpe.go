package formulas

// SharpeRatio calculates the Sharpe ratio from an annualized return and
// annualized volatility.
//
// Sharpe Ratio Formula:
//
//	Sharpe = (Annualized Return - Risk-free Rate) / Annualized Volatility
//
// Args:
//
//	annualizedReturn: compound annual return as a fraction (0.12 = 12%)
//	riskFreeRate: annual risk-free rate as a fraction (0.02 = 2%)
//	volatility: annualized standard deviation of returns
//
// Returns 0 when volatility is 0 (a flat series has no risk-adjusted
// interpretation, and dividing by zero would poison downstream JSON).
func SharpeRatio(annualizedReturn, riskFreeRate, volatility float64) float64 {
	if volatility == 0 {
		return 0
	}
	return (annualizedReturn - riskFreeRate) / volatility
}

// SharpeFromDailyReturns is a convenience wrapper that annualizes a daily
// return series and computes its Sharpe ratio in one step.
func SharpeFromDailyReturns(dailyReturns []float64, riskFreeRate float64) float64 {
	if len(dailyReturns) < 2 {
		return 0
	}
	annualized := Mean(dailyReturns) * 365
	volatility := AnnualizedVolatility(dailyReturns)
	return SharpeRatio(annualized, riskFreeRate, volatility)
}
