package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Variance calculates the variance of a slice of float64 values
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.Variance(data, nil)
}

// AnnualizedVolatility calculates annualized volatility from daily returns.
// DeFi positions accrue every calendar day, so 365 periods per year rather
// than the 252 trading days used for equities.
func AnnualizedVolatility(dailyReturns []float64) float64 {
	if len(dailyReturns) == 0 {
		return 0
	}
	return StdDev(dailyReturns) * math.Sqrt(365)
}

// AnnualizedReturn converts a total growth factor over a number of days into
// a compound annual rate. Returns 0 when days is 0 or the growth factor is
// non-positive (a wiped-out portfolio has no meaningful annualized rate).
func AnnualizedReturn(initialValue, finalValue float64, days int) float64 {
	if days <= 0 || initialValue <= 0 || finalValue <= 0 {
		return 0
	}
	return math.Pow(finalValue/initialValue, 365.0/float64(days)) - 1
}
