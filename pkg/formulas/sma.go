package formulas

import (
	"github.com/markcheno/go-talib"
)

// SMA returns the latest simple moving average over the given period, or nil
// if the series is shorter than the period.
func SMA(values []float64, period int) *float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	sma := talib.Sma(values, period)
	if len(sma) == 0 {
		return nil
	}

	last := sma[len(sma)-1]
	if isNaN(last) {
		return nil
	}
	return &last
}

// isNaN checks if a float64 is NaN
func isNaN(f float64) bool {
	return f != f
}
