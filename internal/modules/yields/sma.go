package yields

import "github.com/snowfolio/snowfolio/pkg/formulas"

// smaPeriod is the smoothing window, in snapshots, for the opportunity-rule
// APYs. Snapshots land every 10 minutes, so 7 days ≈ 1008 points; we sample
// one per day via the repository query and smooth over 7.
const smaPeriod = 7

// smaOf returns the simple moving average of the full series, or nil when
// the series is shorter than the smoothing window.
func smaOf(values []float64) *float64 {
	return formulas.SMA(values, smaPeriod)
}
