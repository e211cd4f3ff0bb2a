package formulas

// DrawdownTracker tracks the running peak of a value series and the maximum
// percentage drawdown from that peak. Feed it one observation per period.
type DrawdownTracker struct {
	peak        float64
	maxDrawdown float64
}

// NewDrawdownTracker creates a tracker seeded with the initial value.
func NewDrawdownTracker(initialValue float64) *DrawdownTracker {
	return &DrawdownTracker{peak: initialValue}
}

// Observe records the next value and updates peak/drawdown state.
func (d *DrawdownTracker) Observe(value float64) {
	if value > d.peak {
		d.peak = value
	}
	if d.peak > 0 {
		drawdown := (d.peak - value) / d.peak
		if drawdown > d.maxDrawdown {
			d.maxDrawdown = drawdown
		}
	}
}

// MaxDrawdown returns the maximum drawdown observed so far, as a positive
// fraction (0.25 = 25% decline from peak).
func (d *DrawdownTracker) MaxDrawdown() float64 {
	return d.maxDrawdown
}

// Peak returns the highest value observed so far.
func (d *DrawdownTracker) Peak() float64 {
	return d.peak
}

// MaxDrawdownOf calculates the maximum drawdown of a complete value series.
//
// Drawdown Formula:
//
//	Drawdown = (Peak Value - Current Value) / Peak Value
//	Max Drawdown = Maximum of all drawdowns
func MaxDrawdownOf(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	tracker := NewDrawdownTracker(values[0])
	for _, v := range values[1:] {
		tracker.Observe(v)
	}
	return tracker.MaxDrawdown()
}
