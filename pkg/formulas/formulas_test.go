package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 5.0, Mean([]float64{5}))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-12)
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{3}))
	// Sample standard deviation of {2,4,4,4,5,5,7,9} is ~2.138.
	assert.InDelta(t, 2.138, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 0.001)
}

func TestAnnualizedVolatility(t *testing.T) {
	assert.Equal(t, 0.0, AnnualizedVolatility(nil))

	daily := []float64{0.01, -0.02, 0.015, 0.0, -0.005}
	expected := StdDev(daily) * math.Sqrt(365)
	assert.InDelta(t, expected, AnnualizedVolatility(daily), 1e-12)
}

func TestAnnualizedReturn(t *testing.T) {
	tests := []struct {
		name     string
		initial  float64
		final    float64
		days     int
		expected float64
	}{
		{"one year of 10% growth", 1000, 1100, 365, 0.10},
		{"half year doubles the rate", 1000, 1100, 182, math.Pow(1.1, 365.0/182.0) - 1},
		{"zero days guards to zero", 1000, 1100, 0, 0},
		{"wiped out guards to zero", 1000, 0, 365, 0},
		{"zero initial guards to zero", 0, 1100, 365, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, AnnualizedReturn(tt.initial, tt.final, tt.days), 1e-9)
		})
	}
}

func TestSharpeRatio(t *testing.T) {
	assert.Equal(t, 0.0, SharpeRatio(0.12, 0.02, 0), "flat series reports zero")
	assert.InDelta(t, 0.5, SharpeRatio(0.12, 0.02, 0.2), 1e-12)
	assert.Less(t, SharpeRatio(0.01, 0.02, 0.2), 0.0, "returns below risk-free go negative")
}

func TestSharpeFromDailyReturns(t *testing.T) {
	assert.Equal(t, 0.0, SharpeFromDailyReturns(nil, 0.02))
	assert.Equal(t, 0.0, SharpeFromDailyReturns([]float64{0.01}, 0.02))

	daily := []float64{0.002, 0.001, 0.003, -0.001, 0.002}
	got := SharpeFromDailyReturns(daily, 0.02)
	assert.NotEqual(t, 0.0, got)
	assert.False(t, math.IsNaN(got))
}

func TestDrawdownTracker(t *testing.T) {
	tracker := NewDrawdownTracker(100)

	tracker.Observe(110) // new peak
	tracker.Observe(99)  // 10% below peak
	tracker.Observe(120) // recovery to a new peak
	tracker.Observe(114) // 5% below the new peak, smaller than the max

	assert.InDelta(t, 0.1, tracker.MaxDrawdown(), 1e-12)
	assert.Equal(t, 120.0, tracker.Peak())
}

func TestMaxDrawdownOf(t *testing.T) {
	assert.Equal(t, 0.0, MaxDrawdownOf(nil))
	assert.Equal(t, 0.0, MaxDrawdownOf([]float64{100}))
	assert.Equal(t, 0.0, MaxDrawdownOf([]float64{100, 110, 120}), "monotonic series never draws down")
	assert.InDelta(t, 0.25, MaxDrawdownOf([]float64{100, 80, 75, 90}), 1e-12)
}

func TestSMA(t *testing.T) {
	assert.Nil(t, SMA(nil, 3))
	assert.Nil(t, SMA([]float64{1, 2}, 3), "series shorter than period")
	assert.Nil(t, SMA([]float64{1, 2, 3}, 0))

	got := SMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NotNil(t, got)
	assert.InDelta(t, 4.0, *got, 1e-12, "average of the last three values")
}
