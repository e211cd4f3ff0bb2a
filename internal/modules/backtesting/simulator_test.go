package backtesting

import (
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func baseParams() Params {
	return Params{
		InitialAmount:          10000,
		RiskScore:              50,
		StartDate:              day("2024-01-01"),
		EndDate:                day("2024-06-30"),
		RebalanceFrequencyDays: 30,
		CompoundingEnabled:     true,
	}
}

func seededSimulator(seed int64) *Simulator {
	return NewSimulator(rand.New(rand.NewSource(seed)), zerolog.Nop())
}

func TestRun_SingleDayProducesOneEntryAndNoRebalance(t *testing.T) {
	params := baseParams()
	params.EndDate = params.StartDate

	result, err := seededSimulator(1).Run(params)
	require.NoError(t, err)

	assert.Len(t, result.Timeline, 1)
	assert.Equal(t, 0, result.RebalanceCount)
	assert.Equal(t, "2024-01-01", result.Timeline[0].Date)
}

func TestRun_DeterministicUnderFixedSeed(t *testing.T) {
	first, err := seededSimulator(42).Run(baseParams())
	require.NoError(t, err)
	second, err := seededSimulator(42).Run(baseParams())
	require.NoError(t, err)

	assert.Equal(t, first.FinalValue, second.FinalValue)
	assert.Equal(t, first.RebalanceCount, second.RebalanceCount)
	assert.Equal(t, first.Timeline, second.Timeline)
}

func TestRun_TimelineIsChronological(t *testing.T) {
	result, err := seededSimulator(7).Run(baseParams())
	require.NoError(t, err)

	require.NotEmpty(t, result.Timeline)
	prev := result.Timeline[0].Date
	for _, entry := range result.Timeline[1:] {
		assert.Greater(t, entry.Date, prev, "timeline must be strictly increasing")
		prev = entry.Date
	}
}

func TestRun_RebalanceCadence(t *testing.T) {
	params := baseParams()
	params.StartDate = day("2024-01-01")
	params.EndDate = day("2024-03-31") // 91 simulated days
	params.RebalanceFrequencyDays = 30

	result, err := seededSimulator(3).Run(params)
	require.NoError(t, err)

	// The 30-day clock fires on days 30 and 61 of the 91-day horizon.
	assert.Equal(t, 2, result.RebalanceCount)

	var actions int
	for _, entry := range result.Timeline {
		if entry.Action == "rebalance" {
			actions++
			require.NotNil(t, entry.GasCostUSD)
			assert.InDelta(t, rebalanceGasAVAX*avaxPriceUSD, *entry.GasCostUSD, 1e-9)
		}
	}
	assert.Equal(t, result.RebalanceCount, actions)
}

func TestRun_BenchmarksAreSeedIndependent(t *testing.T) {
	first, err := seededSimulator(1).Run(baseParams())
	require.NoError(t, err)
	second, err := seededSimulator(999).Run(baseParams())
	require.NoError(t, err)

	assert.NotEqual(t, first.FinalValue, second.FinalValue, "different seeds should diverge")
	assert.Equal(t, first.Benchmarks, second.Benchmarks)
}

func TestRun_ValidatesParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero amount", func(p *Params) { p.InitialAmount = 0 }},
		{"negative amount", func(p *Params) { p.InitialAmount = -5 }},
		{"score too high", func(p *Params) { p.RiskScore = 101 }},
		{"negative score", func(p *Params) { p.RiskScore = -1 }},
		{"end before start", func(p *Params) { p.EndDate = p.StartDate.AddDate(0, 0, -1) }},
		{"zero frequency", func(p *Params) { p.RebalanceFrequencyDays = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := baseParams()
			tt.mutate(&params)

			_, err := seededSimulator(1).Run(params)
			assert.Error(t, err)
		})
	}
}

func TestRun_MetricsArePopulated(t *testing.T) {
	result, err := seededSimulator(11).Run(baseParams())
	require.NoError(t, err)

	assert.Greater(t, result.FinalValue, 0.0)
	assert.InDelta(t, result.FinalValue-10000, result.TotalReturn, 1e-9)
	assert.GreaterOrEqual(t, result.MaxDrawdown, 0.0)
	assert.GreaterOrEqual(t, result.Volatility, 0.0)
	assert.NotEmpty(t, result.RunID)
	assert.Len(t, result.Benchmarks, 3)
}

func TestComputeBenchmarks_PureFunction(t *testing.T) {
	a := ComputeBenchmarks(10000, 365)
	b := ComputeBenchmarks(10000, 365)
	assert.Equal(t, a, b)

	require.Len(t, a, 3)
	// One full year at the assumed annual rates.
	assert.InDelta(t, 11500, a[0].FinalValue, 1e-6)
	assert.InDelta(t, 10000, a[1].FinalValue, 1e-6)
	assert.InDelta(t, 10450, a[2].FinalValue, 1e-6)
}

func TestRunScenarios_OverridesMergeOntoBase(t *testing.T) {
	amount := 5000.0
	frequency := 7
	scenarios := []Scenario{
		{Name: "baseline"},
		{Name: "smaller stake, weekly", InitialAmount: &amount, RebalanceFrequencyDays: &frequency},
	}

	results, err := seededSimulator(5).RunScenarios(baseParams(), scenarios)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "baseline", results[0].Name)
	assert.Equal(t, "smaller stake, weekly", results[1].Name)
	assert.Greater(t, results[1].Result.RebalanceCount, results[0].Result.RebalanceCount)
}
