package backtesting

import "math"

// Benchmark rate assumptions, annual percent. These are deliberate
// constants, not simulated series, so benchmark values depend only on the
// initial amount and horizon and stay identical across random seeds.
const (
	avaxHoldAnnualPct   = 15.0
	stablecoinAnnualPct = 0.0
	savingsAnnualPct    = 4.5
)

// ComputeBenchmarks returns the three fixed buy-and-hold comparisons,
// compounded analytically over the horizon.
func ComputeBenchmarks(initialAmount float64, days int) []Benchmark {
	return []Benchmark{
		analyticBenchmark("AVAX buy and hold", avaxHoldAnnualPct, initialAmount, days),
		analyticBenchmark("Stablecoin hold", stablecoinAnnualPct, initialAmount, days),
		analyticBenchmark("Savings account", savingsAnnualPct, initialAmount, days),
	}
}

func analyticBenchmark(name string, annualPct, initialAmount float64, days int) Benchmark {
	growth := math.Pow(1+annualPct/100.0, float64(days)/365.0)
	final := initialAmount * growth
	return Benchmark{
		Name:             name,
		AnnualRatePct:    annualPct,
		FinalValue:       final,
		ReturnPercentage: (growth - 1) * 100,
	}
}
