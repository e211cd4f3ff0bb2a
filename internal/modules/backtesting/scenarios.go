package backtesting

// RunScenarios executes one backtest per scenario, sequentially, with each
// scenario's overrides merged onto the base parameters. Runs share nothing
// but the simulator's random source.
func (s *Simulator) RunScenarios(base Params, scenarios []Scenario) ([]ScenarioResult, error) {
	results := make([]ScenarioResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		params := base
		if scenario.InitialAmount != nil {
			params.InitialAmount = *scenario.InitialAmount
		}
		if scenario.RiskScore != nil {
			params.RiskScore = *scenario.RiskScore
		}
		if scenario.RebalanceFrequencyDays != nil {
			params.RebalanceFrequencyDays = *scenario.RebalanceFrequencyDays
		}
		if scenario.CompoundingEnabled != nil {
			params.CompoundingEnabled = *scenario.CompoundingEnabled
		}

		result, err := s.Run(params)
		if err != nil {
			return nil, err
		}

		results = append(results, ScenarioResult{
			Name:   scenario.Name,
			Result: result,
		})
	}

	return results, nil
}
