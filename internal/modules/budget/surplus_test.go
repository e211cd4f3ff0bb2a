package budget

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSurplus_HoldsBackHalfForEmergencyFund(t *testing.T) {
	result := CalculateSurplus(5000, 3500, 6, 0)

	assert.Equal(t, 1500.0, result.MonthlySurplus)
	assert.Equal(t, 21000.0, result.EmergencyFundNeeded)
	assert.Equal(t, 750.0, result.InvestableAmount)
	assert.GreaterOrEqual(t, result.RecommendedInvestmentPct, 20.0)
	assert.LessOrEqual(t, result.RecommendedInvestmentPct, 80.0)
}

func TestCalculateSurplus_FullyFundedEmergency(t *testing.T) {
	result := CalculateSurplus(5000, 3500, 6, 25000)

	assert.Equal(t, 0.0, result.EmergencyFundNeeded)
	assert.Equal(t, 1500.0, result.InvestableAmount, "no holdback once the fund is full")
	assert.Equal(t, 80.0, result.RecommendedInvestmentPct, "full surplus clamps to the 80%% ceiling")
}

func TestCalculateSurplus_HoldbackCappedAtShortfall(t *testing.T) {
	// Shortfall of 400 is less than half the surplus; only 400 is held back.
	result := CalculateSurplus(5000, 3500, 6, 20600)

	assert.Equal(t, 400.0, result.EmergencyFundNeeded)
	assert.Equal(t, 1100.0, result.InvestableAmount)
}

func TestCalculateSurplus_NoSurplus(t *testing.T) {
	tests := []struct {
		name     string
		income   float64
		expenses float64
	}{
		{"break even", 3000, 3000},
		{"deficit", 2500, 3000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateSurplus(tt.income, tt.expenses, 6, 0)

			assert.Equal(t, 0.0, result.MonthlySurplus)
			assert.Equal(t, 0.0, result.InvestableAmount)
			assert.Equal(t, 20.0, result.RecommendedInvestmentPct)
		})
	}
}

func TestCalculateSurplus_DefaultsApplied(t *testing.T) {
	withDefault := CalculateSurplus(5000, 3500, 0, -50)
	explicit := CalculateSurplus(5000, 3500, DefaultEmergencyMonths, 0)

	assert.Equal(t, explicit, withDefault)
}

func TestHandleCalculateSurplus(t *testing.T) {
	handler := NewHandler(zerolog.Nop())

	body := `{"monthly_income":5000,"monthly_expenses":3500,"emergency_fund_months":6}`
	req := httptest.NewRequest("POST", "/api/budget/surplus", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleCalculateSurplus(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result SurplusResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, 1500.0, result.MonthlySurplus)
	assert.Equal(t, 750.0, result.InvestableAmount)
}

func TestHandleCalculateSurplus_RejectsNegativeInput(t *testing.T) {
	handler := NewHandler(zerolog.Nop())

	body := `{"monthly_income":-1,"monthly_expenses":3500}`
	req := httptest.NewRequest("POST", "/api/budget/surplus", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleCalculateSurplus(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
