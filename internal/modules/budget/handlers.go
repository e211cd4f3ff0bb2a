package budget

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// Handler handles budget HTTP requests
type Handler struct {
	log zerolog.Logger
}

// NewHandler creates a new budget handler
func NewHandler(log zerolog.Logger) *Handler {
	return &Handler{
		log: log.With().Str("handler", "budget").Logger(),
	}
}

type surplusRequest struct {
	MonthlyIncome        float64 `json:"monthly_income"`
	MonthlyExpenses      float64 `json:"monthly_expenses"`
	EmergencyMonths      float64 `json:"emergency_fund_months,omitempty"`
	CurrentEmergencyFund float64 `json:"current_emergency_fund,omitempty"`
}

// HandleCalculateSurplus computes the investable monthly amount
func (h *Handler) HandleCalculateSurplus(w http.ResponseWriter, r *http.Request) {
	var req surplusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.MonthlyIncome < 0 || req.MonthlyExpenses < 0 {
		h.writeError(w, http.StatusBadRequest, "Income and expenses must be non-negative")
		return
	}

	result := CalculateSurplus(req.MonthlyIncome, req.MonthlyExpenses, req.EmergencyMonths, req.CurrentEmergencyFund)
	h.writeJSON(w, http.StatusOK, result)
}

// Helper methods

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
