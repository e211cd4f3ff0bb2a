package risk

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// Handler handles risk assessment HTTP requests
type Handler struct {
	log zerolog.Logger
}

// NewHandler creates a new risk handler
func NewHandler(log zerolog.Logger) *Handler {
	return &Handler{
		log: log.With().Str("handler", "risk").Logger(),
	}
}

// HandleCalculateScore computes a risk score from questionnaire answers
func (h *Handler) HandleCalculateScore(w http.ResponseWriter, r *http.Request) {
	var req Assessment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Range validation is a boundary concern; the calculator only clamps.
	if req.Age < 18 || req.Age > 100 {
		h.writeError(w, http.StatusBadRequest, "age must be between 18 and 100")
		return
	}
	if req.Income < 0 || req.MonthlyExpenses < 0 {
		h.writeError(w, http.StatusBadRequest, "income and expenses must be non-negative")
		return
	}
	if req.TimeHorizon < 0 {
		h.writeError(w, http.StatusBadRequest, "time_horizon must be non-negative")
		return
	}

	score := CalculateScore(req)
	profile := ProfileForScore(score)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"score":     score,
		"profile":   profile,
		"breakdown": ScoreBreakdown(req),
	})
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
