package allocation

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/snowfolio/snowfolio/internal/domain"
	"github.com/snowfolio/snowfolio/internal/modules/yields"
)

// Handler handles allocation HTTP requests
type Handler struct {
	yieldService *yields.Service
	log          zerolog.Logger
}

// NewHandler creates a new allocation handler
func NewHandler(yieldService *yields.Service, log zerolog.Logger) *Handler {
	return &Handler{
		yieldService: yieldService,
		log:          log.With().Str("handler", "allocation").Logger(),
	}
}

// strategyRequest optionally overrides the live yields, mainly for what-if
// calls from the dashboard.
type strategyRequest struct {
	RiskScore int              `json:"risk_score"`
	Yields    *domain.YieldSet `json:"yields,omitempty"`
}

// HandleGenerateStrategy returns a target allocation for a risk score
func (h *Handler) HandleGenerateStrategy(w http.ResponseWriter, r *http.Request) {
	var req strategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.RiskScore < 0 || req.RiskScore > 100 {
		h.writeError(w, http.StatusBadRequest, "risk_score must be between 0 and 100")
		return
	}

	var yieldSet domain.YieldSet
	if req.Yields != nil {
		yieldSet = *req.Yields
	} else {
		yieldSet = h.yieldService.CurrentSet(r.Context())
	}

	strategy := Generate(req.RiskScore, yieldSet)
	h.writeJSON(w, http.StatusOK, strategy)
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
