package backtesting

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/snowfolio/snowfolio/internal/events"
)

// Handler handles backtesting HTTP requests
type Handler struct {
	events *events.Manager
	log    zerolog.Logger
}

// NewHandler creates a new backtesting handler
func NewHandler(eventManager *events.Manager, log zerolog.Logger) *Handler {
	return &Handler{
		events: eventManager,
		log:    log.With().Str("handler", "backtesting").Logger(),
	}
}

// runRequest is the JSON body for a backtest. Dates are ISO calendar days.
// Seed makes the run reproducible; 0 or absent seeds from the clock.
type runRequest struct {
	InitialAmount          float64 `json:"initial_amount"`
	RiskScore              int     `json:"risk_score"`
	StartDate              string  `json:"start_date"`
	EndDate                string  `json:"end_date"`
	RebalanceFrequencyDays int     `json:"rebalance_frequency_days"`
	CompoundingEnabled     bool    `json:"compounding_enabled"`
	Seed                   int64   `json:"seed,omitempty"`
}

func (req runRequest) toParams() (Params, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return Params{}, err
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return Params{}, err
	}

	frequency := req.RebalanceFrequencyDays
	if frequency == 0 {
		frequency = 30
	}

	return Params{
		InitialAmount:          req.InitialAmount,
		RiskScore:              req.RiskScore,
		StartDate:              start,
		EndDate:                end,
		RebalanceFrequencyDays: frequency,
		CompoundingEnabled:     req.CompoundingEnabled,
	}, nil
}

func (req runRequest) simulator(log zerolog.Logger) *Simulator {
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewSimulator(rand.New(rand.NewSource(seed)), log)
}

// HandleRun executes a single backtest
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	params, err := req.toParams()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Dates must be YYYY-MM-DD")
		return
	}

	result, err := req.simulator(h.log).Run(params)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.events.Emit(events.BacktestCompleted, "backtesting", map[string]interface{}{
		"run_id":     result.RunID,
		"days":       len(result.Timeline),
		"rebalances": result.RebalanceCount,
	})

	h.writeJSON(w, http.StatusOK, result)
}

// scenariosRequest wraps a base run plus named overrides
type scenariosRequest struct {
	runRequest
	Scenarios []Scenario `json:"scenarios"`
}

// HandleRunScenarios executes one backtest per scenario
func (h *Handler) HandleRunScenarios(w http.ResponseWriter, r *http.Request) {
	var req scenariosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Scenarios) == 0 {
		h.writeError(w, http.StatusBadRequest, "At least one scenario is required")
		return
	}

	params, err := req.toParams()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Dates must be YYYY-MM-DD")
		return
	}

	results, err := req.simulator(h.log).RunScenarios(params, req.Scenarios)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"scenarios": results,
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
