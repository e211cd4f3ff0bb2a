package portfolio

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/snowfolio/snowfolio/internal/events"
	"github.com/snowfolio/snowfolio/internal/modules/risk"
)

// Handler handles profile and portfolio HTTP requests
type Handler struct {
	profiles *ProfileRepository
	history  *HistoryRepository
	service  *Service
	events   *events.Manager
	log      zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(
	profiles *ProfileRepository,
	history *HistoryRepository,
	service *Service,
	eventManager *events.Manager,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		profiles: profiles,
		history:  history,
		service:  service,
		events:   eventManager,
		log:      log.With().Str("handler", "portfolio").Logger(),
	}
}

// profileRequest is the PUT body; score and profile are always derived
// server-side from the assessment, never accepted from the client.
type profileRequest struct {
	Assessment             risk.Assessment `json:"assessment"`
	AutoRebalanceEnabled   bool            `json:"auto_rebalance_enabled"`
	RebalanceFrequencyDays int             `json:"rebalance_frequency_days"`
	CheckIntervalMinutes   int             `json:"check_interval_minutes"`
}

// HandleGetProfile returns the stored profile for a wallet
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	address, ok := h.address(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.Get(address)
	if errors.Is(err, ErrProfileNotFound) {
		h.writeError(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, profile)
}

// HandleUpsertProfile creates or updates a wallet's profile
func (h *Handler) HandleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	address, ok := h.address(w, r)
	if !ok {
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Assessment.Age < 18 || req.Assessment.Age > 100 {
		h.writeError(w, http.StatusBadRequest, "age must be between 18 and 100")
		return
	}
	if req.Assessment.Income < 0 || req.Assessment.MonthlyExpenses < 0 {
		h.writeError(w, http.StatusBadRequest, "income and expenses must be non-negative")
		return
	}
	if req.RebalanceFrequencyDays <= 0 {
		req.RebalanceFrequencyDays = 30
	}
	if req.CheckIntervalMinutes <= 0 {
		req.CheckIntervalMinutes = 60
	}

	score := risk.CalculateScore(req.Assessment)

	// Preserve the stored last-rebalance time across updates.
	var lastRebalance *time.Time
	if existing, err := h.profiles.Get(address); err == nil {
		lastRebalance = existing.LastRebalanceAt
	}

	profile := &UserProfile{
		Address:                address,
		Assessment:             req.Assessment,
		RiskScore:              score,
		RiskProfile:            risk.ProfileForScore(score),
		AutoRebalanceEnabled:   req.AutoRebalanceEnabled,
		RebalanceFrequencyDays: req.RebalanceFrequencyDays,
		CheckIntervalMinutes:   req.CheckIntervalMinutes,
		LastRebalanceAt:        lastRebalance,
	}

	if err := h.profiles.Upsert(profile); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.events.Emit(events.ProfileUpdated, "portfolio", map[string]interface{}{
		"address":    address,
		"risk_score": score,
	})

	h.writeJSON(w, http.StatusOK, profile)
}

// HandleGetPortfolio returns the wallet's current on-chain allocation
func (h *Handler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	address, ok := h.address(w, r)
	if !ok {
		return
	}

	snap, err := h.service.CurrentSnapshot(r.Context(), address)
	if err != nil {
		h.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, snap)
}

// HandleGetHistory returns recorded portfolio snapshots.
// Query params: days (default 90).
func (h *Handler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	address, ok := h.address(w, r)
	if !ok {
		return
	}

	days := 90
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			h.writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	snaps, err := h.history.History(address, since)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"address": address,
		"days":    days,
		"history": snaps,
	})
}

// address extracts and sanity-checks the wallet address URL parameter.
func (h *Handler) address(w http.ResponseWriter, r *http.Request) (string, bool) {
	address := strings.ToLower(chi.URLParam(r, "address"))
	if !strings.HasPrefix(address, "0x") || len(address) != 42 {
		h.writeError(w, http.StatusBadRequest, "Invalid wallet address")
		return "", false
	}
	return address, true
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
