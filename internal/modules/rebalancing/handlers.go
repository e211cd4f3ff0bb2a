package rebalancing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/snowfolio/snowfolio/internal/domain"
	"github.com/snowfolio/snowfolio/internal/modules/portfolio"
)

// Handler handles rebalancing HTTP requests
type Handler struct {
	service   *Service
	autopilot *Autopilot
	profiles  *portfolio.ProfileRepository
	portfolio *portfolio.Service
	history   *HistoryRepository
	log       zerolog.Logger
}

// NewHandler creates a new rebalancing handler
func NewHandler(
	service *Service,
	autopilot *Autopilot,
	profiles *portfolio.ProfileRepository,
	portfolioService *portfolio.Service,
	history *HistoryRepository,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		service:   service,
		autopilot: autopilot,
		profiles:  profiles,
		portfolio: portfolioService,
		history:   history,
		log:       log.With().Str("handler", "rebalancing").Logger(),
	}
}

// evaluateRequest optionally supplies the current allocation; when absent it
// is read from the chain.
type evaluateRequest struct {
	Address           string             `json:"address"`
	CurrentAllocation *domain.Allocation `json:"current_allocation,omitempty"`
}

// HandleEvaluate runs the decision engine for a wallet
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	address := strings.ToLower(req.Address)
	if !strings.HasPrefix(address, "0x") || len(address) != 42 {
		h.writeError(w, http.StatusBadRequest, "Invalid wallet address")
		return
	}

	profile, err := h.profiles.Get(address)
	if errors.Is(err, portfolio.ErrProfileNotFound) {
		h.writeError(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var current domain.Allocation
	if req.CurrentAllocation != nil {
		current = *req.CurrentAllocation
	} else {
		snap, err := h.portfolio.CurrentSnapshot(r.Context(), address)
		if err != nil {
			h.writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		current = snap.Allocation
	}

	decision := h.service.Evaluate(r.Context(), profile, current)
	h.writeJSON(w, http.StatusOK, decision)
}

// HandleEnableAuto turns on scheduled checks for a wallet
func (h *Handler) HandleEnableAuto(w http.ResponseWriter, r *http.Request) {
	address := strings.ToLower(chi.URLParam(r, "address"))

	profile, err := h.profiles.Get(address)
	if errors.Is(err, portfolio.ErrProfileNotFound) {
		h.writeError(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.profiles.SetAutoRebalance(address, true); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.autopilot.Enable(address, profile.CheckIntervalMinutes); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"address":          address,
		"enabled":          true,
		"interval_minutes": profile.CheckIntervalMinutes,
	})
}

// HandleDisableAuto cancels scheduled checks for a wallet
func (h *Handler) HandleDisableAuto(w http.ResponseWriter, r *http.Request) {
	address := strings.ToLower(chi.URLParam(r, "address"))

	if err := h.profiles.SetAutoRebalance(address, false); err != nil &&
		!errors.Is(err, portfolio.ErrProfileNotFound) {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.autopilot.Disable(address)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"address": address,
		"enabled": false,
	})
}

// HandleGetHistory returns recorded rebalance triggers for a wallet.
// Query params: limit (default 50).
func (h *Handler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	address := strings.ToLower(chi.URLParam(r, "address"))

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	entries, err := h.history.ForAddress(address, limit)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"address": address,
		"history": entries,
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
