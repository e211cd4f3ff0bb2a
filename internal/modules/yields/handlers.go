package yields

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/snowfolio/snowfolio/internal/domain"
)

// Handler handles yield HTTP requests
type Handler struct {
	service *Service
	repo    *Repository
	log     zerolog.Logger
}

// NewHandler creates a new yields handler
func NewHandler(service *Service, repo *Repository, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		repo:    repo,
		log:     log.With().Str("handler", "yields").Logger(),
	}
}

// HandleGetCurrent returns the current APY per protocol
func (h *Handler) HandleGetCurrent(w http.ResponseWriter, r *http.Request) {
	snaps := h.service.Current(r.Context())
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"yields": snaps,
	})
}

// HandleGetHistory returns stored snapshots for one protocol.
// Query params: days (default 30).
func (h *Handler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	protocol := domain.Protocol(chi.URLParam(r, "protocol"))

	valid := false
	for _, p := range domain.Protocols {
		if p == protocol {
			valid = true
			break
		}
	}
	if !valid {
		h.writeError(w, http.StatusBadRequest, "Unknown protocol")
		return
	}

	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			h.writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	snaps, err := h.repo.History(protocol, since)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"protocol": protocol,
		"days":     days,
		"history":  snaps,
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
