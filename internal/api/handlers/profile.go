package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dvloznov/wealthsense/internal/api/middleware"
	"github.com/dvloznov/wealthsense/internal/domain"
	"github.com/dvloznov/wealthsense/internal/service"
	"github.com/rs/zerolog"
)

// ProfileHandler handles profile and vocabulary endpoints.
type ProfileHandler struct {
	tracker *service.Tracker
	log     zerolog.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(tracker *service.Tracker, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		tracker: tracker,
		log:     log,
	}
}

// GetProfile handles GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.tracker.Profile())
}

// UpdateProfile handles PUT /api/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.tracker.UpdateProfile(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to update profile")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, updated)
}

// ListCategories handles GET /api/categories
func (h *ProfileHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	set := h.tracker.Categories()
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"set":          set.Name(),
		"categories":   set.Names(),
		"types":        []domain.TransactionType{domain.TypeIncome, domain.TypeExpense},
		"paymentModes": domain.PaymentModes,
	})
}
