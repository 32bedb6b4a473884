package handlers

import (
	"errors"
	"net/http"

	"github.com/dvloznov/wealthsense/internal/analytics"
	"github.com/dvloznov/wealthsense/internal/api/middleware"
	"github.com/dvloznov/wealthsense/internal/charts"
	"github.com/dvloznov/wealthsense/internal/service"
	"github.com/rs/zerolog"
)

// DashboardHandler serves aggregates and chart images.
type DashboardHandler struct {
	tracker *service.Tracker
	log     zerolog.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(tracker *service.Tracker, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		tracker: tracker,
		log:     log,
	}
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.tracker.Dashboard())
}

// CategoryChart handles GET /api/dashboard/categories.png
func (h *DashboardHandler) CategoryChart(w http.ResponseWriter, r *http.Request) {
	gen := charts.NewGenerator(h.tracker.Profile().Currency)
	h.writePNG(w, "category", func() ([]byte, error) {
		return gen.CategoryPie(analytics.CategoryBreakdown(h.tracker.Transactions()))
	})
}

// DailyChart handles GET /api/dashboard/daily.png
func (h *DashboardHandler) DailyChart(w http.ResponseWriter, r *http.Request) {
	gen := charts.NewGenerator(h.tracker.Profile().Currency)
	h.writePNG(w, "daily", func() ([]byte, error) {
		return gen.DailyFlow(h.tracker.Ledger())
	})
}

func (h *DashboardHandler) writePNG(w http.ResponseWriter, name string, render func() ([]byte, error)) {
	img, err := render()
	if errors.Is(err, charts.ErrNoData) {
		middleware.WriteError(w, http.StatusNotFound, "Nothing to chart yet")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("chart", name).Msg("Failed to render chart")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}
