package handlers

import (
	"net/http"

	"github.com/dvloznov/wealthsense/internal/api/middleware"
	"github.com/dvloznov/wealthsense/internal/jobs"
	"github.com/dvloznov/wealthsense/internal/service"
	"github.com/rs/zerolog"
)

// InsightsHandler handles coaching endpoints.
type InsightsHandler struct {
	tracker   *service.Tracker
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(tracker *service.Tracker, publisher jobs.Publisher, log zerolog.Logger) *InsightsHandler {
	return &InsightsHandler{
		tracker:   tracker,
		publisher: publisher,
		log:       log,
	}
}

// GetInsight handles GET /api/insights. It calls the model only when no
// insight is held yet.
func (h *InsightsHandler) GetInsight(w http.ResponseWriter, r *http.Request) {
	held, err := h.tracker.FetchInsight(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "Failed to fetch insight")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, held)
}

// RefreshInsight handles POST /api/insights/refresh. The request is queued
// and its progress is visible under /api/jobs/{id}.
func (h *InsightsHandler) RefreshInsight(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker.InsightReady(); err != nil {
		writeServiceError(w, h.log, err, "Cannot refresh insight")
		return
	}

	job := &jobs.RefreshInsightJob{TransactionCount: len(h.tracker.Transactions())}
	if err := h.publisher.PublishRefreshInsight(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue insight refresh")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue insight refresh")
		return
	}

	// The worker owns job from here on; only its id is read.
	jobID := job.JobID
	h.log.Info().Str("job_id", jobID).Msg("Insight refresh enqueued")
	middleware.WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id": jobID,
		"status": jobs.JobStatusPending,
	})
}
