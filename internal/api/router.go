// Package api assembles the HTTP router.
package api

import (
	"net/http"
	"time"

	"github.com/dvloznov/wealthsense/internal/api/handlers"
	"github.com/dvloznov/wealthsense/internal/api/middleware"
	"github.com/dvloznov/wealthsense/internal/jobs"
	"github.com/dvloznov/wealthsense/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Deps are the collaborators the router needs.
type Deps struct {
	Tracker   *service.Tracker
	Publisher jobs.Publisher
	JobStore  jobs.JobStore
	Log       zerolog.Logger
}

// NewRouter wires every endpoint behind the standard middleware chain.
func NewRouter(d Deps) http.Handler {
	profileHandler := handlers.NewProfileHandler(d.Tracker, d.Log)
	transactionsHandler := handlers.NewTransactionsHandler(d.Tracker, d.Log)
	dashboardHandler := handlers.NewDashboardHandler(d.Tracker, d.Log)
	insightsHandler := handlers.NewInsightsHandler(d.Tracker, d.Publisher, d.Log)
	jobsHandler := handlers.NewJobsHandler(d.JobStore, d.Log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(d.Log))
	r.Use(middleware.Logger(d.Log))
	r.Use(middleware.CORS)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/profile", profileHandler.GetProfile)
		r.Put("/profile", profileHandler.UpdateProfile)
		r.Get("/categories", profileHandler.ListCategories)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", transactionsHandler.ListTransactions)
			r.Post("/", transactionsHandler.CreateTransaction)
			r.Delete("/", transactionsHandler.ClearTransactions)
			r.Delete("/{id}", transactionsHandler.DeleteTransaction)
		})
		r.Get("/ledger", transactionsHandler.Ledger)

		r.Get("/dashboard", dashboardHandler.GetDashboard)
		r.Get("/dashboard/categories.png", dashboardHandler.CategoryChart)
		r.Get("/dashboard/daily.png", dashboardHandler.DailyChart)

		r.Get("/insights", insightsHandler.GetInsight)
		r.Post("/insights/refresh", insightsHandler.RefreshInsight)

		r.Get("/jobs", jobsHandler.ListJobs)
		r.Get("/jobs/{id}", jobsHandler.GetJob)
	})

	return r
}
