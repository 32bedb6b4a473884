package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/wealthsense/internal/api"
	"github.com/dvloznov/wealthsense/internal/app"
	"github.com/dvloznov/wealthsense/internal/config"
	"github.com/dvloznov/wealthsense/internal/jobs"
	"github.com/dvloznov/wealthsense/internal/jobs/inmemory"
	"github.com/dvloznov/wealthsense/internal/logger"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.New()
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}

	port := flag.String("port", cfg.Port, "HTTP server port (or set PORT env)")
	flag.Parse()
	cfg.Port = *port

	log := logger.WithFields(logger.NewWithLevel(cfg.LogLevel), map[string]interface{}{
		"service":      "wealthsense-api",
		"category_set": cfg.CategorySet,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.InsightQueueSize, jobStore,
		inmemory.WithMaxRetries(cfg.InsightMaxRetries))

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: api.NewRouter(api.Deps{
			Tracker:   application.Tracker,
			Publisher: jobQueue,
			JobStore:  jobStore,
			Log:       log,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.InsightTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Msg("Starting insight worker")
		return jobQueue.Start(gctx, jobs.NewRefreshInsightHandler(application.Tracker, logger.WithComponent(log, "worker")))
	})

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.DataBackend).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
		// Stop job queue and wait for in-flight jobs
		if err := jobQueue.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error stopping job queue")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server exited with error")
		application.Close()
		os.Exit(1)
	}

	log.Info().Msg("Server exited")
}
