// Package app builds the object graph shared by the binaries.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvloznov/wealthsense/internal/config"
	"github.com/dvloznov/wealthsense/internal/insights"
	"github.com/dvloznov/wealthsense/internal/logger"
	"github.com/dvloznov/wealthsense/internal/service"
	"github.com/dvloznov/wealthsense/internal/store"
	"github.com/dvloznov/wealthsense/internal/store/inmemory"
	"github.com/dvloznov/wealthsense/internal/store/localfs"
	"github.com/dvloznov/wealthsense/internal/store/sqlite"
	"github.com/rs/zerolog"
)

// App holds the loaded store and the tracker built on it.
type App struct {
	Config  *config.Config
	Store   *store.Store
	Tracker *service.Tracker

	closers []func() error
}

// New opens the configured backend, loads persisted state and, when a
// Gemini key is present, wires the insight builder.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{Config: cfg}

	p, err := a.openPersister(log)
	if err != nil {
		return nil, err
	}

	s := store.New(p, cfg.Categories(), logger.WithComponent(log, "store"))
	if _, _, err := s.Load(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("load store: %w", err)
	}
	a.Store = s

	var builder *insights.Builder
	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY not set - insights are disabled")
	} else {
		gen, err := insights.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create insight generator: %w", err)
		}
		builder = insights.NewBuilder(gen,
			insights.TemplateFor(cfg.Categories().Name()),
			logger.WithComponent(log, "insights"),
			insights.WithTimeout(cfg.InsightTimeout),
			insights.WithMaxLines(cfg.InsightMaxLines),
		)
	}

	a.Tracker = service.NewTracker(s, builder, logger.WithComponent(log, "tracker"))
	return a, nil
}

func (a *App) openPersister(log zerolog.Logger) (store.Persister, error) {
	cfg := a.Config
	switch cfg.DataBackend {
	case config.BackendSQLite:
		p, err := sqlite.Open(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		a.closers = append(a.closers, p.Close)
		log.Info().Str("backend", cfg.DataBackend).Str("path", cfg.SQLiteDBPath).Msg("Storage opened")
		return p, nil
	case config.BackendFile:
		p, err := localfs.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open file backend: %w", err)
		}
		log.Info().Str("backend", cfg.DataBackend).Str("dir", cfg.DataDir).Msg("Storage opened")
		return p, nil
	case config.BackendMemory:
		log.Warn().Msg("Using in-memory storage - data is lost on exit")
		return inmemory.NewPersister(), nil
	}
	return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
}

// Close releases backend resources.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}
