// Package service is the application facade the HTTP handlers, the CLI and
// the insight worker call into.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dvloznov/wealthsense/internal/analytics"
	"github.com/dvloznov/wealthsense/internal/domain"
	"github.com/dvloznov/wealthsense/internal/insights"
	"github.com/dvloznov/wealthsense/internal/store"
	"github.com/rs/zerolog"
)

// ErrInsightsDisabled is returned by insight operations when no model is
// configured.
var ErrInsightsDisabled = errors.New("insights are not configured")

// ErrInsightStale is returned when the history was cleared while the model
// was answering. The answer describes data that no longer exists and is
// dropped.
var ErrInsightStale = errors.New("history changed while the insight was generated")

// HeldInsight is the last successful coaching response. It lives in memory
// only.
type HeldInsight struct {
	Insight     domain.SpendingInsight `json:"insight"`
	GeneratedAt time.Time              `json:"generatedAt"`
}

// Tracker owns the transaction store and the currently held insight.
type Tracker struct {
	store    *store.Store
	insights *insights.Builder
	log      zerolog.Logger
	now      func() time.Time

	mu    sync.Mutex
	held  *HeldInsight
	epoch uint64
}

// NewTracker wires a loaded store and an optional insight builder. A nil
// builder disables insight operations.
func NewTracker(s *store.Store, b *insights.Builder, log zerolog.Logger) *Tracker {
	return &Tracker{
		store:    s,
		insights: b,
		log:      log,
		now:      time.Now,
	}
}

// AddTransaction stores a new record at the front of the history.
func (t *Tracker) AddTransaction(ctx context.Context, d domain.Draft) (domain.Transaction, error) {
	return t.store.Add(ctx, d)
}

// DeleteTransaction removes a record. Deleting an unknown id succeeds.
func (t *Tracker) DeleteTransaction(ctx context.Context, id string) error {
	return t.store.Remove(ctx, id)
}

// ClearAll empties the history and forgets the held insight.
func (t *Tracker) ClearAll(ctx context.Context) error {
	if err := t.store.Clear(ctx); err != nil {
		return err
	}
	t.mu.Lock()
	t.held = nil
	t.epoch++
	t.mu.Unlock()
	return nil
}

// UpdateProfile replaces the profile.
func (t *Tracker) UpdateProfile(ctx context.Context, p domain.UserProfile) (domain.UserProfile, error) {
	return t.store.UpdateProfile(ctx, p)
}

// Profile returns the current profile.
func (t *Tracker) Profile() domain.UserProfile {
	return t.store.Profile()
}

// Transactions returns the history, newest first. Never nil.
func (t *Tracker) Transactions() []domain.Transaction {
	txs := t.store.Transactions()
	if txs == nil {
		return []domain.Transaction{}
	}
	return txs
}

// Categories returns the active vocabulary.
func (t *Tracker) Categories() domain.CategorySet {
	return t.store.Categories()
}

// Dashboard recomputes every aggregate from the current history.
func (t *Tracker) Dashboard() analytics.Summary {
	return analytics.Summarize(t.store.Transactions())
}

// Ledger groups the history by date, newest date first.
func (t *Tracker) Ledger() []analytics.DayGroup {
	return analytics.Ledger(t.store.Transactions())
}

// InsightReady returns nil when an insight can be requested, otherwise
// ErrInsightsDisabled or insights.ErrPrecondition.
func (t *Tracker) InsightReady() error {
	if t.insights == nil {
		return ErrInsightsDisabled
	}
	if n := len(t.store.Transactions()); n < insights.MinTransactions {
		return fmt.Errorf("%w (have %d)", insights.ErrPrecondition, n)
	}
	return nil
}

// Insight returns the held insight, if any.
func (t *Tracker) Insight() (HeldInsight, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.held == nil {
		return HeldInsight{}, false
	}
	return *t.held, true
}

// FetchInsight returns the held insight and only calls the model when none
// is held yet.
func (t *Tracker) FetchInsight(ctx context.Context) (HeldInsight, error) {
	if h, ok := t.Insight(); ok {
		return h, nil
	}
	return t.RefreshInsight(ctx)
}

// RefreshInsight always calls the model. The latest completed response
// replaces the held one; on failure the previous insight is kept.
func (t *Tracker) RefreshInsight(ctx context.Context) (HeldInsight, error) {
	if t.insights == nil {
		return HeldInsight{}, ErrInsightsDisabled
	}

	t.mu.Lock()
	epoch := t.epoch
	t.mu.Unlock()

	profile := t.store.Profile()
	insight, err := t.insights.ForCurrency(profile.Currency).RequestInsight(ctx, t.store.Transactions())
	if err != nil {
		return HeldInsight{}, fmt.Errorf("RefreshInsight: %w", err)
	}

	h := HeldInsight{Insight: insight, GeneratedAt: t.now()}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.epoch != epoch {
		t.log.Info().Msg("Discarding insight computed before history was cleared")
		return HeldInsight{}, fmt.Errorf("RefreshInsight: %w", ErrInsightStale)
	}
	t.held = &h
	return h, nil
}
