// Package insights turns a transaction history into a coaching prompt,
// sends it to a text-generation model and validates the structured answer.
package insights

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dvloznov/wealthsense/internal/domain"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds one remote call.
const DefaultTimeout = 30 * time.Second

// Builder performs one remote call per RequestInsight. It holds no state
// between calls and never retries.
type Builder struct {
	gen      Generator
	template Template
	opts     PromptOptions
	timeout  time.Duration
	log      zerolog.Logger
}

// BuilderOption customizes a Builder.
type BuilderOption func(*Builder)

// WithTimeout sets the per-call timeout. Zero disables it.
func WithTimeout(d time.Duration) BuilderOption {
	return func(b *Builder) { b.timeout = d }
}

// WithMaxLines caps the transaction lines in a prompt.
func WithMaxLines(n int) BuilderOption {
	return func(b *Builder) { b.opts.MaxLines = n }
}

// WithCurrency sets the currency used to render amounts.
func WithCurrency(code string) BuilderOption {
	return func(b *Builder) { b.opts.Currency = code }
}

// NewBuilder creates a Builder that renders prompts with t.
func NewBuilder(gen Generator, t Template, log zerolog.Logger, opts ...BuilderOption) *Builder {
	b := &Builder{
		gen:      gen,
		template: t,
		opts:     PromptOptions{Currency: "INR"},
		timeout:  DefaultTimeout,
		log:      log,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ForCurrency returns a copy of b that renders amounts in code.
func (b *Builder) ForCurrency(code string) *Builder {
	c := *b
	if code != "" {
		c.opts.Currency = code
	}
	return &c
}

// RequestInsight asks the model to coach on txs. Failures are always one of
// ErrPrecondition, ErrRemote or ErrSchema.
func (b *Builder) RequestInsight(ctx context.Context, txs []domain.Transaction) (domain.SpendingInsight, error) {
	if len(txs) < MinTransactions {
		return domain.SpendingInsight{}, fmt.Errorf("RequestInsight: %w (have %d)", ErrPrecondition, len(txs))
	}

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	prompt := BuildPrompt(b.template, txs, b.opts)
	log := b.log.With().Str("template", b.template.Name).Int("transactions", len(txs)).Logger()
	log.Info().Msg("Requesting spending insight")

	start := time.Now()
	raw, err := b.gen.Generate(ctx, prompt, ResponseSchema())
	if err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("Insight request failed")
		return domain.SpendingInsight{}, fmt.Errorf("RequestInsight: %w: %w", ErrRemote, err)
	}

	insight, err := ParseInsight(raw)
	if err != nil {
		log.Error().Err(err).Str("raw_response", truncate(raw, 512)).Msg("Insight response rejected")
		return domain.SpendingInsight{}, fmt.Errorf("RequestInsight: %w", err)
	}

	log.Info().Str("risk_level", string(insight.RiskLevel)).Int("suggestions", len(insight.Suggestions)).
		Dur("elapsed", time.Since(start)).Msg("Spending insight received")
	return insight, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
