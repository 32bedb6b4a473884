// Package store owns the user profile and the newest-first transaction
// sequence, and snapshots both to local storage after every mutation.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/wealthsense/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrPersist is returned when a mutation could not be written. The
// in-memory state is rolled back before it is returned.
var ErrPersist = errors.New("persist snapshot")

// Store is safe for concurrent use. Mutations are serialized so that every
// saved snapshot is consistent.
type Store struct {
	mu           sync.RWMutex
	persister    Persister
	categories   domain.CategorySet
	log          zerolog.Logger
	now          func() time.Time
	newID        func() string
	profile      domain.UserProfile
	transactions []domain.Transaction
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the clock used to default a missing transaction date.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides uuid-based id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New creates an empty Store holding the default profile. Call Load to
// read persisted state.
func New(p Persister, categories domain.CategorySet, log zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		persister:  p,
		categories: categories,
		log:        log,
		now:        time.Now,
		newID:      uuid.NewString,
		profile:    domain.DefaultProfile(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with the persisted snapshot. A key that
// is missing or fails to decode falls back to its default; that is logged
// and never returned as an error. Only a failing Persister is an error.
func (s *Store) Load(ctx context.Context) (domain.UserProfile, []domain.Transaction, error) {
	profile := domain.DefaultProfile()
	var txs []domain.Transaction

	raw, found, err := s.persister.Get(ctx, ProfileKey)
	if err != nil {
		return profile, nil, fmt.Errorf("Load: read %s: %w", ProfileKey, err)
	}
	if found {
		var decoded domain.UserProfile
		if err := json.Unmarshal(raw, &decoded); err != nil {
			s.log.Warn().Err(err).Str("key", ProfileKey).Msg("Persisted profile is unreadable, using default")
		} else if err := decoded.Validate(); err != nil {
			s.log.Warn().Err(err).Str("key", ProfileKey).Msg("Persisted profile is invalid, using default")
		} else {
			profile = decoded
		}
	}

	raw, found, err = s.persister.Get(ctx, TransactionsKey)
	if err != nil {
		return profile, nil, fmt.Errorf("Load: read %s: %w", TransactionsKey, err)
	}
	if found {
		if err := json.Unmarshal(raw, &txs); err != nil {
			s.log.Warn().Err(err).Str("key", TransactionsKey).Msg("Persisted transactions are unreadable, starting empty")
			txs = nil
		}
	}

	if invalid := s.countInvalid(txs); invalid > 0 {
		s.log.Warn().Int("count", invalid).Str("category_set", s.categories.Name()).
			Msg("Loaded transactions that no longer validate; keeping them")
	}
	if dups := duplicateIDs(txs); len(dups) > 0 {
		s.log.Warn().Strs("transaction_ids", dups).
			Msg("Loaded transactions share ids; removing one of them removes every copy")
	}

	s.mu.Lock()
	s.profile = profile
	s.transactions = txs
	s.mu.Unlock()

	s.log.Info().Int("transactions", len(txs)).Str("profile", profile.Name).Msg("Store loaded")
	return profile, slices.Clone(txs), nil
}

func (s *Store) countInvalid(txs []domain.Transaction) int {
	n := 0
	for _, tx := range txs {
		if tx.ID == "" || tx.Draft().Validate(s.categories) != nil {
			n++
		}
	}
	return n
}

// duplicateIDs lists every non-empty id held by more than one record, in
// first-seen order.
func duplicateIDs(txs []domain.Transaction) []string {
	seen := make(map[string]int, len(txs))
	var dups []string
	for _, tx := range txs {
		if tx.ID == "" {
			continue
		}
		seen[tx.ID]++
		if seen[tx.ID] == 2 {
			dups = append(dups, tx.ID)
		}
	}
	return dups
}

// Save writes a full snapshot of the given state.
func (s *Store) Save(ctx context.Context, profile domain.UserProfile, txs []domain.Transaction) error {
	if txs == nil {
		txs = []domain.Transaction{}
	}
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("Save: encode profile: %w", err)
	}
	txJSON, err := json.Marshal(txs)
	if err != nil {
		return fmt.Errorf("Save: encode transactions: %w", err)
	}
	if err := s.persister.PutAll(ctx, map[string][]byte{
		ProfileKey:      profileJSON,
		TransactionsKey: txJSON,
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// mutate applies fn to a copy of the state, persists the result and only
// then publishes it. A failed save leaves the previous state in place.
func (s *Store) mutate(ctx context.Context, fn func(profile *domain.UserProfile, txs []domain.Transaction) ([]domain.Transaction, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile := s.profile
	txs, err := fn(&profile, slices.Clone(s.transactions))
	if err != nil {
		return err
	}
	if err := s.Save(ctx, profile, txs); err != nil {
		return err
	}
	s.profile = profile
	s.transactions = txs
	return nil
}

// Add validates d, assigns a fresh id and puts the record at the front of
// the sequence. A zero date defaults to today.
func (s *Store) Add(ctx context.Context, d domain.Draft) (domain.Transaction, error) {
	if d.Date == (civil.Date{}) {
		d.Date = civil.DateOf(s.now())
	}
	if err := d.Validate(s.categories); err != nil {
		return domain.Transaction{}, fmt.Errorf("Add: %w", err)
	}

	var created domain.Transaction
	err := s.mutate(ctx, func(_ *domain.UserProfile, txs []domain.Transaction) ([]domain.Transaction, error) {
		created = d.WithID(s.freshID(txs))
		return append([]domain.Transaction{created}, txs...), nil
	})
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("Add: %w", err)
	}

	s.log.Debug().Str("transaction_id", created.ID).Str("type", string(created.Type)).
		Float64("amount", created.Amount).Msg("Transaction added")
	return created, nil
}

func (s *Store) freshID(txs []domain.Transaction) string {
	for {
		id := s.newID()
		if id != "" && !slices.ContainsFunc(txs, func(tx domain.Transaction) bool { return tx.ID == id }) {
			return id
		}
	}
}

// Remove deletes the record with the given id. An unknown id is a no-op and
// nothing is written.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.RLock()
	present := slices.ContainsFunc(s.transactions, func(tx domain.Transaction) bool { return tx.ID == id })
	s.mu.RUnlock()
	if !present {
		return nil
	}

	err := s.mutate(ctx, func(_ *domain.UserProfile, txs []domain.Transaction) ([]domain.Transaction, error) {
		return slices.DeleteFunc(txs, func(tx domain.Transaction) bool { return tx.ID == id }), nil
	})
	if err != nil {
		return fmt.Errorf("Remove: %w", err)
	}
	s.log.Debug().Str("transaction_id", id).Msg("Transaction removed")
	return nil
}

// Clear drops every transaction. The profile is kept.
func (s *Store) Clear(ctx context.Context) error {
	err := s.mutate(ctx, func(_ *domain.UserProfile, _ []domain.Transaction) ([]domain.Transaction, error) {
		return []domain.Transaction{}, nil
	})
	if err != nil {
		return fmt.Errorf("Clear: %w", err)
	}
	s.log.Info().Msg("All transactions cleared")
	return nil
}

// UpdateProfile replaces the profile wholesale.
func (s *Store) UpdateProfile(ctx context.Context, p domain.UserProfile) (domain.UserProfile, error) {
	if err := p.Validate(); err != nil {
		return domain.UserProfile{}, fmt.Errorf("UpdateProfile: %w", err)
	}
	err := s.mutate(ctx, func(profile *domain.UserProfile, txs []domain.Transaction) ([]domain.Transaction, error) {
		*profile = p
		return txs, nil
	})
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("UpdateProfile: %w", err)
	}
	return p, nil
}

// Transactions returns a copy of the sequence, newest first.
func (s *Store) Transactions() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.transactions)
}

// Profile returns the current profile.
func (s *Store) Profile() domain.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Categories returns the active vocabulary.
func (s *Store) Categories() domain.CategorySet {
	return s.categories
}
