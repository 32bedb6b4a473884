package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/wealthsense/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

// mockPersister is an in-package Persister with optional failure hooks.
type mockPersister struct {
	data   map[string][]byte
	puts   int
	putErr error
	getErr error
}

func newMockPersister() *mockPersister {
	return &mockPersister{data: map[string][]byte{}}
}

func (m *mockPersister) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mockPersister) PutAll(_ context.Context, entries map[string][]byte) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.puts++
	for k, v := range entries {
		m.data[k] = v
	}
	return nil
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("tx-%d", n)
	}
}

func fixedClock() time.Time {
	return time.Date(2024, time.May, 20, 9, 30, 0, 0, time.UTC)
}

func newTestStore(p Persister) *Store {
	return New(p, domain.PersonalCategories, zerolog.Nop(),
		WithClock(fixedClock), WithIDGenerator(sequentialIDs()))
}

func draft(desc string, amount float64) domain.Draft {
	return domain.Draft{
		Description: desc,
		Amount:      amount,
		Category:    "Shopping",
		Type:        domain.TypeExpense,
		PaymentMode: domain.ModeUPI,
		Date:        civil.Date{Year: 2024, Month: time.May, Day: 1},
	}
}

func TestStore_AddOnEmpty(t *testing.T) {
	p := newMockPersister()
	s := newTestStore(p)
	ctx := context.Background()

	if _, _, err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	created, err := s.Add(ctx, draft("Coffee beans", 450))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected an id to be assigned")
	}

	txs := s.Transactions()
	if len(txs) != 1 || txs[0].ID != created.ID {
		t.Fatalf("got %+v, want single record %s", txs, created.ID)
	}
	if p.puts != 1 {
		t.Errorf("expected 1 write, got %d", p.puts)
	}
}

func TestStore_AddPrependsWithUnusedID(t *testing.T) {
	s := newTestStore(newMockPersister())
	ctx := context.Background()

	first, err := s.Add(ctx, draft("Groceries", 300))
	if err != nil {
		t.Fatalf("Add first: %v", err)
	}
	// Force a collision on the next generated id.
	ids := []string{first.ID, "", "fresh"}
	s.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	second, err := s.Add(ctx, draft("Train ticket", 120))
	if err != nil {
		t.Fatalf("Add second: %v", err)
	}
	if second.ID != "fresh" {
		t.Errorf("expected colliding and empty ids to be skipped, got %q", second.ID)
	}

	txs := s.Transactions()
	if len(txs) != 2 || txs[0].ID != "fresh" || txs[1].ID != first.ID {
		t.Errorf("expected newest first, got %+v", txs)
	}
}

func TestStore_AddDefaultsDate(t *testing.T) {
	s := newTestStore(newMockPersister())
	d := draft("Lunch", 200)
	d.Date = civil.Date{}

	created, err := s.Add(context.Background(), d)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	want := civil.Date{Year: 2024, Month: time.May, Day: 20}
	if created.Date != want {
		t.Errorf("date = %s, want %s", created.Date, want)
	}
}

func TestStore_AddRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *domain.Draft)
		wantErr error
	}{
		{"blank description", func(d *domain.Draft) { d.Description = "  " }, domain.ErrEmptyDescription},
		{"zero amount", func(d *domain.Draft) { d.Amount = 0 }, domain.ErrInvalidAmount},
		{"unknown category", func(d *domain.Draft) { d.Category = "Labor Payment" }, domain.ErrUnknownCategory},
		{"bad mode", func(d *domain.Draft) { d.PaymentMode = "Cheque" }, domain.ErrInvalidPaymentMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newMockPersister()
			s := newTestStore(p)
			d := draft("Valid", 10)
			tt.mutate(&d)

			_, err := s.Add(context.Background(), d)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
			if len(s.Transactions()) != 0 || p.puts != 0 {
				t.Error("rejected draft must not be stored or written")
			}
		})
	}
}

func TestStore_RemoveAbsentIsNoop(t *testing.T) {
	p := newMockPersister()
	s := newTestStore(p)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := s.Add(ctx, draft(fmt.Sprintf("item %d", i), float64(10+i))); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	before := s.Transactions()
	writes := p.puts

	if err := s.Remove(ctx, "does-not-exist"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if diff := cmp.Diff(before, s.Transactions()); diff != "" {
		t.Errorf("sequence changed (-before +after):\n%s", diff)
	}
	if p.puts != writes {
		t.Errorf("expected no write for absent id, got %d extra", p.puts-writes)
	}
}

func TestStore_RemoveKeepsOrder(t *testing.T) {
	s := newTestStore(newMockPersister())
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		tx, err := s.Add(ctx, draft(fmt.Sprintf("item %d", i), 10))
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		ids = append(ids, tx.ID)
	}

	if err := s.Remove(ctx, ids[1]); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	var got []string
	for _, tx := range s.Transactions() {
		got = append(got, tx.ID)
	}
	if diff := cmp.Diff([]string{ids[2], ids[0]}, got); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_ClearKeepsProfile(t *testing.T) {
	s := newTestStore(newMockPersister())
	ctx := context.Background()

	profile := domain.DefaultProfile()
	profile.Name = "Asha"
	if _, err := s.UpdateProfile(ctx, profile); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if _, err := s.Add(ctx, draft("Book", 99)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n := len(s.Transactions()); n != 0 {
		t.Errorf("expected empty sequence, got %d", n)
	}
	if s.Profile().Name != "Asha" {
		t.Errorf("profile changed: %+v", s.Profile())
	}
}

func TestStore_PersistFailureRollsBack(t *testing.T) {
	p := newMockPersister()
	s := newTestStore(p)
	ctx := context.Background()

	kept, err := s.Add(ctx, draft("Kept", 10))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	p.putErr = errors.New("disk full")

	if _, err := s.Add(ctx, draft("Lost", 20)); !errors.Is(err, ErrPersist) {
		t.Errorf("Add: got %v, want ErrPersist", err)
	}
	if err := s.Remove(ctx, kept.ID); !errors.Is(err, ErrPersist) {
		t.Errorf("Remove: got %v, want ErrPersist", err)
	}
	if err := s.Clear(ctx); !errors.Is(err, ErrPersist) {
		t.Errorf("Clear: got %v, want ErrPersist", err)
	}
	renamed := domain.DefaultProfile()
	renamed.Name = "Changed"
	if _, err := s.UpdateProfile(ctx, renamed); !errors.Is(err, ErrPersist) {
		t.Errorf("UpdateProfile: got %v, want ErrPersist", err)
	}

	txs := s.Transactions()
	if len(txs) != 1 || txs[0].ID != kept.ID {
		t.Errorf("state not rolled back: %+v", txs)
	}
	if s.Profile().Name != domain.DefaultProfile().Name {
		t.Errorf("profile not rolled back: %+v", s.Profile())
	}
}

func TestStore_UpdateProfileValidates(t *testing.T) {
	s := newTestStore(newMockPersister())
	_, err := s.UpdateProfile(context.Background(), domain.UserProfile{Name: " "})
	if !errors.Is(err, domain.ErrEmptyName) {
		t.Errorf("got %v, want ErrEmptyName", err)
	}
}

func TestStore_LoadRoundTrip(t *testing.T) {
	p := newMockPersister()
	ctx := context.Background()

	writer := newTestStore(p)
	profile := domain.DefaultProfile()
	profile.Name = "Ravi"
	if _, err := writer.UpdateProfile(ctx, profile); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	for _, desc := range []string{"a", "b"} {
		if _, err := writer.Add(ctx, draft(desc, 5)); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	reader := newTestStore(p)
	gotProfile, gotTxs, err := reader.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(profile, gotProfile); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(writer.Transactions(), gotTxs); diff != "" {
		t.Errorf("transactions mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_LoadFallsBack(t *testing.T) {
	tests := []struct {
		name      string
		data      map[string][]byte
		wantName  string
		wantCount int
	}{
		{
			name:     "nothing persisted",
			data:     map[string][]byte{},
			wantName: domain.DefaultProfile().Name,
		},
		{
			name: "corrupt profile keeps transactions",
			data: map[string][]byte{
				ProfileKey:      []byte("{not json"),
				TransactionsKey: []byte(`[{"id":"1","description":"Tea","amount":20,"category":"Food & Drink","type":"Expense","paymentMode":"Cash","date":"2024-05-01"}]`),
			},
			wantName:  domain.DefaultProfile().Name,
			wantCount: 1,
		},
		{
			name: "corrupt transactions keep profile",
			data: map[string][]byte{
				ProfileKey:      []byte(`{"name":"Meera","email":"m@example.com","photoUrl":"","currency":"INR"}`),
				TransactionsKey: []byte(`{"oops":true}`),
			},
			wantName: "Meera",
		},
		{
			name:     "null profile",
			data:     map[string][]byte{ProfileKey: []byte("null")},
			wantName: domain.DefaultProfile().Name,
		},
		{
			name:     "empty profile object",
			data:     map[string][]byte{ProfileKey: []byte("{}")},
			wantName: domain.DefaultProfile().Name,
		},
		{
			name:     "profile with blank name",
			data:     map[string][]byte{ProfileKey: []byte(`{"name":"  ","currency":"USD"}`)},
			wantName: domain.DefaultProfile().Name,
		},
		{
			name: "legacy alias and invalid record are kept",
			data: map[string][]byte{
				TransactionsKey: []byte(`[
					{"id":"1","description":"Rent","amount":9000,"category":"Rent","type":"Expense","paymentMode":"BankTransfer","date":"2024-05-01"},
					{"id":"2","description":"Cement","amount":100,"category":"Raw Materials","type":"Expense","paymentMode":"Cash","date":"2024-05-02"}
				]`),
			},
			wantName:  domain.DefaultProfile().Name,
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newMockPersister()
			p.data = tt.data
			s := newTestStore(p)

			profile, txs, err := s.Load(context.Background())
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if profile.Name != tt.wantName {
				t.Errorf("profile name = %q, want %q", profile.Name, tt.wantName)
			}
			if len(txs) != tt.wantCount {
				t.Errorf("got %d transactions, want %d", len(txs), tt.wantCount)
			}
		})
	}
}

func TestStore_LoadFallbackProfileIsComplete(t *testing.T) {
	p := newMockPersister()
	p.data[ProfileKey] = []byte("{}")

	profile, _, err := newTestStore(p).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(domain.DefaultProfile(), profile); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
	if err := profile.Validate(); err != nil {
		t.Errorf("loaded profile does not validate: %v", err)
	}
}

func TestDuplicateIDs(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want []string
	}{
		{name: "unique", ids: []string{"a", "b", "c"}},
		{name: "empty ids ignored", ids: []string{"", "", "a"}},
		{name: "pair", ids: []string{"a", "b", "a"}, want: []string{"a"}},
		{name: "triple reported once", ids: []string{"b", "a", "b", "a", "b"}, want: []string{"b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs := make([]domain.Transaction, len(tt.ids))
			for i, id := range tt.ids {
				txs[i] = draft(fmt.Sprintf("tx %d", i), 10).WithID(id)
			}
			if diff := cmp.Diff(tt.want, duplicateIDs(txs)); diff != "" {
				t.Errorf("duplicateIDs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStore_LoadKeepsDuplicateIDs(t *testing.T) {
	p := newMockPersister()
	p.data[TransactionsKey] = []byte(`[
		{"id":"dup","description":"Tea","amount":20,"category":"Food & Drink","type":"Expense","paymentMode":"Cash","date":"2024-05-02"},
		{"id":"dup","description":"Coffee","amount":30,"category":"Food & Drink","type":"Expense","paymentMode":"Cash","date":"2024-05-01"}
	]`)

	var logs bytes.Buffer
	s := New(p, domain.PersonalCategories, zerolog.New(&logs))

	_, txs, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if !strings.Contains(logs.String(), "share ids") || !strings.Contains(logs.String(), `"dup"`) {
		t.Errorf("expected a duplicate id warning, got logs: %s", logs.String())
	}
}

func TestStore_LoadAliasNormalized(t *testing.T) {
	p := newMockPersister()
	p.data[TransactionsKey] = []byte(`[{"id":"1","description":"Rent","amount":9000,"category":"Rent","type":"Expense","paymentMode":"BankTransfer","date":"2024-05-01"}]`)

	_, txs, err := newTestStore(p).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if txs[0].PaymentMode != domain.ModeBankTransfer {
		t.Errorf("payment mode = %q, want %q", txs[0].PaymentMode, domain.ModeBankTransfer)
	}
}

func TestStore_LoadPersisterError(t *testing.T) {
	p := newMockPersister()
	p.getErr = errors.New("io error")

	if _, _, err := newTestStore(p).Load(context.Background()); err == nil {
		t.Fatal("expected error from failing persister")
	}
}
