package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dvloznov/wealthsense/internal/domain"
	"github.com/dvloznov/wealthsense/internal/service"
	"github.com/dvloznov/wealthsense/internal/store"
	"github.com/dvloznov/wealthsense/internal/store/inmemory"
	"github.com/rs/zerolog"
)

func newTracker(t *testing.T) *service.Tracker {
	t.Helper()
	s := store.New(inmemory.NewPersister(), domain.PersonalCategories, zerolog.Nop())
	if _, _, err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return service.NewTracker(s, nil, zerolog.Nop())
}

func run(t *testing.T, tr *service.Tracker, name string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := commands[name](context.Background(), tr, args, &out)
	return out.String(), err
}

func TestAddListDashboard(t *testing.T) {
	tr := newTracker(t)

	if _, err := run(t, tr, "add", "-desc", "Salary", "-amount", "100000", "-category", "Salary",
		"-type", "Income", "-mode", "BankTransfer", "-date", "2024-04-01"); err != nil {
		t.Fatalf("add income: %v", err)
	}
	if _, err := run(t, tr, "add", "-desc", "Groceries", "-amount", "2500", "-category", "Food & Drink",
		"-date", "2024-04-02"); err != nil {
		t.Fatalf("add expense: %v", err)
	}

	out, err := run(t, tr, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.Index(out, "Groceries") > strings.Index(out, "Salary") {
		t.Errorf("expected newest first:\n%s", out)
	}
	if !strings.Contains(out, "Bank Transfer") {
		t.Errorf("alias should be normalized:\n%s", out)
	}

	out, err = run(t, tr, "dashboard")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	for _, want := range []string{"Retention:     98%", "Burn rate:     3%", "Top income:    Salary"} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q:\n%s", want, out)
		}
	}
}

func TestAddUnknownCategory(t *testing.T) {
	tr := newTracker(t)
	out, err := run(t, tr, "add", "-desc", "Cement", "-amount", "10", "-category", "Raw Materials")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(out, "Valid categories:") {
		t.Errorf("expected category hint, got %q", out)
	}
}

func TestClearRequiresConfirmation(t *testing.T) {
	tr := newTracker(t)
	if _, err := run(t, tr, "clear"); err == nil {
		t.Fatal("expected clear without -yes to fail")
	}
	if _, err := run(t, tr, "clear", "-yes"); err != nil {
		t.Fatalf("clear -yes: %v", err)
	}
}

func TestProfileUpdate(t *testing.T) {
	tr := newTracker(t)
	out, err := run(t, tr, "profile", "-name", "Arjun", "-currency", "usd")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if !strings.Contains(out, "Arjun") || tr.Profile().Currency != "USD" {
		t.Errorf("profile not updated: %s", out)
	}
}

func TestChart(t *testing.T) {
	tr := newTracker(t)
	path := filepath.Join(t.TempDir(), "pie.png")

	if _, err := run(t, tr, "chart", "-out", path); err == nil {
		t.Fatal("expected no-data error on empty history")
	}

	if _, err := run(t, tr, "add", "-desc", "Movie", "-amount", "400", "-category", "Entertainment"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := run(t, tr, "chart", "-out", path); err != nil {
		t.Fatalf("chart: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("chart file not written: %v", err)
	}
}

func TestInsightDisabled(t *testing.T) {
	tr := newTracker(t)
	if _, err := run(t, tr, "insight"); err == nil {
		t.Fatal("expected error when insights are not configured")
	}
}
