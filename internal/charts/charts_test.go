package charts

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/wealthsense/internal/analytics"
	"github.com/dvloznov/wealthsense/internal/domain"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sample() []domain.Transaction {
	d := func(day int) civil.Date { return civil.Date{Year: 2024, Month: time.March, Day: day} }
	return []domain.Transaction{
		{ID: "1", Description: "Salary", Amount: 50000, Category: "Salary", Type: domain.TypeIncome, PaymentMode: domain.ModeBankTransfer, Date: d(3)},
		{ID: "2", Description: "Groceries", Amount: 3200, Category: "Food & Drink", Type: domain.TypeExpense, PaymentMode: domain.ModeUPI, Date: d(2)},
		{ID: "3", Description: "Metro card", Amount: 500, Category: "Transport", Type: domain.TypeExpense, PaymentMode: domain.ModeCard, Date: d(1)},
	}
}

func TestCategoryPie(t *testing.T) {
	g := NewGenerator("INR")
	img, err := g.CategoryPie(analytics.CategoryBreakdown(sample()))
	if err != nil {
		t.Fatalf("CategoryPie: %v", err)
	}
	if !bytes.HasPrefix(img, pngMagic) {
		t.Error("expected PNG output")
	}
}

func TestDailyFlow(t *testing.T) {
	g := NewGenerator("INR")
	img, err := g.DailyFlow(analytics.Ledger(sample()))
	if err != nil {
		t.Fatalf("DailyFlow: %v", err)
	}
	if !bytes.HasPrefix(img, pngMagic) {
		t.Error("expected PNG output")
	}
}

func TestDailyFlow_SingleDay(t *testing.T) {
	g := NewGenerator("USD")
	img, err := g.DailyFlow(analytics.Ledger(sample()[:1]))
	if err != nil {
		t.Fatalf("DailyFlow: %v", err)
	}
	if !bytes.HasPrefix(img, pngMagic) {
		t.Error("expected PNG output")
	}
}

func TestNoData(t *testing.T) {
	g := NewGenerator("INR")
	if _, err := g.CategoryPie(nil); !errors.Is(err, ErrNoData) {
		t.Errorf("CategoryPie: got %v, want ErrNoData", err)
	}
	if _, err := g.DailyFlow(nil); !errors.Is(err, ErrNoData) {
		t.Errorf("DailyFlow: got %v, want ErrNoData", err)
	}
	incomeOnly := sample()[:1]
	if _, err := g.CategoryPie(analytics.CategoryBreakdown(incomeOnly)); !errors.Is(err, ErrNoData) {
		t.Errorf("income-only breakdown: got %v, want ErrNoData", err)
	}
}
