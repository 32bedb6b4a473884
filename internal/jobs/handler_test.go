package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/dvloznov/wealthsense/internal/domain"
	"github.com/dvloznov/wealthsense/internal/service"
	"github.com/rs/zerolog"
)

type mockRefresher struct {
	held service.HeldInsight
	err  error
}

func (m *mockRefresher) RefreshInsight(ctx context.Context) (service.HeldInsight, error) {
	return m.held, m.err
}

type otherJob struct{}

func (otherJob) GetID() string        { return "x" }
func (otherJob) GetType() JobType     { return "other" }
func (otherJob) GetStatus() JobStatus { return JobStatusPending }

func TestRefreshInsightHandler(t *testing.T) {
	insight := domain.SpendingInsight{Summary: "ok", Suggestions: []string{"a"}, RiskLevel: domain.RiskMedium}

	t.Run("success records insight", func(t *testing.T) {
		h := NewRefreshInsightHandler(&mockRefresher{held: service.HeldInsight{Insight: insight}}, zerolog.Nop())
		job := &RefreshInsightJob{JobID: "j1"}
		if err := h(context.Background(), job); err != nil {
			t.Fatalf("handler: %v", err)
		}
		if job.Insight == nil || job.Insight.RiskLevel != domain.RiskMedium {
			t.Errorf("insight not recorded: %+v", job.Insight)
		}
	})

	t.Run("failure is returned", func(t *testing.T) {
		boom := errors.New("boom")
		h := NewRefreshInsightHandler(&mockRefresher{err: boom}, zerolog.Nop())
		job := &RefreshInsightJob{JobID: "j2"}
		if err := h(context.Background(), job); !errors.Is(err, boom) {
			t.Fatalf("got %v, want boom", err)
		}
		if job.Insight != nil {
			t.Error("failed job must not carry an insight")
		}
	})

	t.Run("unsupported job", func(t *testing.T) {
		h := NewRefreshInsightHandler(&mockRefresher{}, zerolog.Nop())
		if err := h(context.Background(), otherJob{}); err == nil {
			t.Fatal("expected error for unsupported job")
		}
	})
}
