package jobs

import (
	"context"
	"fmt"

	"github.com/dvloznov/wealthsense/internal/service"
	"github.com/rs/zerolog"
)

// InsightRefresher is the part of service.Tracker the worker needs.
type InsightRefresher interface {
	RefreshInsight(ctx context.Context) (service.HeldInsight, error)
}

// NewRefreshInsightHandler returns a JobHandler that refreshes the held
// insight and records the result on the job.
func NewRefreshInsightHandler(r InsightRefresher, log zerolog.Logger) JobHandler {
	return func(ctx context.Context, job Job) error {
		j, ok := job.(*RefreshInsightJob)
		if !ok {
			return fmt.Errorf("unsupported job type %q", job.GetType())
		}

		jobLog := log.With().Str("job_id", j.JobID).Int("retry", j.RetryCount).Logger()
		jobLog.Info().Msg("Refreshing spending insight")

		held, err := r.RefreshInsight(ctx)
		if err != nil {
			jobLog.Error().Err(err).Msg("Insight refresh failed")
			return err
		}

		insight := held.Insight
		j.Insight = &insight
		jobLog.Info().Str("risk_level", string(insight.RiskLevel)).Msg("Insight refreshed")
		return nil
	}
}
