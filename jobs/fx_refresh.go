package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/aurora-agency/aurora-backoffice/internal/fx"
	jobmetrics "github.com/aurora-agency/aurora-backoffice/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// FxRefreshJob forces a rate cache refresh ahead of TTL expiry so request
// paths rarely pay the feed round-trip.
type FxRefreshJob struct {
	Rates   *fx.RateCache
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewFxRefreshJob wires dependencies for the refresh handler.
func NewFxRefreshJob(rates *fx.RateCache, logger *slog.Logger, metrics *jobmetrics.Metrics) *FxRefreshJob {
	return &FxRefreshJob{Rates: rates, Logger: logger, Metrics: metrics}
}

// Handle processes fx refresh tasks.
func (j *FxRefreshJob) Handle(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Rates == nil {
		return errors.New("fx refresh: handler not configured")
	}

	tracker := j.metrics().Track(TaskFxRefresh)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	rate := j.Rates.Refresh(ctx)
	j.logger().Info("fx rate refreshed", slog.Float64("eur_per_usd", rate))
	return resultErr
}

func (j *FxRefreshJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *FxRefreshJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
