package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/aurora-agency/aurora-backoffice/internal/forecast"
	jobmetrics "github.com/aurora-agency/aurora-backoffice/internal/jobs"
	"github.com/aurora-agency/aurora-backoffice/internal/platform/httpx"
	"github.com/aurora-agency/aurora-backoffice/internal/roster"
	"github.com/aurora-agency/aurora-backoffice/internal/shared"
)

// ForecastWarmupJob recomputes every active model's forecasts for a month.
// Locked forecasts are left alone; an operator froze them on purpose.
type ForecastWarmupJob struct {
	Forecasts *forecast.Service
	Models    roster.Repository
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	clock     func() time.Time
}

// NewForecastWarmupJob wires dependencies for the warmup handler.
func NewForecastWarmupJob(forecasts *forecast.Service, models roster.Repository, logger *slog.Logger, metrics *jobmetrics.Metrics) *ForecastWarmupJob {
	return &ForecastWarmupJob{
		Forecasts: forecasts,
		Models:    models,
		Logger:    logger,
		Metrics:   metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes forecast warmup tasks.
func (j *ForecastWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Forecasts == nil || j.Models == nil {
		return errors.New("forecast warmup: handler not configured")
	}
	var payload ForecastWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.MonthKey == "" {
		payload.MonthKey = shared.MonthKey(j.now())
	}
	scenarios := scenarioList(payload.Scenarios)

	tracker := j.metrics().Track(TaskForecastWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("month", payload.MonthKey))
	logger.Info("starting forecast warmup")

	models, err := j.Models.List(ctx)
	if err != nil {
		resultErr = err
		logger.Error("load models", slog.Any("error", err))
		return resultErr
	}

	warmed, locked := 0, 0
	for _, m := range models {
		for _, scenario := range scenarios {
			_, err := j.Forecasts.Recompute(ctx, m.ID, payload.MonthKey, scenario)
			switch {
			case err == nil:
				warmed++
			case errors.Is(err, httpx.ErrLocked):
				locked++
			default:
				resultErr = err
				logger.Error("recompute forecast",
					slog.String("model_id", m.ID),
					slog.String("scenario", string(scenario)),
					slog.Any("error", err))
				return resultErr
			}
		}
	}

	logger.Info("forecast warmup complete", slog.Int("warmed", warmed), slog.Int("locked", locked))
	return resultErr
}

func scenarioList(names []string) []forecast.Scenario {
	if len(names) == 0 {
		return []forecast.Scenario{forecast.ScenarioExpected, forecast.ScenarioConservative, forecast.ScenarioAggressive}
	}
	out := make([]forecast.Scenario, 0, len(names))
	for _, n := range names {
		out = append(out, forecast.Scenario(n))
	}
	return out
}

func (j *ForecastWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *ForecastWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *ForecastWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
