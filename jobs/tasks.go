// Package jobs holds the background task definitions and the Asynq worker
// that runs them: periodic FX rate refresh and nightly forecast warmup.
package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"

	// TaskFxRefresh re-fetches the EUR-per-USD rate from the feed and
	// refreshes the cache and its snapshot.
	TaskFxRefresh = "fx:refresh"

	// TaskForecastWarmup recomputes stored forecasts for active models so
	// morning reads hit fresh projections.
	TaskForecastWarmup = "forecast:warmup"
)

// NewFxRefreshTask constructs the FX refresh task. It carries no payload;
// the rate cache knows its own feed.
func NewFxRefreshTask() *asynq.Task {
	return asynq.NewTask(TaskFxRefresh, nil)
}

// FxRefreshSchedule renders the scheduler entry matching the cache TTL, so
// the warm-ahead cron and the lazy in-request refresh share one cadence.
func FxRefreshSchedule(ttl time.Duration) string {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return "@every " + ttl.String()
}

// ForecastWarmupPayload narrows the warmup to specific scenarios. An empty
// scenario list means all of them.
type ForecastWarmupPayload struct {
	MonthKey  string   `json:"month_key"`
	Scenarios []string `json:"scenarios,omitempty"`
}

// NewForecastWarmupTask constructs the forecast warmup task.
func NewForecastWarmupTask(payload ForecastWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskForecastWarmup, data), nil
}
