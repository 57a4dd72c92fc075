package jobs

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	fxCalls     int
	warmupCalls int
	lastPayload ForecastWarmupPayload
}

func (f *fakeEnqueuer) EnqueueFxRefresh(context.Context) (*asynq.TaskInfo, error) {
	f.fxCalls++
	return &asynq.TaskInfo{ID: "fx-1"}, nil
}

func (f *fakeEnqueuer) EnqueueForecastWarmup(_ context.Context, payload ForecastWarmupPayload) (*asynq.TaskInfo, error) {
	f.warmupCalls++
	f.lastPayload = payload
	return &asynq.TaskInfo{ID: "warmup-1"}, nil
}

func newTestRouter(enq Enqueuer) chi.Router {
	h := NewHandler(nil, enq, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Route("/jobs", h.MountRoutes)
	return r
}

func TestHealthWithoutInspector(t *testing.T) {
	r := newTestRouter(nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"queue":"default","pending":0}`, rec.Body.String())
}

func TestTriggerFxRefresh(t *testing.T) {
	enq := &fakeEnqueuer{}
	r := newTestRouter(enq)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/fx-refresh", nil))

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, 1, enq.fxCalls)
	require.Contains(t, rec.Body.String(), "fx-1")
}

func TestTriggerForecastWarmupWithPayload(t *testing.T) {
	enq := &fakeEnqueuer{}
	r := newTestRouter(enq)

	body := strings.NewReader(`{"month_key":"2025-03","scenarios":["expected"]}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/forecast-warmup", body))

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, 1, enq.warmupCalls)
	require.Equal(t, "2025-03", enq.lastPayload.MonthKey)
	require.Equal(t, []string{"expected"}, enq.lastPayload.Scenarios)
}

func TestTriggerForecastWarmupEmptyBody(t *testing.T) {
	enq := &fakeEnqueuer{}
	r := newTestRouter(enq)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/forecast-warmup", nil))

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, ForecastWarmupPayload{}, enq.lastPayload)
}

func TestTriggerWithoutEnqueuerUnavailable(t *testing.T) {
	r := newTestRouter(nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs/fx-refresh", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestFxRefreshSchedule(t *testing.T) {
	require.Equal(t, "@every 10m0s", FxRefreshSchedule(10*time.Minute))
	require.Equal(t, "@every 1h30m0s", FxRefreshSchedule(90*time.Minute))
	// A broken TTL falls back to the default cadence.
	require.Equal(t, "@every 10m0s", FxRefreshSchedule(0))
}
