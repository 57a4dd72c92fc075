package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/aurora-agency/aurora-backoffice/internal/forecast"
	"github.com/aurora-agency/aurora-backoffice/internal/observability"
	"github.com/aurora-agency/aurora-backoffice/internal/payout"
	"github.com/aurora-agency/aurora-backoffice/internal/pnl"
	"github.com/aurora-agency/aurora-backoffice/internal/roster"
	"github.com/aurora-agency/aurora-backoffice/internal/team"
	"github.com/aurora-agency/aurora-backoffice/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	PayoutHandler   *payout.Handler
	PnlHandler      *pnl.Handler
	ForecastHandler *forecast.Handler
	RosterHandler   *roster.Handler
	TeamHandler     *team.Handler
	JobHandler      *jobs.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with Aurora defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.PayoutHandler != nil {
		r.Route("/payouts", params.PayoutHandler.MountRoutes)
	}
	if params.PnlHandler != nil {
		r.Route("/pnl", params.PnlHandler.MountRoutes)
	}
	if params.ForecastHandler != nil {
		r.Route("/forecasts", params.ForecastHandler.MountRoutes)
	}
	if params.RosterHandler != nil {
		r.Route("/models", params.RosterHandler.MountRoutes)
	}
	if params.TeamHandler != nil {
		r.Route("/team", params.TeamHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
