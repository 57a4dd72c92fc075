package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/aurora-agency/aurora-backoffice/internal/app"
	"github.com/aurora-agency/aurora-backoffice/internal/basis"
	"github.com/aurora-agency/aurora-backoffice/internal/forecast"
	"github.com/aurora-agency/aurora-backoffice/internal/fx"
	"github.com/aurora-agency/aurora-backoffice/internal/observability"
	"github.com/aurora-agency/aurora-backoffice/internal/payout"
	"github.com/aurora-agency/aurora-backoffice/internal/platform/cache"
	"github.com/aurora-agency/aurora-backoffice/internal/platform/db"
	"github.com/aurora-agency/aurora-backoffice/internal/pnl"
	"github.com/aurora-agency/aurora-backoffice/internal/roster"
	"github.com/aurora-agency/aurora-backoffice/internal/team"
	"github.com/aurora-agency/aurora-backoffice/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// The rate cache degrades to its fallback without redis; keep a
		// client around so the snapshot heals once redis returns.
		logger.Warn("redis unavailable at startup", slog.Any("error", err))
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	rates := fx.NewRateCache(
		fx.NewECBClient(cfg.FxFeedURL),
		cfg.FxFallbackRate,
		cfg.FxRefreshTTL,
		logger,
		fx.WithSnapshot(redisClient),
		fx.WithFallbackCounter(metrics),
	)

	teamRepo := team.NewRepository(pool)
	rosterRepo := roster.NewRepository(pool)
	basisRepo := basis.NewRepository(pool)

	payoutService := payout.NewService(
		payout.NewRepository(pool), basisRepo, teamRepo, rosterRepo,
		rates, metrics, cfg.PlatformFeePct, logger)
	payoutHandler := payout.NewHandler(logger, payoutService)

	pnlHandler := pnl.NewHandler(logger, pnl.NewRepository(pool), pnl.Settings{
		PlatformFeePct:  cfg.PlatformFeePct,
		MarginGreenPct:  cfg.MarginGreenPct,
		MarginYellowPct: cfg.MarginYellowPct,
	})

	forecastService := forecast.NewService(forecast.NewRepository(pool), rosterRepo, rates, forecast.Config{
		TrailingWindow: cfg.ForecastTrailingWeeks,
		PlatformFeePct: cfg.PlatformFeePct,
		Multipliers:    forecast.DefaultMultipliers(),
	}, logger)
	forecastHandler := forecast.NewHandler(logger, forecastService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobsClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		PayoutHandler:   payoutHandler,
		PnlHandler:      pnlHandler,
		ForecastHandler: forecastHandler,
		RosterHandler:   roster.NewHandler(logger, rosterRepo),
		TeamHandler:     team.NewHandler(logger, teamRepo),
		JobHandler:      jobHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
