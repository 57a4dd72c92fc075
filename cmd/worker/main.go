package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/aurora-agency/aurora-backoffice/internal/app"
	"github.com/aurora-agency/aurora-backoffice/internal/forecast"
	"github.com/aurora-agency/aurora-backoffice/internal/fx"
	"github.com/aurora-agency/aurora-backoffice/internal/observability"
	"github.com/aurora-agency/aurora-backoffice/internal/platform/cache"
	"github.com/aurora-agency/aurora-backoffice/internal/platform/db"
	"github.com/aurora-agency/aurora-backoffice/internal/roster"
	"github.com/aurora-agency/aurora-backoffice/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	rosterRepo := roster.NewRepository(pool)
	forecastService := forecast.NewService(forecast.NewRepository(pool), rosterRepo, rates, forecast.Config{
		TrailingWindow: cfg.ForecastTrailingWeeks,
		PlatformFeePct: cfg.PlatformFeePct,
		Multipliers:    forecast.DefaultMultipliers(),
	}, logger)

	fxJob := jobs.NewFxRefreshJob(rates, logger, nil)
	warmupJob := jobs.NewForecastWarmupJob(forecastService, rosterRepo, logger, nil)

	warmupTask, err := jobs.NewForecastWarmupTask(jobs.ForecastWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskFxRefresh, Handler: fxJob.Handle},
			{Type: jobs.TaskForecastWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: jobs.FxRefreshSchedule(cfg.FxRefreshTTL), Task: jobs.NewFxRefreshTask(), Options: []asynq.Option{asynq.MaxRetry(2)}},
			{Spec: "30 1 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
