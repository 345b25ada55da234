package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"nubit-transcribe/backend/internal/config"
	"nubit-transcribe/backend/internal/db"
	"nubit-transcribe/backend/internal/handlers"
	"nubit-transcribe/backend/internal/jobs"
	"nubit-transcribe/backend/internal/llm"
	"nubit-transcribe/backend/internal/logging"
	"nubit-transcribe/backend/internal/metrics"
	"nubit-transcribe/backend/internal/middleware"
	"nubit-transcribe/backend/internal/realtime"
	"nubit-transcribe/backend/internal/router"
	"nubit-transcribe/backend/internal/transcribe"
)

func main() {
	cfg := config.Load(".env")

	format := cfg.LogFormat
	if cfg.IsProduction() {
		format = "json"
	}
	logger := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		Format:      format,
		Service:     "nubit-server",
		Environment: cfg.Environment,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	var registry *db.Store
	if cfg.DatabaseURL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		store, err := db.New(connectCtx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			logger.Warn().Err(err).Msg("provider registry unavailable, using environment providers only")
		} else {
			registry = store
			defer registry.Close()
		}
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		client, err := db.NewRedis(connectCtx, cfg.RedisURL)
		cancel()
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, background jobs and analysis cache disabled")
		} else {
			rdb = client
			defer rdb.Close()
		}
	}

	backend, err := transcribe.New(cfg, "")
	if err != nil {
		logger.Fatal().Err(err).Msg("transcription backend")
	}

	llmRouter := llm.NewRouter(llm.NewFactory(), llm.NewProviderStore(cfg, registry))
	service := llm.NewService(llmRouter, nil, m, logger.With().Str("component", "llm").Logger())
	monitor := llm.NewHealthMonitor(llmRouter, m, logger.With().Str("component", "health").Logger(), cfg.HealthInterval)
	go monitor.Run(ctx)

	hub := realtime.NewHub()
	realtime.Upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == cfg.FrontendOrigin
		},
	}

	api := &handlers.API{
		Config:      cfg,
		Transcriber: backend,
		Analyzer:    service,
		Monitor:     monitor,
		Hub:         hub,
		Metrics:     m,
		Logger:      logger.With().Str("component", "api").Logger(),
	}

	var scheduler jobs.Scheduler
	if rdb != nil {
		service.Cache = llm.NewRedisCache(rdb, cfg.AnalysisCacheTTL)
		store := jobs.NewStore(rdb, cfg.JobTTL)
		queue := jobs.NewQueue(rdb)
		api.Jobs = &jobs.Manager{Store: store, Queue: queue, Metrics: m}
		scheduler.Start(ctx, cfg.Workers, func(id int) *jobs.Worker {
			return &jobs.Worker{
				Queue:       queue,
				Store:       store,
				Transcriber: backend,
				Analyzer:    service,
				Hub:         hub,
				Metrics:     m,
				Logger:      logger.With().Str("component", "worker").Int("worker", id).Logger(),
			}
		})
	}

	proxies, err := middleware.NewProxyTrust(cfg.TrustedProxies)
	if err != nil {
		logger.Warn().Err(err).Msg("ignoring TRUSTED_PROXIES; forwarded headers will not be trusted")
		proxies = nil
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	rt := router.New(api, limiter, proxies, cfg.FrontendOrigin, m.Handler())

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.Observe(rt, logger.With().Str("component", "http").Logger(), m, router.Route),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      35 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("backend", backend.Name()).Bool("jobs", rdb != nil).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	shutdown(logger, server, &scheduler)
}

func shutdown(logger zerolog.Logger, server *http.Server, scheduler *jobs.Scheduler) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
	scheduler.Wait()
	logger.Info().Msg("server stopped")
}
