// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subscription-tracker/internal/config"
	"subscription-tracker/internal/domain/ports/repository"
	"subscription-tracker/internal/domain/validation"
	"subscription-tracker/internal/infra/api"
	pg "subscription-tracker/internal/infra/db/postgres"
	"subscription-tracker/internal/infra/logging"
	"subscription-tracker/internal/infra/metrics"
	red "subscription-tracker/internal/infra/redis"
	"subscription-tracker/internal/usecase"
)

// set via -ldflags "-X main.version=... -X main.commit=..."
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, no redaction)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled")
	}

	// ---- Metrics ----
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	go pg.ReportPoolStats(ctx, pool, 15*time.Second)

	// ---- Repositories ----
	var subRepo repository.SubscriptionRepository = pg.NewSubscriptionRepo(pool)
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		subRepo = pg.NewSubscriptionRepoCacheDecorator(subRepo, redisClient, cfg.Redis.TTL, logger)
		logger.Info().Str("addr", cfg.Redis.URL).Dur("ttl", cfg.Redis.TTL).Msg("subscription cache enabled")
	}
	tm := pg.NewTxManager(pool)

	// ---- Use cases ----
	subUC := usecase.NewSubscriptionUseCase(subRepo, tm, validation.New(), logger,
		usecase.WithDevMode(cfg.Runtime.Dev))

	// ---- HTTP API ----
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      api.NewServer(subUC, logger, api.WithBatchWorkers(cfg.Validation.Workers)).Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Str("version", version).Msg("http api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
