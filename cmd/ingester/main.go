package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/data-drive/config"
	"github.com/ErlanBelekov/data-drive/internal/health"
	"github.com/ErlanBelekov/data-drive/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/data-drive/internal/log"
	"github.com/ErlanBelekov/data-drive/internal/marketdata"
	"github.com/ErlanBelekov/data-drive/internal/metrics"
	"github.com/ErlanBelekov/data-drive/internal/scheduler"
	"github.com/ErlanBelekov/data-drive/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := ctxlog.New(os.Stdout, cfg.Env, cfg.SlogLevel())

	if cfg.IngestURL == "" {
		logger.Info("INGEST_URL is empty, scheduled ingestion disabled")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	logger.Info("db connected")

	metrics.Register()
	checker := health.NewChecker(logger, prometheus.DefaultRegisterer, health.Dependency{Name: "postgres", Pinger: pool})

	marketUsecase := usecase.NewMarketUsecase(postgres.NewSnapshotRepository(pool), marketdata.NewClient(cfg.IngestTimeout))

	ingester, err := scheduler.NewIngester(marketUsecase, logger, cfg.IngestCron, cfg.IngestURL)
	if err != nil {
		stop()
		pool.Close()
		log.Fatalf("ingester: %v", err)
	}
	go ingester.Start(ctx)

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)
	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}

	logger.Info("ingester shut down")
}
