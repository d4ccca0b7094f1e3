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
	"github.com/ErlanBelekov/data-drive/internal/auth"
	"github.com/ErlanBelekov/data-drive/internal/health"
	"github.com/ErlanBelekov/data-drive/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/data-drive/internal/log"
	"github.com/ErlanBelekov/data-drive/internal/marketdata"
	"github.com/ErlanBelekov/data-drive/internal/metrics"
	httptransport "github.com/ErlanBelekov/data-drive/internal/transport/http"
	"github.com/ErlanBelekov/data-drive/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := ctxlog.New(os.Stdout, cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if cfg.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool); err != nil {
			stop()
			pool.Close()
			log.Fatalf("migrate: %v", err)
		}
		logger.Info("migrations applied")
	}

	// Auth
	authCfg := cfg.AuthConfig()
	issuer, err := auth.NewIssuer(authCfg)
	if err != nil {
		stop()
		pool.Close()
		log.Fatalf("token issuer: %v", err)
	}
	verifier, err := auth.NewVerifier(authCfg, logger)
	if err != nil {
		stop()
		pool.Close()
		log.Fatalf("token verifier: %v", err)
	}
	userRepo := postgres.NewUserRepository(pool)
	authUsecase := usecase.NewAuthUsecase(userRepo, auth.NewBcryptHasher(cfg.BcryptCost), issuer, verifier, authCfg.AccessTTL())

	// Market data
	snapshotRepo := postgres.NewSnapshotRepository(pool)
	marketUsecase := usecase.NewMarketUsecase(snapshotRepo, marketdata.NewClient(cfg.IngestTimeout))

	metrics.Register()
	checker := health.NewChecker(logger, prometheus.DefaultRegisterer, health.Dependency{Name: "postgres", Pinger: pool})

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httptransport.NewRouter(logger, authUsecase, marketUsecase, cfg.AllowedOrigins, cfg.Env != "local"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "token_ttl", authCfg.AccessTTL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}
