package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/user/feed-harvester/internal/adapter/chromedp_browser"
	"github.com/user/feed-harvester/internal/adapter/postgres"
	redis_adapter "github.com/user/feed-harvester/internal/adapter/redis"
	"github.com/user/feed-harvester/internal/delivery/http/handler"
	"github.com/user/feed-harvester/internal/delivery/http/router"
	"github.com/user/feed-harvester/internal/extract"
	"github.com/user/feed-harvester/internal/proxy"
	"github.com/user/feed-harvester/internal/usecase"
	"github.com/user/feed-harvester/pkg/config"
	"github.com/user/feed-harvester/pkg/logger"
	"github.com/user/feed-harvester/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Could not load config", "error", err)
		os.Exit(1)
	}

	// --- Logger ---
	logLevel := logger.ParseLevel(cfg.LogLevel)
	logger.Init(os.Stdout, logLevel, cfg.LogFormat)
	slog.Info("Logger initialized", "level", logLevel.String())

	browserLog, err := logger.NewBrowserLogger(logLevel)
	if err != nil {
		slog.Error("Could not create browser logger", "error", err)
		os.Exit(1)
	}
	defer browserLog.Sync()

	// --- Metrics ---
	m := metrics.New(prometheus.DefaultRegisterer)
	slog.Info("Metrics initialized")

	// --- Database Connections ---
	ctx := context.Background()

	// PostgreSQL
	dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	if err := postgres.Migrate(ctx, dbpool); err != nil {
		slog.Error("Unable to migrate database", "error", err)
		os.Exit(1)
	}
	slog.Info("PostgreSQL connection pool established")

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		slog.Error("Unable to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()
	slog.Info("Redis connection established")

	// --- Repositories ---
	queueRepo := redis_adapter.NewQueueRepo(rdb)
	statusRepo := redis_adapter.NewJobStatusRepo(rdb)
	lockRepo := redis_adapter.NewGroupLockRepo(rdb)
	runRepo := postgres.NewRunRepo(dbpool)
	recordRepo := postgres.NewRecordRepo(dbpool)

	browser := chromedp_browser.NewBrowser(chromedp_browser.Config{
		Headless:    cfg.ChromeHeadless,
		UserDataDir: cfg.ChromeUserDataDir,
	}, proxy.NewManager(cfg.ProxyURLs, nil), browserLog)

	// --- Use Cases ---
	harvester := usecase.NewHarvestUseCase(browser, cfg.HarvestQueryEndpoint, extract.DefaultSchema, m)
	jobManager := usecase.NewJobManager(queueRepo, statusRepo, runRepo, recordRepo, usecase.JobManagerConfig{
		DefaultScrolls: cfg.HarvestScrolls,
		StatusTTL:      cfg.JobStatusTTL,
	}, m)
	processor := usecase.NewJobProcessor(queueRepo, statusRepo, runRepo, recordRepo, lockRepo, harvester, usecase.JobProcessorConfig{
		Options:    cfg.HarvestOptions(),
		OutputDir:  filepath.Clean(cfg.HarvestOutputDir),
		JobTimeout: cfg.HarvestTimeout,
		StatusTTL:  cfg.JobStatusTTL,
	}, m)

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	pool := usecase.NewWorkerPool(processor, cfg.HarvestWorkers, time.Second)
	pool.Start(workerCtx)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(jobManager, cfg.InsomniaBaseURL)
	httpRouter := router.New(apiHandler, m, prometheus.DefaultGatherer)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", "port", cfg.ServerPort, "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	// Running harvests return their partial results on cancellation.
	stopWorkers()
	pool.Stop()

	slog.Info("Server exiting")
}
