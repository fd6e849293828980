package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/urjaconsultants/lead-pipeline/internal/config"
	"github.com/urjaconsultants/lead-pipeline/internal/healthcheck"
	"github.com/urjaconsultants/lead-pipeline/internal/httpapi"
	"github.com/urjaconsultants/lead-pipeline/internal/ingest"
	"github.com/urjaconsultants/lead-pipeline/internal/observer"
	"github.com/urjaconsultants/lead-pipeline/internal/storage"
	"github.com/urjaconsultants/lead-pipeline/internal/usecase"
	"github.com/urjaconsultants/lead-pipeline/pkg/logger"
	"github.com/urjaconsultants/lead-pipeline/pkg/utils"
)

func main() {
	// Set timezone to UTC
	time.Local = time.UTC

	// Load configuration
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	metricsEnabled := cfg.Metrics.Enabled
	observer.InitMetrics(metricsEnabled)

	logger.Log.Info("Starting lead pipeline",
		zap.String("environment", cfg.Environment),
		zap.Int("port", cfg.Server.Port),
	)

	// Initialize storage. Without a DSN the service runs fully in memory,
	// which is what local development and the demo data set use.
	var (
		leadRepo storage.LeadRepo
		kvStore  storage.KVStore
	)
	if cfg.Database.PostgresDSN != "" {
		postgresRepo, err := storage.NewPostgresRepo(cfg.Database.PostgresDSN, cfg.Database.PostgresAutoMigrate)
		if err != nil {
			logger.Log.Fatal("Failed to initialize Postgres repository", zap.Error(err))
		}
		leadRepo = postgresRepo
		kvStore = postgresRepo
	} else {
		logger.Log.Warn("No database configured, using in-memory storage")
		leadRepo = storage.NewMemoryRepo()
		kvStore = storage.NewMemoryKV()
	}

	// Snapshot worker: debounced full-dataset flushes into the KV store.
	snapshotWorker, err := usecase.NewSnapshotWorker(
		cfg.Persistence.Worker,
		cfg.Persistence.Debounce,
		leadRepo,
		kvStore,
		logger.Log,
	)
	if err != nil {
		logger.Log.Fatal("Failed to initialize snapshot worker pool", zap.Error(err))
	}

	importer := ingest.NewImporter(leadRepo, cfg.Import.MaxRows)
	allowPurge := cfg.Environment != "production"
	service := usecase.NewLeadService(leadRepo, kvStore, importer, snapshotWorker, allowPurge)

	// Health check server on the metrics port
	healthServer := healthcheck.NewServer(strconv.Itoa(cfg.Metrics.Port), logger.Log)
	healthServer.RegisterCheck("storage", func(ctx context.Context) error {
		_, err := leadRepo.FindAll(ctx)
		return err
	})
	if metricsEnabled {
		healthServer.RegisterMetricsHandler(promhttp.Handler())
		logger.Log.Info("Metrics endpoint enabled", zap.String("path", "/metrics"), zap.Int("port", cfg.Metrics.Port))
	}
	healthServer.Start()

	// API server
	apiServer := httpapi.NewServer(cfg.Server.Port, service, cfg.Import.MaxFileBytes, logger.Log)
	apiServer.Start()

	logger.Log.Info("Endpoints available",
		zap.String("api", fmt.Sprintf("http://localhost:%d/api/leads", cfg.Server.Port)),
		zap.String("health", fmt.Sprintf("http://localhost:%d/health", cfg.Metrics.Port)),
	)

	// Wait for termination signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Log.Info("Received termination signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Log.Info("Starting graceful shutdown", zap.Duration("timeout", 30*time.Second))

	var wg sync.WaitGroup
	wg.Add(3)

	utils.SafeGo(func() {
		defer wg.Done()
		logger.Log.Info("[shutdown] Stopping API server")
		if err := apiServer.Stop(shutdownCtx); err != nil {
			logger.Log.Error("[shutdown] Failed to stop API server", zap.Error(err))
		}
	}, func(r interface{}, stack []byte) {
		logger.Log.Error("[shutdown] Panic while stopping API server",
			zap.Any("panic", r),
			zap.ByteString("stack", stack),
		)
		wg.Done()
	})

	utils.SafeGo(func() {
		defer wg.Done()
		logger.Log.Info("[shutdown] Flushing final snapshot and stopping worker")
		if err := snapshotWorker.Flush(shutdownCtx); err != nil {
			logger.Log.Error("[shutdown] Final snapshot flush failed", zap.Error(err))
		}
		snapshotWorker.Stop()
	}, func(r interface{}, stack []byte) {
		logger.Log.Error("[shutdown] Panic while stopping snapshot worker",
			zap.Any("panic", r),
			zap.ByteString("stack", stack),
		)
		wg.Done()
	})

	utils.SafeGo(func() {
		defer wg.Done()
		logger.Log.Info("[shutdown] Stopping health check server")
		if err := healthServer.Stop(shutdownCtx); err != nil {
			logger.Log.Error("[shutdown] Failed to stop health check server", zap.Error(err))
		}
	}, func(r interface{}, stack []byte) {
		logger.Log.Error("[shutdown] Panic while stopping health check server",
			zap.Any("panic", r),
			zap.ByteString("stack", stack),
		)
		wg.Done()
	})

	// Wait for components, then close storage last
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Log.Info("All components stopped")
	case <-shutdownCtx.Done():
		logger.Log.Warn("Shutdown timed out, forcing exit")
	}

	if err := leadRepo.Close(shutdownCtx); err != nil {
		logger.Log.Error("Failed to close storage", zap.Error(err))
	}

	logger.Log.Info("Shutdown complete")
}
