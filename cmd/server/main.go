package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ordersight/backend-go/internal/api"
	"github.com/ordersight/backend-go/internal/cache"
	"github.com/ordersight/backend-go/internal/config"
	"github.com/ordersight/backend-go/internal/repository/postgres"
	"github.com/ordersight/backend-go/internal/service"
	"github.com/ordersight/backend-go/internal/storage"
	"github.com/ordersight/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		cancel()
		logger.Log.Fatal().Err(err).Msg("Failed to ensure schema")
	}
	cancel()

	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Report cache unavailable, continuing without caching")
		reportCache = cache.NewNoopReportCache()
	}

	var archive storage.ObjectStorage
	if cfg.Archive.Enabled {
		client, err := storage.NewMinioClient(cfg.Archive)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Upload archive unavailable, continuing without archiving")
		} else {
			bucketCtx, bucketCancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := client.EnsureBucket(bucketCtx); err != nil {
				logger.Log.Warn().Err(err).Msg("Archive bucket unavailable, continuing without archiving")
			} else {
				archive = client
			}
			bucketCancel()
		}
	}

	orderRepo := postgres.NewOrderRepository(db)
	jobRepo := postgres.NewImportJobRepository(db)
	analyticsRepo := postgres.NewAnalyticsRepository(db)

	importService := service.NewImportService(orderRepo, jobRepo, reportCache, archive, cfg.Import)
	reportService := service.NewReportService(analyticsRepo, orderRepo, reportCache)

	router := api.NewRouter(&api.Services{
		ImportService: importService,
		ReportService: reportService,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
