package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/ordersight/backend-go/internal/cache"
	"github.com/ordersight/backend-go/internal/config"
	"github.com/ordersight/backend-go/internal/drive"
	"github.com/ordersight/backend-go/internal/repository/postgres"
	"github.com/ordersight/backend-go/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	driveService, err := drive.NewService(cfg.Drive.CredentialsJSON)
	if err != nil {
		log.Fatalf("Failed to initialize Google Drive service: %v", err)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	cancel()

	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		log.Printf("warning: report cache unavailable: %v", err)
		reportCache = cache.NewNoopReportCache()
	}

	importService := service.NewImportService(
		postgres.NewOrderRepository(db),
		postgres.NewImportJobRepository(db),
		reportCache,
		nil,
		cfg.Import,
	)
	ingestService := drive.NewIngestService(driveService, importService)

	r := mux.NewRouter()

	driveHandler := drive.NewHandler(driveService, ingestService)
	driveHandler.RegisterRoutes(r)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Drive sync service starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
