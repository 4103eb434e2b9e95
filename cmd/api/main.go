// cmd/api/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sellerops/profitkpi/internal/api"
	"github.com/sellerops/profitkpi/internal/cache"
	"github.com/sellerops/profitkpi/internal/config"
	"github.com/sellerops/profitkpi/internal/repository/postgres"
	"github.com/sellerops/profitkpi/internal/service"
	"github.com/sellerops/profitkpi/internal/storage"
	"github.com/sellerops/profitkpi/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.Setup(cfg.Server.LogLevel, cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Target persistence is optional; without it KPI reports require the
	// target workbook on every request.
	var targetRepo service.TargetRepository
	if cfg.Database.Enabled {
		db, err := postgres.NewDB(postgres.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()
		targetRepo = postgres.NewKPITargetRepository(db)
	}

	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("report cache unavailable, falling back to recomputation")
		reportCache = cache.NewNoopReportCache()
	}

	var archive storage.ObjectStorage
	if cfg.Archive.Enabled {
		client, err := storage.NewArchiveClient(cfg.Archive)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize export archive")
		}
		archive = client
	}

	profitService := service.NewProfitService(cfg, reportCache)
	kpiService := service.NewKPIService(profitService, targetRepo)
	labelService := service.NewLabelService()
	exportService := service.NewExportService(cfg.App.ExportDir, archive)

	router := api.NewRouter(&api.Services{
		ProfitService: profitService,
		KPIService:    kpiService,
		LabelService:  labelService,
		ExportService: exportService,
	}, cfg.App.UploadDir, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
