package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/api"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/cache"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/config"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/database"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/logger"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/scheduler"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info").Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.Log.Level)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		schemaVersion, err := database.Migrate(context.Background(), db)
		if err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		log.WithField("schema_version", schemaVersion).Info("database schema up to date")
	}

	log.WithField("path", cfg.Database.Path).Info("connected to database")

	// Create repositories
	ledgerRepo := repository.NewLedgerRepository(db, log)
	priceRepo := repository.NewPriceRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	dashboardService := service.NewDashboardService(
		ledgerRepo,
		priceRepo,
		cache.New(),
		cfg.Dashboard.CacheTTL,
		log,
	)

	var refreshJob *scheduler.Scheduler
	if cfg.Dashboard.RefreshSchedule != "" {
		refreshJob, err = scheduler.New(cfg.Dashboard.RefreshSchedule, dashboardService, time.Minute, log)
		if err != nil {
			log.Fatalf("Failed to create refresh scheduler: %v", err)
		}
		refreshJob.Start()
		log.WithField("schedule", cfg.Dashboard.RefreshSchedule).Info("dashboard refresh scheduled")
	}

	router := api.NewRouter(systemService, dashboardService, cfg, log)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"addr":    cfg.Server.Addr,
			"version": version.Version,
		}).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if refreshJob != nil {
		select {
		case <-refreshJob.Stop().Done():
		case <-ctx.Done():
		}
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("server exited")
}
