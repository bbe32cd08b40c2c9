package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkotas/flashdeck/internal/api"
	"github.com/mkotas/flashdeck/internal/config"
	"github.com/mkotas/flashdeck/internal/db"
	"github.com/mkotas/flashdeck/internal/jobs"
	"github.com/mkotas/flashdeck/internal/logger"
	"github.com/mkotas/flashdeck/internal/repository/sqlite"
	"github.com/mkotas/flashdeck/internal/services"
	"github.com/mkotas/flashdeck/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Flashdeck Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("import_worker_count=%d", cfg.ImportWorkerCount)
	log.Debug("import_queue_size=%d", cfg.ImportQueueSize)
	log.Debug("sweep_interval=%s", cfg.SweepInterval)
	log.Debug("session_idle_timeout=%s", cfg.SessionIdleFor)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	deckRepo := sqlite.NewDeckRepository(database.DB)
	cardRepo := sqlite.NewCardRepository(database.DB)
	progressRepo := sqlite.NewProgressRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)
	tagRepo := sqlite.NewTagRepository(database.DB)
	folderRepo := sqlite.NewFolderRepository(database.DB)
	usageRepo := sqlite.NewUsageRepository(database.DB)

	// Worker pool for CSV imports
	importPool := worker.NewPool(cfg.ImportWorkerCount, cfg.ImportQueueSize)

	// Services
	deckService := services.NewDeckService(deckRepo, folderRepo)
	cardService := services.NewCardService(deckRepo, cardRepo, importPool)
	studyService := services.NewStudyService(deckRepo, cardRepo, progressRepo, sessionRepo)
	sessionService := services.NewSessionService(deckRepo, sessionRepo, statsRepo)
	tagService := services.NewTagService(deckRepo, tagRepo)
	folderService := services.NewFolderService(folderRepo)
	usageService := services.NewUsageService(usageRepo)

	srv := &api.Server{
		Decks:    deckService,
		Cards:    cardService,
		Study:    studyService,
		Sessions: sessionService,
		Tags:     tagService,
		Folders:  folderService,
		Usage:    usageService,
	}

	ctx, cancel := context.WithCancel(context.Background())
	importPool.Start(ctx)

	sweeper := jobs.NewSweeper(sessionService, cfg.SweepInterval, cfg.SessionIdleFor)
	if err := sweeper.Start(); err != nil {
		log.Error("failed to start session sweeper: %v", err)
		os.Exit(1)
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping background jobs")
	cancel()
	sweeper.Stop()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping import pool")
	importPool.Stop()

	log.Info("===========================================")
	log.Info("Flashdeck Server Stopped")
	log.Info("===========================================")
}
