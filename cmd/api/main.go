package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/xpanvictor/lecturenotes/internal/app"
	"github.com/xpanvictor/lecturenotes/internal/config"
	"github.com/xpanvictor/lecturenotes/internal/database"
	"github.com/xpanvictor/lecturenotes/internal/server"
	"github.com/xpanvictor/lecturenotes/pkg/Logger"
)

// @title Lecture Notes API
// @version 1.0
// @description Upload lecture recordings and get cleaned transcripts, summaries, review questions and translations.
// @BasePath /api/v1

// This is the main entry point for the API server.
// Runs the HTTP API and, when the scheduler is enabled, the lecture worker.
func main() {
	// fetch cfg
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// load global logger
	logger := Logger.BuildLogger(cfg.Debug, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	logger.Infof("Logger initialized (env: %s)", cfg.Env)

	// fetch database connection
	db, err := database.NewMySQL(cfg.DB, cfg.Debug)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	// handle migrations
	if err := database.MigrateDB(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	rc, err := database.NewRedis(cfg.Redis)
	if err != nil {
		if cfg.Scheduler.Enabled {
			logger.Fatalf("Redis is required by the scheduler: %v", err)
		}
		logger.Warnf("transcript cache disabled: %v", err)
		rc = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx, cfg, logger, db, rc)
	if err != nil {
		logger.Fatalf("Failed to wire application: %v", err)
	}

	if application.Scheduler != nil {
		if err := application.Scheduler.Start(ctx); err != nil {
			logger.Fatalf("Failed to start worker: %v", err)
		}
	} else {
		logger.Warn("scheduler disabled, lectures are processed in the API process")
	}

	// compose router
	router := server.NewRouter(cfg, application.GetServerDependencies())

	// listen with graceful exit
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Server exiting: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	// 10 secs then cancel
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// event streams are hijacked connections that Shutdown does not wait for
	application.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Shutdown err %v", err)
	}
	if application.Scheduler != nil {
		if err := application.Scheduler.Stop(shutdownCtx); err != nil {
			logger.Errorf("Worker shutdown err %v", err)
		}
	}
	if rc != nil {
		_ = rc.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Shutdown system")
}
