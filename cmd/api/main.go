package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/Dan9191/pocket-property/internal/config"
	"github.com/Dan9191/pocket-property/internal/handler"
	"github.com/Dan9191/pocket-property/internal/integrations/resale"
	"github.com/Dan9191/pocket-property/internal/middleware"
	"github.com/Dan9191/pocket-property/internal/repository"
	"github.com/Dan9191/pocket-property/internal/service"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Search history export is optional
	var archive service.HistoryArchiver
	if cfg.DBConn != "" {
		db, err := sql.Open("postgres", cfg.DBConn)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("Failed to ping database: %v", err)
		}
		repo := repository.NewRepository(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = repo.CreateSchema(ctx)
		cancel()
		if err != nil {
			logger.Fatalf("Failed to prepare database: %v", err)
		}
		archive = repo
		logger.Info("Search history export to Postgres enabled")
	}

	// Initialize layers
	resaleClient := resale.NewClient(cfg, logger)
	svc := service.NewService(resaleClient, archive, logger, cfg)
	h := handler.NewHandler(svc, logger)

	sweeper, err := svc.StartSessionSweeper()
	if err != nil {
		logger.Fatalf("Failed to schedule session sweeper: %v", err)
	}
	defer sweeper.Stop()

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.SessionMiddleware([]byte(cfg.SessionSecret), cfg.SessionTTL, logger))
	r.Use(middleware.LoggingMiddleware(logger))
	h.Routes(r)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.BackendTimeout + 10*time.Second,
	}
	logger.Infof("Starting server on %s (backend %s)", addr, cfg.BackendURL)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
