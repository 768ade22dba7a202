package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/shift-monitor/internal/api"
	"github.com/dom/shift-monitor/internal/api/middleware"
	"github.com/dom/shift-monitor/internal/config"
	"github.com/dom/shift-monitor/internal/logging"
	"github.com/dom/shift-monitor/internal/metrics"
	"github.com/dom/shift-monitor/internal/repository"
	"github.com/dom/shift-monitor/internal/repository/postgres"
	"github.com/dom/shift-monitor/internal/service"
	"github.com/dom/shift-monitor/internal/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const storeRetryInterval = 10 * time.Second

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	log := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Startup probe; while it fails every non-health request is rejected
	gate := middleware.NewStoreGate(false)
	if probe(repos.Store, log) {
		if err := postgres.Migrate(db); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		gate.SetReady(true)
	} else {
		go watchStore(db, repos.Store, gate, log)
	}

	// Initialize status feed
	hub := websocket.NewHub(log)
	go hub.Run()

	m := metrics.New()

	// Initialize services
	services := service.NewServices(repos, cfg, hub, m, log)

	// Initialize router
	router := api.NewRouter(services, hub, repos.Store, gate, m, cfg, log)

	// Create server
	srv := &http.Server{
		Addr:        "0.0.0.0:" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "environment": cfg.Environment}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	hub.Stop()

	log.Info("server stopped")
}

// watchStore re-probes an unreachable store and opens the gate once it
// answers and the schema is migrated.
func watchStore(db *gorm.DB, store repository.HealthChecker, gate *middleware.StoreGate, log *logrus.Logger) {
	ticker := time.NewTicker(storeRetryInterval)
	defer ticker.Stop()

	for range ticker.C {
		if !probe(store, log) {
			continue
		}
		if err := postgres.Migrate(db); err != nil {
			log.WithError(err).Error("migration failed; store stays gated")
			continue
		}
		gate.SetReady(true)
		log.Info("store reachable; gate opened")
		return
	}
}

func probe(store repository.HealthChecker, log *logrus.Logger) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		log.WithError(err).Error("store startup probe failed")
		return false
	}
	return true
}
