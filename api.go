package handler

import (
	"fmt"
	"net/http"
	"sync"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/logger"
)

var (
	initOnce sync.Once
	router   http.Handler
	initErr  error
)

// initRouter builds the same router cmd/api serves, once per instance.
func initRouter() {
	cfg, err := config.Load()
	if err != nil {
		initErr = fmt.Errorf("failed to load configuration: %w", err)
		return
	}

	log := logger.New(cfg.LogLevel)

	db, err := database.New(cfg.DatabaseURL, cfg.DBDriver)
	if err != nil {
		initErr = err
		return
	}

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
	router = api.New(cfg, log, db, publisher).GetRouter()
}

// Handler is the serverless entry point.
func Handler(w http.ResponseWriter, r *http.Request) {
	initOnce.Do(initRouter)
	if initErr != nil {
		http.Error(w, fmt.Sprintf("Initialization failed: %v", initErr), http.StatusInternalServerError)
		return
	}
	router.ServeHTTP(w, r)
}
