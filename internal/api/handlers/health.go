package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/dom/shift-monitor/internal/api/respond"
	"github.com/dom/shift-monitor/internal/repository"
)

type HealthHandler struct {
	store       repository.HealthChecker
	environment string
}

func NewHealthHandler(store repository.HealthChecker, environment string) *HealthHandler {
	return &HealthHandler{store: store, environment: environment}
}

type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Database    string `json:"database"`
}

// Check always answers 200; the database field reports the store probe.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	database := "ok"
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			database = "unreachable"
		}
	}

	respond.JSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		Environment: h.environment,
		Database:    database,
	})
}
