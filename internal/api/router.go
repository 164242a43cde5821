package api

import (
	"net/http"

	"vrpengine/internal/api/handlers"
	"vrpengine/internal/config"
	"vrpengine/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware
// of concrete adapters) — spec §6 HTTP surface.
func NewRouter(cfg *config.MainConfig, provider ports.MatrixProvider) http.Handler {
	mux := http.NewServeMux()

	planHandler := &handlers.PlanHandler{Config: cfg, Provider: provider}

	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/metrics", handlers.Metrics())
	mux.HandleFunc("/routes/plan", planHandler.Plan)

	return loggingMiddleware(mux)
}
