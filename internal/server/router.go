package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/healthmatters-clinic/board-intake/internal/handlers"
	"github.com/healthmatters-clinic/board-intake/internal/middleware"
)

// NewRouter constructs a ServeMux with intake API routes registered.
func NewRouter(h *handlers.ApplyHandler, corsOrigins []string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/apply", h.HandleApply)

	// Health endpoints
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	cors := middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	return middleware.RequestID(cors(mux))
}
