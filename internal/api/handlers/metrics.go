package handlers

import (
	"net/http"

	"vrpengine/internal/platform/obs"
)

// Metrics exposes the process's Prometheus registry for scraping.
func Metrics() http.Handler {
	return obs.MetricsHandler()
}
