package obs

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposed on GET /metrics: solve duration, per-strategy racer
// wins, and matrix cache hit/miss counts.
var (
	SolveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vrp_solve_duration_seconds",
		Help:    "Wall-clock duration of a full racer.Race call.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	RacerWins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vrp_racer_strategy_wins_total",
		Help: "Number of times a (strategy, metaheuristic) pairing produced the winning solution.",
	}, []string{"strategy", "meta"})

	MatrixCacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vrp_matrix_cache_results_total",
		Help: "Matrix cache lookups, partitioned by hit/miss.",
	}, []string{"result"})
)

// ObserveSolve records a completed racer.Race call's duration under its
// outcome ("ok" or "error").
func ObserveSolve(start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	SolveDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

// MetricsHandler exposes the process's registered Prometheus metrics on
// GET /metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
