package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"vrpengine/internal/adapters/cache"
	"vrpengine/internal/adapters/distance"
	"vrpengine/internal/api"
	"vrpengine/internal/config"
	"vrpengine/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (routing servers, matrix cache) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	configPath := getEnv("CONFIG_PATH", "config.yaml")
	dbPath := getEnv("DB_PATH", "data/matrix_cache.db")
	port := getEnv("PORT", "8080")
	routingAPIKey := os.Getenv("ROUTING_API_KEY")

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := cache.InitSqliteSchema(db); err != nil {
		log.Fatal(err)
	}

	provider := buildProvider(cfg, db, routingAPIKey)
	router := api.NewRouter(cfg, provider)

	// Timeouts are tuned for cold-cache route planning (routing-service
	// fallback latency plus the solver's own time budget).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      time.Duration(cfg.Solver.TimeLimitSeconds+60) * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// buildProvider wires the three-tier routing provider (local server,
// public server, Haversine fallback) behind the SQLite-backed persistent
// matrix cache, so repeat requests for the same customer set skip
// outbound calls entirely.
func buildProvider(cfg *config.MainConfig, db *sql.DB, routingAPIKey string) ports.MatrixProvider {
	inner := distance.NewThreeTierProvider(distance.Config{
		PrimaryEndpoint:       cfg.Matrix.PrimaryEndpoint,
		FallbackEndpoint:      cfg.Matrix.FallbackEndpoint,
		Profile:               cfg.Matrix.Profile,
		APIKey:                routingAPIKey,
		Timeout:               time.Duration(cfg.Matrix.TimeoutSeconds) * time.Second,
		ChunkSize:             cfg.Matrix.ChunkSize,
		HaversineInflation:    cfg.Matrix.HaversineInflation,
		HaversineSpeedKmh:     cfg.Matrix.HaversineSpeedKmh,
		PrimaryRatePerSecond:  cfg.Matrix.PrimaryRatePerSecond,
		FallbackRatePerSecond: cfg.Matrix.FallbackRatePerSecond,
	})

	if !cfg.Cache.Enabled {
		return inner
	}

	return distance.NewCachedProvider(inner, cache.NewSqliteMatrixCache(db), cfg.Matrix.Profile, cfg.Cache.CacheTTL())
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}
