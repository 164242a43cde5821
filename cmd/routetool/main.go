// Command routetool initializes the matrix-cache schema for a chosen
// backend and can run a one-shot solve from a JSON customer fixture,
// mirroring the split the teacher's cmd/dbtool had between schema setup
// and seed data.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"vrpengine/internal/adapters/cache"
	"vrpengine/internal/adapters/distance"
	"vrpengine/internal/config"
	"vrpengine/internal/domain"
	"vrpengine/internal/geo"
	"vrpengine/internal/platform/db"
	"vrpengine/internal/services"
)

type fixtureCustomer struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	HasCoordinates bool    `json:"has_coordinates"`
	Volume         float64 `json:"volume"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	backend := flag.String("backend", "sqlite", "matrix cache backend to initialize: sqlite or postgres")
	configPath := flag.String("config", "config.yaml", "path to the MainConfig YAML file")
	fixturePath := flag.String("fixture", "", "path to a JSON customer fixture; when set, runs a one-shot solve and exits")
	flag.Parse()

	switch *backend {
	case "postgres":
		if err := initPostgres(); err != nil {
			log.Fatal(err)
		}
	default:
		if err := initSqlite(); err != nil {
			log.Fatal(err)
		}
	}

	if strings.TrimSpace(*fixturePath) == "" {
		log.Println("schema ready; pass -fixture to run a one-shot solve")
		return
	}

	if err := runFixture(*configPath, *fixturePath); err != nil {
		log.Fatal(err)
	}
}

func initSqlite() error {
	dbPath := getEnv("DB_PATH", "data/matrix_cache.db")
	sqliteDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("init sqlite: open %q: %w", dbPath, err)
	}
	defer sqliteDB.Close()

	log.Println("Initializing sqlite matrix_cache schema...")
	if err := cache.InitSqliteSchema(sqliteDB); err != nil {
		return fmt.Errorf("init sqlite: %w", err)
	}
	log.Println("Schema ready.")
	return nil
}

func initPostgres() error {
	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		return fmt.Errorf("init postgres: DATABASE_URL is required")
	}

	pgDB, err := db.Open(databaseURL)
	if err != nil {
		return fmt.Errorf("init postgres: %w", err)
	}
	defer pgDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Initializing postgres matrix_cache schema...")
	if err := cache.InitPGSchema(ctx, pgDB); err != nil {
		return fmt.Errorf("init postgres: %w", err)
	}
	log.Println("Schema ready.")
	return nil
}

// runFixture loads a MainConfig and a JSON customer list, runs the full
// routing pipeline with a Haversine-only provider (no outbound calls),
// and prints the resulting solution as JSON.
func runFixture(configPath, fixturePath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(fixturePath)
	if err != nil {
		return fmt.Errorf("run fixture: read %q: %w", fixturePath, err)
	}

	var fixtures []fixtureCustomer
	if err := json.Unmarshal(raw, &fixtures); err != nil {
		return fmt.Errorf("run fixture: parse %q: %w", fixturePath, err)
	}

	customers := make([]*domain.Customer, 0, len(fixtures))
	for _, f := range fixtures {
		c, err := domain.NewCustomer(f.ID, f.Name, geo.Point{Lat: f.Lat, Lon: f.Lon}, f.HasCoordinates, f.Volume, "")
		if err != nil {
			return fmt.Errorf("run fixture: %w", err)
		}
		customers = append(customers, c)
	}

	// No routing endpoints configured: ThreeTierProvider falls straight
	// through to its Haversine tier, so a one-shot fixture run never
	// makes an outbound call.
	provider := distance.NewThreeTierProvider(distance.Config{
		Profile:            cfg.Matrix.Profile,
		HaversineInflation: cfg.Matrix.HaversineInflation,
		HaversineSpeedKmh:  cfg.Matrix.HaversineSpeedKmh,
	})

	result, err := services.PlanRoutes(context.Background(), customers, cfg, provider, time.Duration(cfg.Solver.TimeLimitSeconds)*time.Second)
	if err != nil {
		return fmt.Errorf("run fixture: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result.Solution)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
