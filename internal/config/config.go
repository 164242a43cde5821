// Package config loads the MainConfig surface of spec §6: fleet, depot
// coordinates, center-zone parameters, solver budgets, matrix-service
// endpoint/profile, and cache directory/TTL. Secrets (the routing API
// key) are read from the environment, matching the teacher's .env
// convention in cmd/server/main.go; everything else is typed YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"vrpengine/internal/domain"
	"vrpengine/internal/geo"
)

// VehicleSpec is the YAML-facing shape of a fleet class (spec §6).
type VehicleSpec struct {
	Class                string   `yaml:"class"`
	Capacity             int      `yaml:"capacity"`
	Count                int      `yaml:"count"`
	MaxDistanceKm        *float64 `yaml:"max_distance_km,omitempty"`
	MaxTimeHours         float64  `yaml:"max_time_hours"`
	ServiceTimeMinutes   int      `yaml:"service_time_minutes"`
	Enabled              bool     `yaml:"enabled"`
	StartLocation        LatLon   `yaml:"start_location"`
	MaxCustomersPerRoute *int     `yaml:"max_customers_per_route,omitempty"`
	StartTimeMinutes     int      `yaml:"start_time_minutes"`
	TSPDepotLocation     *LatLon  `yaml:"tsp_depot_location,omitempty"`
	FixedCost            float64  `yaml:"fixed_cost,omitempty"`
}

// LatLon is the YAML-facing coordinate pair.
type LatLon struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

func (l LatLon) point() geo.Point { return geo.Point{Lat: l.Lat, Lon: l.Lon} }

// ToVehicleConfig converts the YAML spec into the domain type, defaulting
// MaxTimeHours to 20h (1,200 minutes, spec §3) when unset.
func (v VehicleSpec) ToVehicleConfig() domain.VehicleConfig {
	maxTimeHours := v.MaxTimeHours
	if maxTimeHours <= 0 {
		maxTimeHours = 20
	}

	cfg := domain.VehicleConfig{
		Class:                domain.VehicleClass(v.Class),
		Capacity:             v.Capacity,
		Count:                v.Count,
		MaxDistanceKm:        v.MaxDistanceKm,
		MaxTimeMinutes:       int(maxTimeHours * 60),
		ServiceTimeMinutes:   v.ServiceTimeMinutes,
		Enabled:              v.Enabled,
		StartLocation:        v.StartLocation.point(),
		MaxCustomersPerRoute: v.MaxCustomersPerRoute,
		StartTimeMinutes:     v.StartTimeMinutes,
		FixedCost:            v.FixedCost,
	}
	if v.TSPDepotLocation != nil {
		p := v.TSPDepotLocation.point()
		cfg.TSPDepotLocation = &p
	}
	return cfg
}

// CenterZoneSpec is the YAML-facing center-zone configuration (spec §4.4,
// §6).
type CenterZoneSpec struct {
	CenterLat         float64 `yaml:"center_lat"`
	CenterLon         float64 `yaml:"center_lon"`
	RadiusKm          float64 `yaml:"radius_km"`
	DiscountForCenter float64 `yaml:"discount_for_center_class"`
	PenaltyForOthers  float64 `yaml:"penalty_for_others"`
	PenalizeDeparture bool    `yaml:"penalize_departure,omitempty"`
}

// SolverSpec is the YAML-facing solver budget configuration (spec §6).
type SolverSpec struct {
	TimeLimitSeconds        int     `yaml:"time_limit_seconds"`
	ParallelWorkers         int     `yaml:"parallel_workers"`
	AllowCustomerSkipping   bool    `yaml:"allow_customer_skipping"`
	SkipPenalty             float64 `yaml:"skip_penalty"`
	EnableTSPReoptimization bool    `yaml:"enable_tsp_reoptimization"`
	EnableSectorSeeding     bool    `yaml:"enable_sector_seeding,omitempty"`
}

// MatrixSpec is the YAML-facing distance-matrix service configuration
// (spec §6).
type MatrixSpec struct {
	PrimaryEndpoint   string  `yaml:"primary_endpoint"`
	FallbackEndpoint  string  `yaml:"fallback_endpoint"`
	Profile           string  `yaml:"profile"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	ChunkSize         int     `yaml:"chunk_size"`
	HaversineInflation    float64 `yaml:"haversine_inflation"`
	HaversineSpeedKmh     float64 `yaml:"haversine_speed_kmh"`
	PrimaryRatePerSecond  float64 `yaml:"primary_rate_per_second,omitempty"`
	FallbackRatePerSecond float64 `yaml:"fallback_rate_per_second,omitempty"`
}

// CacheSpec is the YAML-facing matrix cache configuration (spec §6).
type CacheSpec struct {
	Directory  string `yaml:"directory"`
	TTLSeconds int    `yaml:"ttl_seconds"`
	Enabled    bool   `yaml:"enabled"`
}

// PolicySpec carries the per-customer volume ceiling referenced by the
// warehouse allocator (spec §4.2 rule 3).
type PolicySpec struct {
	PerCustomerCeiling float64 `yaml:"per_customer_ceiling"`
}

// MainConfig is the top-level configuration surface of spec §6.
type MainConfig struct {
	MainDepot  LatLon         `yaml:"main_depot"`
	FleetSpecs []VehicleSpec  `yaml:"fleet"`
	Center     CenterZoneSpec `yaml:"center_zone"`
	Solver     SolverSpec     `yaml:"solver"`
	Matrix     MatrixSpec     `yaml:"matrix"`
	Cache      CacheSpec      `yaml:"cache"`
	Policy     PolicySpec     `yaml:"policy"`
}

// Load reads and parses a YAML MainConfig from path, applying the spec's
// documented defaults for anything left zero-valued.
func Load(path string) (*MainConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg MainConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *MainConfig) applyDefaults() {
	if c.Center.RadiusKm <= 0 {
		c.Center.RadiusKm = domain.DefaultCenterRadiusKm
	}
	if c.Center.DiscountForCenter <= 0 {
		c.Center.DiscountForCenter = 0.10
	}
	if c.Center.PenaltyForOthers <= 0 {
		c.Center.PenaltyForOthers = 40000
	}
	if c.Solver.TimeLimitSeconds <= 0 {
		c.Solver.TimeLimitSeconds = 360
	}
	if c.Solver.SkipPenalty <= 0 {
		c.Solver.SkipPenalty = 45000
	}
	if c.Matrix.Profile == "" {
		c.Matrix.Profile = "driving"
	}
	if c.Matrix.ChunkSize <= 0 {
		c.Matrix.ChunkSize = 80
	}
	if c.Matrix.TimeoutSeconds <= 0 {
		c.Matrix.TimeoutSeconds = 15
	}
	if c.Matrix.HaversineInflation <= 0 {
		c.Matrix.HaversineInflation = 1.3
	}
	if c.Matrix.HaversineSpeedKmh <= 0 {
		c.Matrix.HaversineSpeedKmh = 40
	}
	if c.Cache.TTLSeconds <= 0 {
		c.Cache.TTLSeconds = int((24 * time.Hour).Seconds())
	}
	if c.Policy.PerCustomerCeiling <= 0 {
		c.Policy.PerCustomerCeiling = 120
	}
}

// CenterZone converts the parsed spec into the domain type.
func (c *MainConfig) CenterZone() domain.CenterZone {
	return domain.CenterZone{
		Center:   geo.Point{Lat: c.Center.CenterLat, Lon: c.Center.CenterLon},
		RadiusKm: c.Center.RadiusKm,
	}
}

// Fleet converts every configured vehicle spec into domain.VehicleConfig.
func (c *MainConfig) Fleet() domain.Fleet {
	out := make(domain.Fleet, 0, len(c.FleetSpecs))
	for _, v := range c.FleetSpecs {
		out = append(out, v.ToVehicleConfig())
	}
	return out
}

// MainDepotPoint returns the main depot as a geo.Point.
func (c *MainConfig) MainDepotPoint() geo.Point { return c.MainDepot.point() }

// CacheTTL returns the cache TTL as a time.Duration.
func (c *CacheSpec) CacheTTL() time.Duration { return time.Duration(c.TTLSeconds) * time.Second }
