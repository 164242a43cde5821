// Package services wires the engine's building blocks — the warehouse
// allocator, the CVRP solver/racer, and the TSP reoptimizer — into the
// single top-level orchestration the HTTP layer calls (spec §4, §9).
// This plays the role the teacher's plan_deliveries.go played for its
// truck/package domain, generalized to the CVRP pipeline.
package services

import (
	"context"
	"fmt"
	"time"

	"vrpengine/internal/config"
	"vrpengine/internal/domain"
	"vrpengine/internal/geo"
	"vrpengine/internal/ports"
	"vrpengine/internal/racer"
	"vrpengine/internal/solver"
	"vrpengine/internal/tsp"
	"vrpengine/internal/warehouse"
)

// PlanResult is everything a caller needs to report a solve: the winning
// solution plus the matrix it was computed against (spec §6 Output).
type PlanResult struct {
	Solution *domain.Solution
	Matrix   *domain.DistanceMatrix
	Strategy solver.Strategy
	Meta     solver.MetaStrategy
}

// PlanRoutes runs the full pipeline for one set of customers against the
// given fleet/zone configuration: allocate servable customers, build the
// distance matrix, race every (strategy, metaheuristic) pairing, then
// reoptimize each winning route's visiting order for vehicle classes with
// a distinct TSP depot.
func PlanRoutes(ctx context.Context, customers []*domain.Customer, cfg *config.MainConfig, provider ports.MatrixProvider, timeLimit time.Duration) (*PlanResult, error) {
	fleet := cfg.Fleet()
	if err := fleet.Validate(); err != nil {
		return nil, fmt.Errorf("plan routes: %w", err)
	}

	depot := cfg.MainDepotPoint()
	policy := warehouse.Policy{PerCustomerCeiling: cfg.Policy.PerCustomerCeiling}

	served, overflow := warehouse.Allocate(customers, fleet, policy, depot)

	cfgByClass := make(map[domain.VehicleClass]domain.VehicleConfig, len(fleet))
	for _, v := range fleet.Enabled() {
		cfgByClass[v.Class] = v
	}

	ds := domain.NewDepotSet(depot)
	depotNodeOf := make(map[domain.VehicleClass]int, len(cfgByClass))
	for class, v := range cfgByClass {
		depotNodeOf[class] = ds.Add(v.StartLocation)
	}

	locations := make([]geo.Point, 0, ds.Len()+len(served))
	locations = append(locations, ds.Locations()...)
	for _, c := range served {
		locations = append(locations, c.Coordinates)
	}

	matrix, err := provider.BuildMatrix(ctx, locations)
	if err != nil {
		return nil, fmt.Errorf("plan routes: build matrix: %w", err)
	}

	model, err := solver.NewModel(
		matrix, served, depotNodeOf, fleet, cfg.CenterZone(),
		cfg.Center.DiscountForCenter, cfg.Center.PenaltyForOthers,
		cfg.Solver.AllowCustomerSkipping, cfg.Solver.SkipPenalty,
	)
	if err != nil {
		return nil, fmt.Errorf("plan routes: build model: %w", err)
	}

	raceStart := time.Now()
	result, err := racer.Race(ctx, model, racer.DefaultCatalog(), timeLimit)
	if err != nil {
		return nil, fmt.Errorf("plan routes: race: %w", err)
	}

	if cfg.Solver.EnableTSPReoptimization {
		for _, route := range result.Solution.Routes {
			vcfg, ok := cfgByClass[route.Class]
			if !ok || !vcfg.HasDistinctTSPDepot() {
				continue
			}
			tsp.Reoptimize(route, vcfg, matrix, model.NodeOf, depotNodeOf[route.Class])
		}
	}

	// Rebuild the Solution after reoptimization so Fitness is summed from
	// the final route totals and the warehouse overflow is included.
	allOverflow := append(append([]domain.Overflow{}, result.Solution.Overflow...), overflow...)
	solution := domain.NewSolution(result.Solution.Routes, allOverflow, time.Since(raceStart))

	return &PlanResult{
		Solution: solution,
		Matrix:   matrix,
		Strategy: result.Strategy,
		Meta:     result.Meta,
	}, nil
}
