// Package tsp re-sequences an already-assigned route's stops without
// ever changing which customers belong to it (spec §4.6). It never
// moves a customer between routes — that is the solver's job — it only
// finds a cheaper visiting order for one fixed set of stops.
package tsp

import (
	"vrpengine/internal/domain"
	"vrpengine/internal/geo"
)

// Reoptimize reorders route.Customers to approximately minimize
// Haversine travel distance from the vehicle class's post-optimization
// depot (cfg.Depot(), which may differ from the route's operational
// start location), then recomputes the route's reported totals from
// the real distance matrix anchored at depotNode — the node actually
// used to build and validate the route (spec §4.6).
func Reoptimize(route *domain.Route, cfg domain.VehicleConfig, matrix *domain.DistanceMatrix, nodeOf map[string]int, depotNode int) {
	if len(route.Customers) < 2 {
		recomputeTotals(route, cfg, matrix, nodeOf, depotNode)
		return
	}

	anchor := cfg.Depot()
	ordered := nearestInsertion(anchor, route.Customers)
	ordered = twoOptHaversine(anchor, ordered)

	route.Customers = ordered
	recomputeTotals(route, cfg, matrix, nodeOf, depotNode)
}

// nearestInsertion builds a visiting order by always moving to whichever
// remaining customer is closest (by Haversine distance) to the current
// position, starting from anchor. Ties break on customer ID for
// determinism (grounded on the teacher's greedy nearest-neighbor route
// planner).
func nearestInsertion(anchor geo.Point, customers []*domain.Customer) []*domain.Customer {
	remaining := make([]*domain.Customer, len(customers))
	copy(remaining, customers)

	ordered := make([]*domain.Customer, 0, len(customers))
	current := anchor

	for len(remaining) > 0 {
		bestIdx := -1
		bestDist := 0.0
		for i, c := range remaining {
			d := geo.HaversineKm(current, c.Coordinates)
			if bestIdx == -1 || d < bestDist || (d == bestDist && c.ID < remaining[bestIdx].ID) {
				bestIdx, bestDist = i, d
			}
		}

		chosen := remaining[bestIdx]
		ordered = append(ordered, chosen)
		current = chosen.Coordinates
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return ordered
}

// twoOptHaversine runs first-improvement 2-opt on the anchor-to-anchor
// tour using Haversine distances, applying each improving reversal as
// soon as it is found, until no reversal improves it.
func twoOptHaversine(anchor geo.Point, customers []*domain.Customer) []*domain.Customer {
	current := customers
	improved := true

	for improved {
		improved = false
		bestCost := tourCost(anchor, current)

		for i := 0; i < len(current)-1; i++ {
			for j := i + 1; j < len(current); j++ {
				candidate := reverseSegment(current, i, j)
				if c := tourCost(anchor, candidate); c < bestCost-1e-9 {
					current = candidate
					bestCost = c
					improved = true
				}
			}
		}
	}

	return current
}

func tourCost(anchor geo.Point, customers []*domain.Customer) float64 {
	if len(customers) == 0 {
		return 0
	}
	total := geo.HaversineKm(anchor, customers[0].Coordinates)
	for i := 1; i < len(customers); i++ {
		total += geo.HaversineKm(customers[i-1].Coordinates, customers[i].Coordinates)
	}
	total += geo.HaversineKm(customers[len(customers)-1].Coordinates, anchor)
	return total
}

func reverseSegment(customers []*domain.Customer, i, j int) []*domain.Customer {
	out := make([]*domain.Customer, len(customers))
	copy(out, customers[:i])
	k := 0
	for idx := j; idx >= i; idx-- {
		out[i+k] = customers[idx]
		k++
	}
	copy(out[j+1:], customers[j+1:])
	return out
}

// recomputeTotals derives the route's reported distance/duration/load
// from the real distance matrix, anchored at depotNode, after any
// reordering. This is the only place route totals are trusted — the
// Haversine tour cost used to pick an order is never reported.
func recomputeTotals(route *domain.Route, cfg domain.VehicleConfig, matrix *domain.DistanceMatrix, nodeOf map[string]int, depotNode int) {
	route.TotalDistanceKm = 0
	route.TotalDurationMin = 0
	route.TotalLoad = 0

	last := depotNode
	for _, c := range route.Customers {
		node := nodeOf[c.ID]
		route.TotalDistanceKm += float64(matrix.DistanceMeters(last, node)) / 1000.0
		route.TotalDurationMin += float64(matrix.DurationSeconds(last, node))/60.0 + float64(cfg.ServiceTimeMinutes)
		route.TotalLoad += c.Volume
		last = node
	}
	route.TotalDistanceKm += float64(matrix.DistanceMeters(last, depotNode)) / 1000.0
	route.TotalDurationMin += float64(matrix.DurationSeconds(last, depotNode)) / 60.0
}
