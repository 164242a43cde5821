package tsp

import (
	"testing"

	"vrpengine/internal/domain"
	"vrpengine/internal/geo"
)

func TestReoptimizeRecomputesTotalsAndPreservesMembership(t *testing.T) {
	locs := []geo.Point{
		{Lat: 0, Lon: 0}, // depot, node 0
		{Lat: 0, Lon: 3}, // node 1
		{Lat: 0, Lon: 1}, // node 2
		{Lat: 0, Lon: 2}, // node 3
	}
	dist := [][]int{
		{0, 3000, 1000, 2000},
		{3000, 0, 2000, 1000},
		{1000, 2000, 0, 1000},
		{2000, 1000, 1000, 0},
	}
	dur := [][]int{
		{0, 180, 60, 120},
		{180, 0, 120, 60},
		{60, 120, 0, 60},
		{120, 60, 60, 0},
	}
	matrix, err := domain.NewDistanceMatrix(locs, dist, dur)
	if err != nil {
		t.Fatalf("NewDistanceMatrix() error = %v", err)
	}

	c1, _ := domain.NewCustomer("c1", "C1", locs[1], true, 5, "")
	c2, _ := domain.NewCustomer("c2", "C2", locs[2], true, 5, "")
	c3, _ := domain.NewCustomer("c3", "C3", locs[3], true, 5, "")

	// Deliberately out of geographic order: depot -> far -> near -> mid.
	route := &domain.Route{
		Class:     domain.ClassInternal,
		Customers: []*domain.Customer{c1, c2, c3},
	}
	cfg := domain.VehicleConfig{Class: domain.ClassInternal, Capacity: 100, MaxTimeMinutes: 10000, ServiceTimeMinutes: 5}

	nodeOf := map[string]int{"c1": 1, "c2": 2, "c3": 3}

	Reoptimize(route, cfg, matrix, nodeOf, 0)

	if len(route.Customers) != 3 {
		t.Fatalf("len(route.Customers) = %d, want 3", len(route.Customers))
	}

	seen := map[string]bool{}
	for _, c := range route.Customers {
		seen[c.ID] = true
	}
	for _, id := range []string{"c1", "c2", "c3"} {
		if !seen[id] {
			t.Errorf("expected reoptimized route to still contain %s", id)
		}
	}

	if route.TotalLoad != 15 {
		t.Errorf("TotalLoad = %v, want 15", route.TotalLoad)
	}
	if route.TotalDistanceKm <= 0 {
		t.Errorf("TotalDistanceKm = %v, want > 0", route.TotalDistanceKm)
	}
}
