package solver

import (
	"testing"
	"time"

	"vrpengine/internal/domain"
	"vrpengine/internal/geo"
)

func testModel(t *testing.T) *Model {
	t.Helper()

	locs := []geo.Point{
		{Lat: 0, Lon: 0}, // depot
		{Lat: 0, Lon: 1},
		{Lat: 0, Lon: 2},
		{Lat: 0, Lon: 3},
	}
	dist := [][]int{
		{0, 1000, 2000, 3000},
		{1000, 0, 1000, 2000},
		{2000, 1000, 0, 1000},
		{3000, 2000, 1000, 0},
	}
	dur := [][]int{
		{0, 60, 120, 180},
		{60, 0, 60, 120},
		{120, 60, 0, 60},
		{180, 120, 60, 0},
	}
	matrix, err := domain.NewDistanceMatrix(locs, dist, dur)
	if err != nil {
		t.Fatalf("NewDistanceMatrix() error = %v", err)
	}

	c1, _ := domain.NewCustomer("c1", "C1", locs[1], true, 10, "")
	c2, _ := domain.NewCustomer("c2", "C2", locs[2], true, 10, "")
	c3, _ := domain.NewCustomer("c3", "C3", locs[3], true, 10, "")
	customers := []*domain.Customer{c1, c2, c3}

	fleet := domain.Fleet{
		{Class: domain.ClassInternal, Enabled: true, Capacity: 100, Count: 1, MaxTimeMinutes: 10000},
	}

	model, err := NewModel(matrix, customers, map[domain.VehicleClass]int{domain.ClassInternal: 0}, fleet, domain.CenterZone{}, 0.1, 40000, false, 45000)
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	return model
}

func TestConstructPathCheapestArcAssignsAllCustomers(t *testing.T) {
	m := testModel(t)
	routes, unassigned, err := m.Construct(StrategyPathCheapestArc)
	if err != nil {
		t.Fatalf("Construct() error = %v", err)
	}
	if len(unassigned) != 0 {
		t.Fatalf("unassigned = %v, want none", unassigned)
	}

	total := 0
	for _, r := range routes {
		total += len(r)
	}
	if total != 3 {
		t.Fatalf("total assigned customers = %d, want 3", total)
	}
}

func TestConstructSavingsAssignsAllCustomers(t *testing.T) {
	m := testModel(t)
	routes, unassigned, err := m.Construct(StrategySavings)
	if err != nil {
		t.Fatalf("Construct() error = %v", err)
	}
	if len(unassigned) != 0 {
		t.Fatalf("unassigned = %v, want none", unassigned)
	}
	total := 0
	for _, r := range routes {
		total += len(r)
	}
	if total != 3 {
		t.Fatalf("total assigned customers = %d, want 3", total)
	}
}

func TestConstructGlobalCheapestArcAssignsAllCustomers(t *testing.T) {
	m := testModel(t)
	routes, unassigned, err := m.Construct(StrategyGlobalCheapestArc)
	if err != nil {
		t.Fatalf("Construct() error = %v", err)
	}
	if len(unassigned) != 0 {
		t.Fatalf("unassigned = %v, want none", unassigned)
	}
	total := 0
	for _, r := range routes {
		total += len(r)
	}
	if total != 3 {
		t.Fatalf("total assigned customers = %d, want 3", total)
	}
}

func TestConstructGlobalBestInsertionAssignsAllCustomers(t *testing.T) {
	m := testModel(t)
	routes, unassigned, err := m.Construct(StrategyGlobalBestInsertion)
	if err != nil {
		t.Fatalf("Construct() error = %v", err)
	}
	if len(unassigned) != 0 {
		t.Fatalf("unassigned = %v, want none", unassigned)
	}
	total := 0
	for _, r := range routes {
		total += len(r)
	}
	if total != 3 {
		t.Fatalf("total assigned customers = %d, want 3", total)
	}
}

func TestConstructChristofidesAssignsAllCustomers(t *testing.T) {
	m := testModel(t)
	routes, unassigned, err := m.Construct(StrategyChristofides)
	if err != nil {
		t.Fatalf("Construct() error = %v", err)
	}
	if len(unassigned) != 0 {
		t.Fatalf("unassigned = %v, want none", unassigned)
	}
	total := 0
	for _, r := range routes {
		total += len(r)
	}
	if total != 3 {
		t.Fatalf("total assigned customers = %d, want 3", total)
	}
}

func TestSolveProducesFeasibleSolution(t *testing.T) {
	m := testModel(t)
	result, err := m.Solve(StrategyPathCheapestArc, MetaGuidedLocalSearch, time.Now().Add(50*time.Millisecond))
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	if result.Solution.ServedCount() != 3 {
		t.Fatalf("ServedCount() = %d, want 3", result.Solution.ServedCount())
	}

	fleet := domain.Fleet{{Class: domain.ClassInternal, Enabled: true, Capacity: 100, Count: 1, MaxTimeMinutes: 10000}}
	if v := Validate(result.Solution, fleet); len(v) != 0 {
		t.Errorf("Validate() = %v, want no violations", v)
	}
}

func TestToSolutionAddsFixedCostPerUsedVehicle(t *testing.T) {
	m := testModel(t)
	routes, unassigned, err := m.Construct(StrategyPathCheapestArc)
	if err != nil {
		t.Fatalf("Construct() error = %v", err)
	}
	vehicles := m.vehicleInstances()

	_, withoutFixedCost := m.toSolution(routes, vehicles, unassigned)

	vehicles[0].Cfg.FixedCost = 50
	_, withFixedCost := m.toSolution(routes, vehicles, unassigned)

	if withFixedCost != withoutFixedCost+50 {
		t.Errorf("objective with FixedCost = %v, want %v", withFixedCost, withoutFixedCost+50)
	}
}

func TestSolveInfeasibleWithoutSkippingReturnsError(t *testing.T) {
	m := testModel(t)
	// Shrink capacity so not all customers fit and skipping is disallowed.
	m.Fleet = domain.Fleet{{Class: domain.ClassInternal, Enabled: true, Capacity: 5, Count: 1, MaxTimeMinutes: 10000}}
	m.AllowSkipping = false

	if _, err := m.Solve(StrategyPathCheapestArc, MetaGuidedLocalSearch, time.Now().Add(10*time.Millisecond)); err == nil {
		t.Error("expected an error when customers cannot be placed and skipping is disallowed")
	}
}
