package solver

import (
	"testing"

	"vrpengine/internal/domain"
	"vrpengine/internal/geo"
)

func TestArcCostAppliesCenterDiscountNotPenalty(t *testing.T) {
	locs := []geo.Point{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 1},
	}
	dist := [][]int{{0, 1000}, {1000, 0}}
	dur := [][]int{{0, 60}, {60, 0}}
	matrix, err := domain.NewDistanceMatrix(locs, dist, dur)
	if err != nil {
		t.Fatalf("NewDistanceMatrix() error = %v", err)
	}

	zone := domain.CenterZone{Center: geo.Point{Lat: 0, Lon: 1}, RadiusKm: 1}
	m := &Model{Matrix: matrix, CenterZone: zone, DiscountForCenter: 0.9, PenaltyForOthers: 500}

	got := m.arcCost(domain.ClassCenter, 0, 1)
	want := 1000.0 * 0.9
	if got != want {
		t.Errorf("arcCost(ClassCenter) = %v, want %v (a rebate, not a markup)", got, want)
	}

	other := m.arcCost(domain.ClassInternal, 0, 1)
	wantOther := 1000.0 + 500
	if other != wantOther {
		t.Errorf("arcCost(ClassInternal) = %v, want %v", other, wantOther)
	}
}
