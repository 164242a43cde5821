package domain

import (
	"testing"

	"vrpengine/internal/geo"
)

func TestVehicleConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     VehicleConfig
		wantErr bool
	}{
		{
			name:    "disabled vehicle skips validation",
			cfg:     VehicleConfig{Class: ClassInternal, Enabled: false, Capacity: 0, Count: 0},
			wantErr: false,
		},
		{
			name:    "enabled with zero count fails",
			cfg:     VehicleConfig{Class: ClassInternal, Enabled: true, Capacity: 10, Count: 0, MaxTimeMinutes: 480},
			wantErr: true,
		},
		{
			name:    "enabled with zero capacity fails",
			cfg:     VehicleConfig{Class: ClassInternal, Enabled: true, Capacity: 0, Count: 1, MaxTimeMinutes: 480},
			wantErr: true,
		},
		{
			name:    "valid enabled vehicle",
			cfg:     VehicleConfig{Class: ClassInternal, Enabled: true, Capacity: 30, Count: 1, MaxTimeMinutes: 480},
			wantErr: false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.cfg.Validate()
			if (err != nil) != c.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, c.wantErr)
			}
		})
	}
}

func TestFleetTotalCapacity(t *testing.T) {
	f := Fleet{
		{Class: ClassInternal, Enabled: true, Capacity: 30, Count: 2, MaxTimeMinutes: 480},
		{Class: ClassCenter, Enabled: true, Capacity: 10, Count: 1, MaxTimeMinutes: 480},
		{Class: ClassExternal, Enabled: false, Capacity: 100, Count: 5, MaxTimeMinutes: 480},
	}

	if got := f.TotalCapacity(); got != 70 {
		t.Fatalf("TotalCapacity() = %d, want 70", got)
	}
	if got := f.MaxSingleCapacity(); got != 30 {
		t.Fatalf("MaxSingleCapacity() = %d, want 30", got)
	}
}

func TestCenterZoneContains(t *testing.T) {
	zone := CenterZone{Center: geo.Point{Lat: 42.6977, Lon: 23.3219}, RadiusKm: 1.8}

	inside := geo.Point{Lat: 42.6977, Lon: 23.3219}
	if !zone.Contains(inside) {
		t.Error("expected zone center to be contained in its own zone")
	}

	far := geo.Point{Lat: 42.75, Lon: 23.40}
	if zone.Contains(far) {
		t.Error("expected a distant point to fall outside the zone")
	}
}

func TestDepotSetMainIsIndexZero(t *testing.T) {
	main := geo.Point{Lat: 42.70, Lon: 23.32}
	alt := geo.Point{Lat: 43.20, Lon: 23.55}

	ds := NewDepotSet(main, alt)
	idx, err := ds.IndexOf(main)
	if err != nil || idx != 0 {
		t.Fatalf("IndexOf(main) = (%d, %v), want (0, nil)", idx, err)
	}

	altIdx, err := ds.IndexOf(alt)
	if err != nil || altIdx != 1 {
		t.Fatalf("IndexOf(alt) = (%d, %v), want (1, nil)", altIdx, err)
	}

	if _, err := ds.IndexOf(geo.Point{Lat: 1, Lon: 1}); err == nil {
		t.Error("expected error for unregistered depot")
	}
}

func TestNewDistanceMatrixRejectsNonZeroDiagonal(t *testing.T) {
	locs := []geo.Point{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}
	bad := [][]int{{5, 10}, {10, 0}}
	good := [][]int{{0, 10}, {10, 0}}

	if _, err := NewDistanceMatrix(locs, bad, good); err == nil {
		t.Error("expected error for non-zero diagonal")
	}
	if _, err := NewDistanceMatrix(locs, good, good); err != nil {
		t.Errorf("unexpected error for valid matrix: %v", err)
	}
}

func TestSolutionServedCount(t *testing.T) {
	c1, _ := NewCustomer("c1", "Customer 1", geo.Point{}, true, 5, "")
	c2, _ := NewCustomer("c2", "Customer 2", geo.Point{}, true, 5, "")

	routes := []*Route{
		{Class: ClassInternal, Customers: []*Customer{c1, c2}},
	}
	overflow := []Overflow{{Customer: c1, Reason: ReasonDroppedBySolver}}

	sol := NewSolution(routes, overflow, 0)
	if sol.ServedCount() != 2 {
		t.Fatalf("ServedCount() = %d, want 2", sol.ServedCount())
	}
	if sol.Fitness.VehiclesUsed != 1 {
		t.Fatalf("VehiclesUsed = %d, want 1", sol.Fitness.VehiclesUsed)
	}
}
