package domain

import (
	"fmt"

	"vrpengine/internal/geo"
)

// VehicleClass is a closed tag drawn from the fleet configuration. Behavior
// lives entirely in the associated VehicleConfig; the class itself is only
// a label used to key cost evaluators and allowed-vehicle lists (spec §3,
// §9).
type VehicleClass string

const (
	ClassInternal VehicleClass = "INTERNAL"
	ClassCenter   VehicleClass = "CENTER"
	ClassExternal VehicleClass = "EXTERNAL"
	ClassSpecial  VehicleClass = "SPECIAL"
	ClassRegional VehicleClass = "REGIONAL"
)

// VehicleConfig describes one fleet class and every physical vehicle of
// that class (spec §3). Count identical vehicles share all of these
// parameters; the solver expands Count into that many routing-model
// vehicles (spec §9).
type VehicleConfig struct {
	Class                VehicleClass
	Capacity             int
	Count                int
	MaxDistanceKm         *float64
	MaxTimeMinutes       int
	ServiceTimeMinutes   int
	Enabled              bool
	StartLocation        geo.Point
	MaxCustomersPerRoute *int
	StartTimeMinutes     int
	TSPDepotLocation     *geo.Point
	FixedCost            float64
}

// Depot returns the coordinates used for post-optimization, defaulting to
// the class's start location when no distinct TSP depot is configured
// (spec §3).
func (v VehicleConfig) Depot() geo.Point {
	if v.TSPDepotLocation != nil {
		return *v.TSPDepotLocation
	}
	return v.StartLocation
}

// HasDistinctTSPDepot reports whether this class's post-optimization depot
// differs from its route start location (spec §4.6: the TSP step only
// runs when this is true).
func (v VehicleConfig) HasDistinctTSPDepot() bool {
	return v.TSPDepotLocation != nil && *v.TSPDepotLocation != v.StartLocation
}

// Validate enforces the "enabled ⇒ count ≥ 1 and capacity ≥ 1" invariant
// of spec §3.
func (v VehicleConfig) Validate() error {
	if !v.Enabled {
		return nil
	}
	if v.Count < 1 {
		return fmt.Errorf("vehicle class %s: enabled vehicle must have count >= 1, got %d", v.Class, v.Count)
	}
	if v.Capacity < 1 {
		return fmt.Errorf("vehicle class %s: enabled vehicle must have capacity >= 1, got %d", v.Class, v.Capacity)
	}
	if v.MaxTimeMinutes <= 0 {
		return fmt.Errorf("vehicle class %s: max time minutes must be positive, got %d", v.Class, v.MaxTimeMinutes)
	}
	return nil
}

// Fleet is the full set of configured vehicle classes for a solve.
type Fleet []VehicleConfig

// Enabled returns only the classes available for this solve.
func (f Fleet) Enabled() Fleet {
	out := make(Fleet, 0, len(f))
	for _, v := range f {
		if v.Enabled {
			out = append(out, v)
		}
	}
	return out
}

// TotalCapacity sums capacity*count across every enabled class (spec §4.2
// rule 2, §7 ModelInfeasible).
func (f Fleet) TotalCapacity() int {
	total := 0
	for _, v := range f.Enabled() {
		total += v.Capacity * v.Count
	}
	return total
}

// MaxSingleCapacity returns the largest capacity among enabled classes,
// used by the warehouse allocator's ExceedsFleetCapacity rule.
func (f Fleet) MaxSingleCapacity() int {
	max := 0
	for _, v := range f.Enabled() {
		if v.Capacity > max {
			max = v.Capacity
		}
	}
	return max
}

// Validate checks every class in the fleet.
func (f Fleet) Validate() error {
	for _, v := range f {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("fleet: %w", err)
		}
	}
	return nil
}
