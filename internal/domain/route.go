package domain

import "github.com/google/uuid"

// Route is one vehicle's planned stop sequence (spec §3). It conceptually
// starts and ends at the owning vehicle's start location; Customers holds
// only the visit order in between.
type Route struct {
	ID            uuid.UUID
	Class         VehicleClass
	Ordinal       int
	Customers     []*Customer
	TotalDistanceKm  float64
	TotalDurationMin float64
	TotalLoad        float64
}

// Stops returns the number of customer stops on the route.
func (r *Route) Stops() int { return len(r.Customers) }

// Validate checks the per-route invariants of spec §3/§8 against the
// owning vehicle's configuration.
func (r *Route) Validate(cfg VehicleConfig) []string {
	var violations []string

	if r.TotalLoad > float64(cfg.Capacity)+1e-9 {
		violations = append(violations, "load exceeds vehicle capacity")
	}
	if r.TotalDurationMin > float64(cfg.MaxTimeMinutes)+1e-6 {
		violations = append(violations, "duration exceeds vehicle max time")
	}
	if cfg.MaxDistanceKm != nil && r.TotalDistanceKm > *cfg.MaxDistanceKm+1e-6 {
		violations = append(violations, "distance exceeds vehicle max distance")
	}
	if cfg.MaxCustomersPerRoute != nil && r.Stops() > *cfg.MaxCustomersPerRoute {
		violations = append(violations, "stop count exceeds vehicle max customers per route")
	}
	for _, c := range r.Customers {
		if !c.HasCoordinates {
			violations = append(violations, "route contains a customer without coordinates")
			break
		}
	}

	return violations
}
