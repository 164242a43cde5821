package solver

import (
	"fmt"

	"vrpengine/internal/domain"
)

// Violation pairs a route with the invariant(s) it breaks.
type Violation struct {
	Class   domain.VehicleClass
	Ordinal int
	Reasons []string
}

// Validate re-checks every route in solution against its vehicle class's
// configuration, independent of whatever construction/improvement path
// produced it (spec §8).
func Validate(solution *domain.Solution, fleet domain.Fleet) []Violation {
	cfgByClass := make(map[domain.VehicleClass]domain.VehicleConfig, len(fleet))
	for _, cfg := range fleet {
		cfgByClass[cfg.Class] = cfg
	}

	var violations []Violation
	for _, route := range solution.Routes {
		cfg, ok := cfgByClass[route.Class]
		if !ok {
			violations = append(violations, Violation{Class: route.Class, Ordinal: route.Ordinal, Reasons: []string{fmt.Sprintf("no fleet configuration for class %s", route.Class)}})
			continue
		}
		if reasons := route.Validate(cfg); len(reasons) > 0 {
			violations = append(violations, Violation{Class: route.Class, Ordinal: route.Ordinal, Reasons: reasons})
		}
	}

	return violations
}
