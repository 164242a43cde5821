package solver

import (
	"vrpengine/internal/domain"
)

// routeState accumulates the four cumulative dimensions of spec §4.5
// (Capacity, Distance, Stops, Time) as nodes are appended to a
// candidate route. It mirrors a routing-model dimension, but is
// computed directly rather than through a constraint solver.
type routeState struct {
	LoadVolume    float64
	DistanceM     int
	Stops         int
	DurationMin   float64
}

// initialRouteState seeds the Time dimension's cumul-at-start at the
// vehicle's configured start time (spec §4.3 dimension 4), rather than
// zero, so a vehicle that starts its shift later in the day is held to
// the same wall-clock MaxTimeMinutes ceiling as one starting at time 0.
func initialRouteState(cfg domain.VehicleConfig) routeState {
	return routeState{DurationMin: float64(cfg.StartTimeMinutes)}
}

// feasibleAppend reports whether appending node (a customer at matrix
// index nodeIdx, with the given volume and service time) to a route
// already in state, ending at lastNode, keeps every dimension within
// the vehicle class's ceilings. It returns the state after the append.
func (m *Model) feasibleAppend(cfg domain.VehicleConfig, state routeState, lastNode, nodeIdx int, volume float64, serviceTimeMin float64) (routeState, bool) {
	next := state
	next.LoadVolume += volume
	next.Stops++

	legMeters := m.Matrix.DistanceMeters(lastNode, nodeIdx)
	legSeconds := m.Matrix.DurationSeconds(lastNode, nodeIdx)
	next.DistanceM += legMeters
	next.DurationMin += float64(legSeconds)/60.0 + serviceTimeMin

	if next.LoadVolume > float64(cfg.Capacity)+1e-9 {
		return state, false
	}
	if cfg.MaxCustomersPerRoute != nil && next.Stops > *cfg.MaxCustomersPerRoute {
		return state, false
	}
	if cfg.MaxDistanceKm != nil && float64(next.DistanceM)/1000.0 > *cfg.MaxDistanceKm+1e-6 {
		return state, false
	}
	if next.DurationMin > float64(cfg.MaxTimeMinutes)+1e-6 {
		return state, false
	}

	return next, true
}

// returnFeasible reports whether closing the route with a final leg back
// to depot keeps the time dimension within the vehicle's ceiling (the
// distance ceiling, if set, is checked the same way).
func (m *Model) returnFeasible(cfg domain.VehicleConfig, state routeState, lastNode, depotNode int) bool {
	legMeters := m.Matrix.DistanceMeters(lastNode, depotNode)
	legSeconds := m.Matrix.DurationSeconds(lastNode, depotNode)

	totalDistanceKm := float64(state.DistanceM+legMeters) / 1000.0
	totalDurationMin := state.DurationMin + float64(legSeconds)/60.0

	if cfg.MaxDistanceKm != nil && totalDistanceKm > *cfg.MaxDistanceKm+1e-6 {
		return false
	}
	if totalDurationMin > float64(cfg.MaxTimeMinutes)+1e-6 {
		return false
	}
	return true
}
