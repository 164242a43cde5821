package solver

import "vrpengine/internal/domain"

// arcCost returns the objective cost of traveling from node i to node j
// for a vehicle of the given class (spec §4.4). It is a per-class
// evaluator, not a per-vehicle-instance one: every vehicle of the same
// class shares the same shaping. Real distance/duration, used for the
// reported Route totals and the distance dimension, always comes
// straight from the matrix and is never shaped.
func (m *Model) arcCost(class domain.VehicleClass, i, j int) float64 {
	base := float64(m.Matrix.DistanceMeters(i, j))

	destInZone := m.CenterZone.Contains(m.customerPoint(j))
	if !destInZone {
		return base
	}

	if class == domain.ClassCenter {
		return base * m.DiscountForCenter
	}
	return base + m.PenaltyForOthers
}

// routeCost sums arcCost over a route's full sequence, depot to depot.
func (m *Model) routeCost(class domain.VehicleClass, depot int, nodes []int) float64 {
	if len(nodes) == 0 {
		return 0
	}

	total := m.arcCost(class, depot, nodes[0])
	for i := 1; i < len(nodes); i++ {
		total += m.arcCost(class, nodes[i-1], nodes[i])
	}
	total += m.arcCost(class, nodes[len(nodes)-1], depot)
	return total
}
