package solver

import (
	"math"
	"math/rand"
	"time"
)

// MetaStrategy names a local-search metaheuristic applied after a
// first-solution construction (spec §4.5).
type MetaStrategy string

const (
	MetaGuidedLocalSearch  MetaStrategy = "GuidedLocalSearch"
	MetaSimulatedAnnealing MetaStrategy = "SimulatedAnnealing"
)

// AllMetaStrategies is the fixed catalog the parallel racer draws from.
var AllMetaStrategies = []MetaStrategy{MetaGuidedLocalSearch, MetaSimulatedAnnealing}

type edgeKey struct{ a, b int }

// Improve runs meta over routes until deadline, returning an improved
// (never worse, for GuidedLocalSearch) set of routes. vehicles must be
// the same slice (and in the same order) used to construct routes.
func (m *Model) Improve(routes map[int][]int, vehicles []vehicleInstance, meta MetaStrategy, deadline time.Time) map[int][]int {
	switch meta {
	case MetaSimulatedAnnealing:
		return m.simulatedAnnealing(routes, vehicles, deadline)
	default:
		return m.guidedLocalSearch(routes, vehicles, deadline)
	}
}

// guidedLocalSearch alternates first-improvement 2-opt and single-customer
// relocation to a local optimum, then penalizes the costliest edge still
// in use so the next descent is pushed away from it — the hallmark of
// guided local search (spec §4.5). Moves are accepted on the penalized
// cost; the routes returned are the best seen by unpenalized cost.
func (m *Model) guidedLocalSearch(routes map[int][]int, vehicles []vehicleInstance, deadline time.Time) map[int][]int {
	penalty := make(map[edgeKey]float64)
	current := cloneRoutes(routes)
	best := cloneRoutes(routes)
	bestCost := m.totalCost(vehicles, best, nil)

	for time.Now().Before(deadline) {
		improved := false

		for vi, route := range current {
			next := m.twoOptPass(vehicles[vi], route, penalty)
			if routeSeqCost(m, vehicles[vi], next, penalty) < routeSeqCost(m, vehicles[vi], route, penalty)-1e-6 {
				current[vi] = next
				improved = true
			}
		}

		if m.relocateSweep(current, vehicles, penalty) {
			improved = true
		}

		if improved {
			if c := m.totalCost(vehicles, current, nil); c < bestCost {
				bestCost = c
				best = cloneRoutes(current)
			}
			continue
		}

		worst, ok := m.worstEdge(current, vehicles)
		if !ok {
			break
		}
		penalty[worst]++
	}

	return best
}

// simulatedAnnealing explores 2-opt and relocation moves, accepting
// worsening moves with Metropolis probability while the temperature
// cools geometrically, escaping local optima that a pure descent would
// get stuck in (spec §4.5).
func (m *Model) simulatedAnnealing(routes map[int][]int, vehicles []vehicleInstance, deadline time.Time) map[int][]int {
	rng := rand.New(rand.NewSource(1))
	current := cloneRoutes(routes)
	best := cloneRoutes(routes)
	bestCost := m.totalCost(vehicles, best, nil)

	temperature := 1000.0
	const cooling = 0.995

	for time.Now().Before(deadline) && temperature > 1e-3 {
		vi := pickRouteIndex(current, rng)
		if vi < 0 {
			break
		}
		route := current[vi]

		candidate := route
		if len(route) >= 2 && rng.Intn(2) == 0 {
			candidate = twoOptRandomMove(route, rng)
		} else if len(route) >= 1 {
			candidate = relocateRandomMove(current, vi, rng)
		}

		if !m.routeFeasible(vehicles[vi], candidate) {
			temperature *= cooling
			continue
		}

		trial := cloneRoutes(current)
		trial[vi] = candidate

		delta := m.totalCost(vehicles, trial, nil) - m.totalCost(vehicles, current, nil)
		if delta < 0 || rng.Float64() < math.Exp(-delta/temperature) {
			current = trial
			if c := m.totalCost(vehicles, current, nil); c < bestCost {
				bestCost = c
				best = cloneRoutes(current)
			}
		}

		temperature *= cooling
	}

	return best
}

func cloneRoutes(routes map[int][]int) map[int][]int {
	out := make(map[int][]int, len(routes))
	for k, v := range routes {
		cp := make([]int, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

func (m *Model) totalCost(vehicles []vehicleInstance, routes map[int][]int, penalty map[edgeKey]float64) float64 {
	total := 0.0
	for vi, route := range routes {
		total += routeSeqCost(m, vehicles[vi], route, penalty)
	}
	return total
}

func routeSeqCost(m *Model, v vehicleInstance, route []int, penalty map[edgeKey]float64) float64 {
	cost := m.routeCost(v.Class, v.DepotNode, route)
	if penalty == nil || len(route) == 0 {
		return cost
	}

	const alpha = 0.15
	prev := v.DepotNode
	for _, n := range route {
		cost += penalty[edgeKey{prev, n}] * alpha
		prev = n
	}
	cost += penalty[edgeKey{prev, v.DepotNode}] * alpha
	return cost
}

// twoOptPass scans every sub-segment of route and applies each reversal
// that lowers the penalized cost as soon as it is found, repeating full
// scans until no reversal improves it.
func (m *Model) twoOptPass(v vehicleInstance, route []int, penalty map[edgeKey]float64) []int {
	current := route
	improved := true
	for improved {
		improved = false
		bestCost := routeSeqCost(m, v, current, penalty)

		for i := 0; i < len(current)-1; i++ {
			for j := i + 1; j < len(current); j++ {
				candidate := twoOptSwap(current, i, j)
				if !m.routeFeasible(v, candidate) {
					continue
				}
				if c := routeSeqCost(m, v, candidate, penalty); c < bestCost-1e-6 {
					current = candidate
					bestCost = c
					improved = true
				}
			}
		}
	}
	return current
}

func twoOptSwap(route []int, i, j int) []int {
	out := make([]int, len(route))
	copy(out, route[:i])
	k := 0
	for idx := j; idx >= i; idx-- {
		out[i+k] = route[idx]
		k++
	}
	copy(out[j+1:], route[j+1:])
	return out
}

func twoOptRandomMove(route []int, rng *rand.Rand) []int {
	if len(route) < 2 {
		return route
	}
	i := rng.Intn(len(route))
	j := rng.Intn(len(route))
	if i > j {
		i, j = j, i
	}
	if i == j {
		return route
	}
	return twoOptSwap(route, i, j)
}

// relocateSweep tries, for every customer on every route, moving it to
// the cheapest feasible position on any other route; it repeats until a
// full pass makes no move, returning whether anything changed.
func (m *Model) relocateSweep(routes map[int][]int, vehicles []vehicleInstance, penalty map[edgeKey]float64) bool {
	anyChange := false
	changed := true
	for changed {
		changed = false
		for srcVI, srcRoute := range routes {
			for pos, node := range srcRoute {
				bestVI, bestPos, bestDelta := -1, -1, 0.0

				without := removeAt(srcRoute, pos)
				removalGain := routeSeqCost(m, vehicles[srcVI], srcRoute, penalty) - routeSeqCost(m, vehicles[srcVI], without, penalty)

				for dstVI, dstRoute := range routes {
					if dstVI == srcVI {
						continue
					}
					for p := 0; p <= len(dstRoute); p++ {
						candidate := insertAt(dstRoute, p, node)
						if !m.routeFeasible(vehicles[dstVI], candidate) {
							continue
						}
						insertionCost := routeSeqCost(m, vehicles[dstVI], candidate, penalty) - routeSeqCost(m, vehicles[dstVI], dstRoute, penalty)
						delta := insertionCost - removalGain
						if bestVI == -1 || delta < bestDelta {
							bestVI, bestPos, bestDelta = dstVI, p, delta
						}
					}
				}

				if bestVI != -1 && bestDelta < -1e-6 {
					routes[srcVI] = without
					routes[bestVI] = insertAt(routes[bestVI], bestPos, node)
					changed = true
					anyChange = true
					break
				}
			}
			if changed {
				break
			}
		}
	}
	return anyChange
}

func removeAt(route []int, pos int) []int {
	out := make([]int, 0, len(route)-1)
	out = append(out, route[:pos]...)
	out = append(out, route[pos+1:]...)
	return out
}

func insertAt(route []int, pos, node int) []int {
	out := make([]int, 0, len(route)+1)
	out = append(out, route[:pos]...)
	out = append(out, node)
	out = append(out, route[pos:]...)
	return out
}

// worstEdge finds the single costliest edge (by real distance) across
// every route, the target of the next guided-local-search penalty. Only
// the depot-to-first leg and customer-to-customer legs are considered;
// the closing leg back to the depot is not.
func (m *Model) worstEdge(routes map[int][]int, vehicles []vehicleInstance) (edgeKey, bool) {
	worst := edgeKey{}
	worstCost := -1.0
	found := false

	for vi, route := range routes {
		prev := vehicles[vi].DepotNode
		for _, n := range route {
			cost := float64(m.Matrix.DistanceMeters(prev, n))
			if cost > worstCost {
				worstCost, worst, found = cost, edgeKey{prev, n}, true
			}
			prev = n
		}
	}

	return worst, found
}

func pickRouteIndex(routes map[int][]int, rng *rand.Rand) int {
	keys := make([]int, 0, len(routes))
	for k, v := range routes {
		if len(v) > 0 {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return -1
	}
	return keys[rng.Intn(len(keys))]
}

func relocateRandomMove(routes map[int][]int, vi int, rng *rand.Rand) []int {
	route := routes[vi]
	if len(route) < 2 {
		return route
	}
	i := rng.Intn(len(route))
	j := rng.Intn(len(route))
	if i == j {
		return route
	}
	node := route[i]
	without := removeAt(route, i)
	if j > i {
		j--
	}
	if j > len(without) {
		j = len(without)
	}
	return insertAt(without, j, node)
}
