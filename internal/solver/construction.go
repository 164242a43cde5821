package solver

import (
	"fmt"
	"sort"

	"vrpengine/internal/domain"
)

// Strategy names a first-solution construction heuristic (spec §4.5).
type Strategy string

const (
	StrategyPathCheapestArc           Strategy = "PathCheapestArc"
	StrategySavings                   Strategy = "Savings"
	StrategyParallelCheapestInsertion Strategy = "ParallelCheapestInsertion"
	StrategyGlobalCheapestArc         Strategy = "GlobalCheapestArc"
	StrategyGlobalBestInsertion       Strategy = "GlobalBestInsertion"
	StrategyChristofides              Strategy = "Christofides"
)

// AllStrategies is the fixed catalog the parallel racer draws from.
var AllStrategies = []Strategy{
	StrategyPathCheapestArc,
	StrategySavings,
	StrategyParallelCheapestInsertion,
	StrategyGlobalCheapestArc,
	StrategyGlobalBestInsertion,
	StrategyChristofides,
}

// vehicleInstance is one physical vehicle expanded out of a
// VehicleConfig's Count (spec §9: "the solver expands Count into that
// many routing-model vehicles").
type vehicleInstance struct {
	Class     domain.VehicleClass
	Cfg       domain.VehicleConfig
	Ordinal   int
	DepotNode int
}

func (m *Model) vehicleInstances() []vehicleInstance {
	var out []vehicleInstance
	for _, cfg := range m.Fleet.Enabled() {
		for k := 0; k < cfg.Count; k++ {
			out = append(out, vehicleInstance{
				Class:     cfg.Class,
				Cfg:       cfg,
				Ordinal:   k + 1,
				DepotNode: m.depotNode(cfg.Class),
			})
		}
	}
	return out
}

// buildResult is the mutable working state shared by every construction
// strategy before it is frozen into a domain.Solution.
type buildResult struct {
	routes   map[int][]int // vehicle index in vehicleInstances() -> ordered customer node indices
	assigned map[int]bool  // customer node index -> assigned
}

func newBuildResult(vehicles []vehicleInstance) *buildResult {
	return &buildResult{routes: make(map[int][]int, len(vehicles)), assigned: make(map[int]bool)}
}

// Construct runs the named first-solution strategy and returns the
// resulting per-vehicle node sequences alongside any customers it could
// not place.
func (m *Model) Construct(strategy Strategy) (map[int][]int, []int, error) {
	switch strategy {
	case StrategyPathCheapestArc:
		return m.constructPathCheapestArc()
	case StrategySavings:
		return m.constructSavings()
	case StrategyParallelCheapestInsertion:
		return m.constructParallelCheapestInsertion()
	case StrategyGlobalCheapestArc:
		return m.constructGlobalCheapestArc()
	case StrategyGlobalBestInsertion:
		return m.constructGlobalBestInsertion()
	case StrategyChristofides:
		return m.constructChristofides()
	default:
		return nil, nil, fmt.Errorf("solver: unknown strategy %q", strategy)
	}
}

// constructPathCheapestArc builds one route at a time, repeatedly
// appending whichever unassigned customer is cheapest to reach from the
// route's current end, until no more customers fit (spec §4.5).
func (m *Model) constructPathCheapestArc() (map[int][]int, []int, error) {
	vehicles := m.vehicleInstances()
	br := newBuildResult(vehicles)

	for vi, v := range vehicles {
		state := initialRouteState(v.Cfg)
		lastNode := v.DepotNode
		var route []int

		for {
			bestNode, bestCost := -1, 0.0
			for _, c := range m.Customers {
				node := m.NodeOf[c.ID]
				if br.assigned[node] {
					continue
				}
				cost := m.arcCost(v.Class, lastNode, node)
				if bestNode == -1 || cost < bestCost {
					bestNode, bestCost = node, cost
				}
			}
			if bestNode == -1 {
				break
			}

			volume := m.volumeOf(bestNode)
			next, ok := m.feasibleAppend(v.Cfg, state, lastNode, bestNode, volume, float64(v.Cfg.ServiceTimeMinutes))
			if !ok || !m.returnFeasible(v.Cfg, next, bestNode, v.DepotNode) {
				break
			}

			route = append(route, bestNode)
			br.assigned[bestNode] = true
			state = next
			lastNode = bestNode
		}

		if len(route) > 0 {
			br.routes[vi] = route
		}
	}

	return br.routes, m.unassignedNodes(br), nil
}

// constructParallelCheapestInsertion builds every vehicle's route
// concurrently round by round: each round, every vehicle that still has
// capacity claims whichever unassigned customer is cheapest to insert at
// its best position, so no single vehicle is filled before the others
// get a turn (spec §4.5).
func (m *Model) constructParallelCheapestInsertion() (map[int][]int, []int, error) {
	vehicles := m.vehicleInstances()
	br := newBuildResult(vehicles)

	progress := true
	for progress {
		progress = false

		for vi, v := range vehicles {
			node, pos, _, ok := m.cheapestInsertion(v, br.routes[vi], br.assigned)
			if !ok {
				continue
			}

			route := br.routes[vi]
			route = append(route, 0)
			copy(route[pos+1:], route[pos:])
			route[pos] = node
			br.routes[vi] = route
			br.assigned[node] = true
			progress = true
		}
	}

	return br.routes, m.unassignedNodes(br), nil
}

// cheapestInsertion finds the unassigned customer and position in route
// that adds the least cost while staying feasible under every dimension.
func (m *Model) cheapestInsertion(v vehicleInstance, route []int, assigned map[int]bool) (node int, pos int, delta float64, ok bool) {
	bestNode, bestPos, bestDelta := -1, -1, 0.0

	for _, c := range m.Customers {
		candidate := m.NodeOf[c.ID]
		if assigned[candidate] {
			continue
		}

		for p := 0; p <= len(route); p++ {
			trial := make([]int, 0, len(route)+1)
			trial = append(trial, route[:p]...)
			trial = append(trial, candidate)
			trial = append(trial, route[p:]...)

			if !m.routeFeasible(v, trial) {
				continue
			}

			d := m.routeCost(v.Class, v.DepotNode, trial) - m.routeCost(v.Class, v.DepotNode, route)
			if bestNode == -1 || d < bestDelta {
				bestNode, bestPos, bestDelta = candidate, p, d
			}
		}
	}

	if bestNode == -1 {
		return 0, 0, 0, false
	}
	return bestNode, bestPos, bestDelta, true
}

// constructGlobalCheapestArc extends every vehicle's route concurrently:
// each round it picks the single (vehicle, customer) pair with the
// cheapest arc cost across ALL active vehicles at once, rather than
// filling one vehicle to completion before starting the next (spec
// §4.6). A vehicle that cannot feasibly extend with its cheapest
// remaining candidate is retired for the rest of construction.
func (m *Model) constructGlobalCheapestArc() (map[int][]int, []int, error) {
	vehicles := m.vehicleInstances()
	br := newBuildResult(vehicles)

	lastNode := make([]int, len(vehicles))
	states := make([]routeState, len(vehicles))
	active := make([]bool, len(vehicles))
	for vi, v := range vehicles {
		lastNode[vi] = v.DepotNode
		states[vi] = initialRouteState(v.Cfg)
		active[vi] = true
	}

	for {
		bestVi, bestNode, bestCost := -1, -1, 0.0
		for vi, v := range vehicles {
			if !active[vi] {
				continue
			}
			for _, c := range m.Customers {
				node := m.NodeOf[c.ID]
				if br.assigned[node] {
					continue
				}
				cost := m.arcCost(v.Class, lastNode[vi], node)
				if bestVi == -1 || cost < bestCost {
					bestVi, bestNode, bestCost = vi, node, cost
				}
			}
		}
		if bestVi == -1 {
			break
		}

		v := vehicles[bestVi]
		volume := m.volumeOf(bestNode)
		next, ok := m.feasibleAppend(v.Cfg, states[bestVi], lastNode[bestVi], bestNode, volume, float64(v.Cfg.ServiceTimeMinutes))
		if !ok || !m.returnFeasible(v.Cfg, next, bestNode, v.DepotNode) {
			active[bestVi] = false
			continue
		}

		br.routes[bestVi] = append(br.routes[bestVi], bestNode)
		br.assigned[bestNode] = true
		states[bestVi] = next
		lastNode[bestVi] = bestNode
	}

	return br.routes, m.unassignedNodes(br), nil
}

// constructGlobalBestInsertion repeatedly performs the single cheapest
// feasible insertion across every vehicle's route at once — unlike
// constructParallelCheapestInsertion, which gives each vehicle a turn
// per round regardless of relative cost (spec §4.6).
func (m *Model) constructGlobalBestInsertion() (map[int][]int, []int, error) {
	vehicles := m.vehicleInstances()
	br := newBuildResult(vehicles)

	for {
		bestVi, bestNode, bestPos, bestDelta := -1, -1, -1, 0.0
		for vi, v := range vehicles {
			node, pos, delta, ok := m.cheapestInsertion(v, br.routes[vi], br.assigned)
			if !ok {
				continue
			}
			if bestVi == -1 || delta < bestDelta {
				bestVi, bestNode, bestPos, bestDelta = vi, node, pos, delta
			}
		}
		if bestVi == -1 {
			break
		}

		route := br.routes[bestVi]
		route = append(route, 0)
		copy(route[bestPos+1:], route[bestPos:])
		route[bestPos] = bestNode
		br.routes[bestVi] = route
		br.assigned[bestNode] = true
	}

	return br.routes, m.unassignedNodes(br), nil
}

// constructChristofides approximates Christofides' algorithm via a
// greedy minimum-spanning-tree heuristic (spec §4.6): it builds an MST
// over the customer nodes by real distance, walks it in DFS preorder to
// get a tour order (the standard MST-based 2-approximation, without the
// full odd-degree matching step), then fills vehicles one at a time in
// that order, the same way constructPathCheapestArc fills a route —
// moving to the next vehicle once the current one can no longer
// feasibly extend.
func (m *Model) constructChristofides() (map[int][]int, []int, error) {
	vehicles := m.vehicleInstances()
	if len(vehicles) == 0 {
		return nil, m.allCustomerNodes(), nil
	}

	order := m.mstPreorder(m.allCustomerNodes())

	br := newBuildResult(vehicles)
	vi := 0
	lastNode := vehicles[0].DepotNode
	state := initialRouteState(vehicles[0].Cfg)
	var route []int

	for _, node := range order {
		if vi >= len(vehicles) {
			break
		}

		v := vehicles[vi]
		volume := m.volumeOf(node)
		next, ok := m.feasibleAppend(v.Cfg, state, lastNode, node, volume, float64(v.Cfg.ServiceTimeMinutes))
		if ok && m.returnFeasible(v.Cfg, next, node, v.DepotNode) {
			route = append(route, node)
			br.assigned[node] = true
			state = next
			lastNode = node
			continue
		}

		if len(route) > 0 {
			br.routes[vi] = route
		}
		vi++
		if vi >= len(vehicles) {
			break
		}
		route = nil
		state = initialRouteState(vehicles[vi].Cfg)
		lastNode = vehicles[vi].DepotNode

		v = vehicles[vi]
		next, ok = m.feasibleAppend(v.Cfg, state, lastNode, node, volume, float64(v.Cfg.ServiceTimeMinutes))
		if ok && m.returnFeasible(v.Cfg, next, node, v.DepotNode) {
			route = append(route, node)
			br.assigned[node] = true
			state = next
			lastNode = node
		}
	}
	if vi < len(vehicles) && len(route) > 0 {
		br.routes[vi] = route
	}

	return br.routes, m.unassignedNodes(br), nil
}

// mstPreorder builds a minimum spanning tree over nodes (by real matrix
// distance) with a simple O(n^2) Prim's algorithm, then returns a DFS
// preorder walk of it starting from nodes[0].
func (m *Model) mstPreorder(nodes []int) []int {
	if len(nodes) == 0 {
		return nil
	}

	inTree := []int{nodes[0]}
	remaining := make([]int, len(nodes)-1)
	copy(remaining, nodes[1:])

	parent := make(map[int]int, len(nodes))
	children := make(map[int][]int, len(nodes))

	for len(remaining) > 0 {
		bestIdx, bestNode, bestFrom, bestDist := -1, -1, -1, 0
		for idx, cand := range remaining {
			for _, t := range inTree {
				d := m.Matrix.DistanceMeters(t, cand)
				if bestIdx == -1 || d < bestDist {
					bestIdx, bestNode, bestFrom, bestDist = idx, cand, t, d
				}
			}
		}

		parent[bestNode] = bestFrom
		children[bestFrom] = append(children[bestFrom], bestNode)
		inTree = append(inTree, bestNode)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	order := make([]int, 0, len(nodes))
	var walk func(n int)
	walk = func(n int) {
		order = append(order, n)
		for _, c := range children[n] {
			walk(c)
		}
	}
	walk(nodes[0])
	return order
}

// routeFeasible re-derives cumulative state for a full node sequence,
// depot to depot, and checks every dimension including the closing leg
// back to the depot. Used by moves that can't accumulate state
// incrementally (insertion at an arbitrary position, 2-opt, or-opt).
func (m *Model) routeFeasible(v vehicleInstance, nodes []int) bool {
	if len(nodes) == 0 {
		return true
	}

	state := initialRouteState(v.Cfg)
	last := v.DepotNode
	for _, n := range nodes {
		var ok bool
		state, ok = m.feasibleAppend(v.Cfg, state, last, n, m.volumeOf(n), float64(v.Cfg.ServiceTimeMinutes))
		if !ok {
			return false
		}
		last = n
	}

	return m.returnFeasible(v.Cfg, state, last, v.DepotNode)
}

func (m *Model) volumeOf(node int) float64 {
	offset := m.Matrix.Size() - len(m.Customers)
	idx := node - offset
	if idx < 0 || idx >= len(m.Customers) {
		return 0
	}
	return m.Customers[idx].Volume
}

func (m *Model) unassignedNodes(br *buildResult) []int {
	var out []int
	for _, c := range m.Customers {
		node := m.NodeOf[c.ID]
		if !br.assigned[node] {
			out = append(out, node)
		}
	}
	return out
}

// constructSavings implements a Clarke-Wright savings construction
// (spec §4.5): every customer starts on its own route from a canonical
// depot, routes are merged in descending order of savings, and the
// surviving routes (longest first) are each assigned to the first unused
// vehicle instance, in fleet order, whose dimensions they fit.
func (m *Model) constructSavings() (map[int][]int, []int, error) {
	vehicles := m.vehicleInstances()
	if len(vehicles) == 0 {
		return nil, m.allCustomerNodes(), nil
	}
	canonicalDepot := vehicles[0].DepotNode

	nodes := m.allCustomerNodes()
	type savingsPair struct {
		a, b  int
		value float64
	}
	var pairs []savingsPair
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]
			s := float64(m.Matrix.DistanceMeters(canonicalDepot, a)) +
				float64(m.Matrix.DistanceMeters(canonicalDepot, b)) -
				float64(m.Matrix.DistanceMeters(a, b))
			pairs = append(pairs, savingsPair{a, b, s})
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].value > pairs[j].value })

	routes := make([][]int, 0, len(nodes))
	indexOfRoute := make(map[int]int, len(nodes)) // node -> index into routes
	for _, n := range nodes {
		routes = append(routes, []int{n})
		indexOfRoute[n] = len(routes) - 1
	}

	isEndpoint := func(route []int, n int) bool {
		return len(route) > 0 && (route[0] == n || route[len(route)-1] == n)
	}

	for _, p := range pairs {
		ia, okA := indexOfRoute[p.a]
		ib, okB := indexOfRoute[p.b]
		if !okA || !okB || ia == ib {
			continue
		}
		ra, rb := routes[ia], routes[ib]
		if ra == nil || rb == nil || !isEndpoint(ra, p.a) || !isEndpoint(rb, p.b) {
			continue
		}

		merged := mergeRoutes(ra, rb, p.a, p.b)
		if !m.anyVehicleFits(vehicles, merged) {
			continue
		}

		routes[ia] = merged
		routes[ib] = nil
		for _, n := range merged {
			indexOfRoute[n] = ia
		}
	}

	var survivors [][]int
	for _, r := range routes {
		if r != nil {
			survivors = append(survivors, r)
		}
	}

	return m.assignRoutesToVehicles(vehicles, survivors)
}

func (m *Model) allCustomerNodes() []int {
	nodes := make([]int, len(m.Customers))
	for i, c := range m.Customers {
		nodes[i] = m.NodeOf[c.ID]
	}
	return nodes
}

func mergeRoutes(ra, rb []int, a, b int) []int {
	// Orient ra so it ends in a, rb so it starts with b, then concatenate.
	if ra[0] == a {
		ra = reversed(ra)
	}
	if rb[len(rb)-1] == b {
		rb = reversed(rb)
	}
	out := make([]int, 0, len(ra)+len(rb))
	out = append(out, ra...)
	out = append(out, rb...)
	return out
}

func reversed(nodes []int) []int {
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[len(nodes)-1-i] = n
	}
	return out
}

func (m *Model) anyVehicleFits(vehicles []vehicleInstance, route []int) bool {
	for _, v := range vehicles {
		if m.routeFeasible(v, route) {
			return true
		}
	}
	return false
}

// assignRoutesToVehicles greedily assigns each candidate route (largest
// first) to the first vehicle instance it fits, splitting any route
// that fits no single vehicle into individual unassigned customers
// rather than dropping it wholesale.
func (m *Model) assignRoutesToVehicles(vehicles []vehicleInstance, routes [][]int) (map[int][]int, []int, error) {
	sort.Slice(routes, func(i, j int) bool { return len(routes[i]) > len(routes[j]) })

	used := make([]bool, len(vehicles))
	result := make(map[int][]int, len(vehicles))
	var unassigned []int

	for _, r := range routes {
		placed := false
		for vi, v := range vehicles {
			if used[vi] {
				continue
			}
			if m.routeFeasible(v, r) {
				result[vi] = r
				used[vi] = true
				placed = true
				break
			}
		}
		if !placed {
			unassigned = append(unassigned, r...)
		}
	}

	return result, unassigned, nil
}
