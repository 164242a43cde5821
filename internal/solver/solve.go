package solver

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"vrpengine/internal/domain"
	"vrpengine/internal/routeerr"
)

// Result is one construction+improvement run's output, before the
// racer picks a winner across several such results.
type Result struct {
	Solution          *domain.Solution
	Strategy          Strategy
	Meta              MetaStrategy
	ObjectiveDistance float64
}

// Solve runs one (first-solution, local-search) pair to completion
// within the given deadline and converts the result into a
// domain.Solution. When the model disallows skipping and any customer
// is left unplaced, it returns routeerr.ErrModelInfeasible (spec §7).
func (m *Model) Solve(strategy Strategy, meta MetaStrategy, deadline time.Time) (*Result, error) {
	routes, unassigned, err := m.Construct(strategy)
	if err != nil {
		return nil, fmt.Errorf("solver: construct: %w", err)
	}

	vehicles := m.vehicleInstances()

	if time.Now().Before(deadline) && len(routes) > 0 {
		routes = m.Improve(routes, vehicles, meta, deadline)
	}

	if len(unassigned) > 0 && !m.AllowSkipping {
		return nil, fmt.Errorf("%d customers unplaceable under current fleet/dimensions: %w", len(unassigned), routeerr.ErrModelInfeasible)
	}

	solution, objective := m.toSolution(routes, vehicles, unassigned)

	return &Result{
		Solution:          solution,
		Strategy:          strategy,
		Meta:              meta,
		ObjectiveDistance: objective,
	}, nil
}

func (m *Model) toSolution(routes map[int][]int, vehicles []vehicleInstance, unassignedNodes []int) (*domain.Solution, float64) {
	customerByNode := make(map[int]*domain.Customer, len(m.Customers))
	for _, c := range m.Customers {
		customerByNode[m.NodeOf[c.ID]] = c
	}

	var domainRoutes []*domain.Route
	objective := 0.0

	for vi, nodes := range routes {
		if len(nodes) == 0 {
			continue
		}
		v := vehicles[vi]

		route := &domain.Route{ID: uuid.New(), Class: v.Class, Ordinal: v.Ordinal}
		lastNode := v.DepotNode
		for _, n := range nodes {
			c := customerByNode[n]
			route.Customers = append(route.Customers, c)
			route.TotalLoad += c.Volume
			route.TotalDistanceKm += float64(m.Matrix.DistanceMeters(lastNode, n)) / 1000.0
			route.TotalDurationMin += float64(m.Matrix.DurationSeconds(lastNode, n))/60.0 + float64(v.Cfg.ServiceTimeMinutes)
			lastNode = n
		}
		route.TotalDistanceKm += float64(m.Matrix.DistanceMeters(lastNode, v.DepotNode)) / 1000.0
		route.TotalDurationMin += float64(m.Matrix.DurationSeconds(lastNode, v.DepotNode)) / 60.0

		objective += m.routeCost(v.Class, v.DepotNode, nodes) + v.Cfg.FixedCost
		domainRoutes = append(domainRoutes, route)
	}

	var overflow []domain.Overflow
	for _, n := range unassignedNodes {
		overflow = append(overflow, domain.Overflow{Customer: customerByNode[n], Reason: domain.ReasonDroppedBySolver})
		objective += m.SkipPenalty
	}

	return domain.NewSolution(domainRoutes, overflow, 0), objective
}
