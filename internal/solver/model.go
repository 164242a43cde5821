// Package solver builds and improves CVRP solutions over a fixed
// distance matrix. It does not fetch distances or decide which
// customers are servable at all — domain.DistanceMatrix and the
// warehouse allocator's output are both given to it (spec §4.5, §9).
package solver

import (
	"fmt"

	"vrpengine/internal/domain"
	"vrpengine/internal/geo"
)

// Model is the fully-resolved input to a solve: the node-indexed matrix,
// one depot node per vehicle class, and the fleet/zone configuration
// that the cost evaluators and dimensions check against.
type Model struct {
	Matrix      *domain.DistanceMatrix
	Customers   []*domain.Customer
	NodeOf      map[string]int // customer ID -> matrix node index
	DepotNodeOf map[domain.VehicleClass]int
	Fleet       domain.Fleet
	CenterZone  domain.CenterZone
	// DiscountForCenter and PenaltyForOthers shape only the objective
	// evaluated during the solve, never the reported or real distance
	// dimension (spec §4.4).
	DiscountForCenter float64
	PenaltyForOthers  float64
	AllowSkipping     bool
	SkipPenalty       float64
}

// NewModel assembles a Model from the matrix returned by a
// ports.MatrixProvider and the warehouse's servable customers. locations
// must be ordered depot-nodes-first, matching how the matrix was built:
// one node per distinct vehicle-class depot (deduplicated), followed by
// one node per customer in the same order as customers.
func NewModel(matrix *domain.DistanceMatrix, customers []*domain.Customer, depotNodeOf map[domain.VehicleClass]int, fleet domain.Fleet, zone domain.CenterZone, discountForCenter, penaltyForOthers float64, allowSkipping bool, skipPenalty float64) (*Model, error) {
	if matrix == nil {
		return nil, fmt.Errorf("solver: matrix must not be nil")
	}

	nodeOf := make(map[string]int, len(customers))
	offset := matrix.Size() - len(customers)
	if offset < 0 {
		return nil, fmt.Errorf("solver: matrix has %d nodes, too few for %d customers plus depots", matrix.Size(), len(customers))
	}
	for i, c := range customers {
		nodeOf[c.ID] = offset + i
	}

	return &Model{
		Matrix:            matrix,
		Customers:         customers,
		NodeOf:            nodeOf,
		DepotNodeOf:       depotNodeOf,
		Fleet:             fleet,
		CenterZone:        zone,
		DiscountForCenter: discountForCenter,
		PenaltyForOthers:  penaltyForOthers,
		AllowSkipping:     allowSkipping,
		SkipPenalty:       skipPenalty,
	}, nil
}

func (m *Model) depotNode(class domain.VehicleClass) int { return m.DepotNodeOf[class] }

func (m *Model) customerPoint(nodeIdx int) geo.Point { return m.Matrix.Locations[nodeIdx] }
