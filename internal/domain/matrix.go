package domain

import (
	"fmt"

	"vrpengine/internal/geo"
)

// DistanceMatrix is the ordered set of locations (depots first, then
// served customers) plus the square distance/duration matrices between
// them (spec §3). Once built it is never mutated — it is safe to share,
// unmodified, across every parallel strategy-racer worker (spec §5, §9).
type DistanceMatrix struct {
	Locations []geo.Point
	// DistancesM[i][j] is the driving distance in meters from i to j.
	DistancesM [][]int
	// DurationsS[i][j] is the driving duration in seconds from i to j.
	DurationsS [][]int
}

// NewDistanceMatrix validates the shape invariants of spec §3 (square,
// identical shape, zero diagonal) before returning a matrix.
func NewDistanceMatrix(locations []geo.Point, distancesM, durationsS [][]int) (*DistanceMatrix, error) {
	n := len(locations)
	if len(distancesM) != n || len(durationsS) != n {
		return nil, fmt.Errorf("distance matrix: row count must equal location count (%d), got distances=%d durations=%d", n, len(distancesM), len(durationsS))
	}
	for i := 0; i < n; i++ {
		if len(distancesM[i]) != n || len(durationsS[i]) != n {
			return nil, fmt.Errorf("distance matrix: row %d must have %d columns, got distances=%d durations=%d", i, n, len(distancesM[i]), len(durationsS[i]))
		}
		if distancesM[i][i] != 0 || durationsS[i][i] != 0 {
			return nil, fmt.Errorf("distance matrix: diagonal at index %d must be zero", i)
		}
	}

	return &DistanceMatrix{Locations: locations, DistancesM: distancesM, DurationsS: durationsS}, nil
}

// Size returns the number of locations (= matrix dimension).
func (m *DistanceMatrix) Size() int { return len(m.Locations) }

// DistanceMeters returns the real driving distance between two node
// indices.
func (m *DistanceMatrix) DistanceMeters(i, j int) int { return m.DistancesM[i][j] }

// DurationSeconds returns the real driving duration between two node
// indices.
func (m *DistanceMatrix) DurationSeconds(i, j int) int { return m.DurationsS[i][j] }
