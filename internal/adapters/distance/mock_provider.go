package distance

import (
	"context"

	"vrpengine/internal/domain"
	"vrpengine/internal/geo"
)

// MockProvider returns a pre-built matrix regardless of the requested
// locations. It exists for solver/racer/tsp tests that need a
// deterministic ports.MatrixProvider without a live routing server.
type MockProvider struct {
	Matrix *domain.DistanceMatrix
}

func (m *MockProvider) BuildMatrix(ctx context.Context, locations []geo.Point) (*domain.DistanceMatrix, error) {
	return m.Matrix, nil
}
