package distance

import (
	"context"

	"vrpengine/internal/geo"
)

// HaversineProvider is the last-resort tier of the distance-matrix
// service (spec §4.3): when neither routing server responds, distances
// fall back to inflated great-circle estimates so the solver still has
// a usable (if approximate) matrix.
type HaversineProvider struct {
	InflationFactor float64
	SpeedKmh        float64
}

// NewHaversineProvider applies the spec's default inflation (1.3x the
// great-circle distance, approximating road curvature) and average
// speed when the caller passes zero values.
func NewHaversineProvider(inflationFactor, speedKmh float64) *HaversineProvider {
	if inflationFactor <= 0 {
		inflationFactor = 1.3
	}
	if speedKmh <= 0 {
		speedKmh = 40
	}
	return &HaversineProvider{InflationFactor: inflationFactor, SpeedKmh: speedKmh}
}

// fetchBlock computes a sub-matrix block directly from coordinates, with
// the same signature as tableClient.fetchBlock, so it can serve as the
// final, unconditionally-succeeding step in a tiled fetch's per-block
// fallback chain (spec §4.1, §4.3).
func (h *HaversineProvider) fetchBlock(_ context.Context, locations []geo.Point, sourceIdx, destIdx []int) ([][]int, [][]int, error) {
	distances := make([][]int, len(sourceIdx))
	durations := make([][]int, len(sourceIdx))
	for i, r := range sourceIdx {
		distances[i] = make([]int, len(destIdx))
		durations[i] = make([]int, len(destIdx))
		for j, c := range destIdx {
			if r == c {
				continue
			}
			meters := geo.HaversineMeters(locations[r], locations[c]) * h.InflationFactor
			distances[i][j] = int(meters)
			durations[i][j] = int(geo.EstimatedDurationSeconds(meters, h.SpeedKmh))
		}
	}
	return distances, durations, nil
}

func (h *HaversineProvider) matrix(locations []geo.Point) ([][]int, [][]int) {
	n := len(locations)
	distances := make([][]int, n)
	durations := make([][]int, n)
	for i := range distances {
		distances[i] = make([]int, n)
		durations[i] = make([]int, n)
		for j := range distances[i] {
			if i == j {
				continue
			}
			meters := geo.HaversineMeters(locations[i], locations[j]) * h.InflationFactor
			distances[i][j] = int(meters)
			durations[i][j] = int(geo.EstimatedDurationSeconds(meters, h.SpeedKmh))
		}
	}
	return distances, durations
}
