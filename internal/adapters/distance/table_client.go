package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"golang.org/x/time/rate"

	"vrpengine/internal/geo"
)

// tableClient speaks the matrix/table endpoint shared by the local and
// public routing servers (spec §4.3): POST {baseURL}/v2/matrix/{profile}
// with explicit source/destination index lists, returning parallel
// distance/duration matrices. limiter throttles outbound calls to this
// particular tier so a slow fallback server never gets hammered by the
// tiled/pairwise fetch strategies.
type tableClient struct {
	httpClient *http.Client
	baseURL    string
	profile    string
	apiKey     string
	limiter    *rate.Limiter
}

// wait blocks until the tier's limiter admits one more request, or ctx is
// done. A nil limiter (tests, or a tier with no configured rate) never
// blocks.
func (c *tableClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

type tableRequest struct {
	Locations    [][]float64 `json:"locations"`
	Sources      []int       `json:"sources"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
}

type tableResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// fetchBlock retrieves the sub-matrix from sourceIdx rows to destIdx
// columns of locations. Both index lists may be the full range for a
// single-call fetch, or restricted slices for tiled chunking.
func (c *tableClient) fetchBlock(ctx context.Context, locations []geo.Point, sourceIdx, destIdx []int) (distances, durations [][]int, err error) {
	if err := c.wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", c.baseURL, c.profile)

	coords := make([][]float64, len(locations))
	for i, p := range locations {
		coords[i] = p.LonLat()
	}

	payload, err := json.Marshal(tableRequest{
		Locations:    coords,
		Sources:      sourceIdx,
		Destinations: destIdx,
		Metrics:      []string{"distance", "duration"},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("marshal table request: %w", err)
	}

	resp, err := doWithRetry(ctx, c.httpClient, func() (*http.Request, error) {
		return newRequest(ctx, c.apiKey, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, nil, fmt.Errorf("table request failed: %w", err)
	}
	defer resp.Body.Close()

	var tr tableResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, nil, fmt.Errorf("decode table response: %w", err)
	}

	if len(tr.Distances) != len(sourceIdx) || len(tr.Durations) != len(sourceIdx) {
		return nil, nil, fmt.Errorf("table response row count mismatch: want %d, got distances=%d durations=%d", len(sourceIdx), len(tr.Distances), len(tr.Durations))
	}

	distances = make([][]int, len(sourceIdx))
	durations = make([][]int, len(sourceIdx))
	for i := range sourceIdx {
		row := tr.Distances[i]
		durRow := tr.Durations[i]
		if len(row) != len(destIdx) || len(durRow) != len(destIdx) {
			return nil, nil, fmt.Errorf("table response column count mismatch at row %d", i)
		}

		distances[i] = make([]int, len(destIdx))
		durations[i] = make([]int, len(destIdx))
		for j := range destIdx {
			if row[j] == nil || durRow[j] == nil {
				return nil, nil, fmt.Errorf("table response missing metric at [%d][%d]", i, j)
			}
			distances[i][j] = int(math.Round(*row[j]))
			durations[i][j] = int(math.Round(*durRow[j]))
		}
	}

	return distances, durations, nil
}
