package distance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vrpengine/internal/geo"
)

func TestChunkIndices(t *testing.T) {
	got := chunkIndices(5, 2)
	want := [][]int{{0, 1}, {2, 3}, {4}}
	if len(got) != len(want) {
		t.Fatalf("chunkIndices() = %v, want %v", got, want)
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("block %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	locs := []geo.Point{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}}
	a := Fingerprint("driving", locs)
	b := Fingerprint("driving", locs)
	if a != b {
		t.Fatalf("Fingerprint() not deterministic: %s != %s", a, b)
	}

	c := Fingerprint("walking", locs)
	if a == c {
		t.Error("expected different profile to change fingerprint")
	}
}

func TestHaversineProviderSymmetric(t *testing.T) {
	p := NewHaversineProvider(0, 0)
	locs := []geo.Point{{Lat: 42.69, Lon: 23.32}, {Lat: 42.70, Lon: 23.35}}
	distances, _ := p.matrix(locs)

	if distances[0][1] != distances[1][0] {
		t.Errorf("expected symmetric haversine distances, got %d and %d", distances[0][1], distances[1][0])
	}
	if distances[0][0] != 0 {
		t.Errorf("expected zero self-distance, got %d", distances[0][0])
	}
}

func TestThreeTierProviderFallsBackToHaversine(t *testing.T) {
	p := NewThreeTierProvider(Config{})
	locs := []geo.Point{{Lat: 42.69, Lon: 23.32}, {Lat: 42.70, Lon: 23.35}}

	m, err := p.BuildMatrix(context.Background(), locs)
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}
	if m.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", m.Size())
	}
	if m.DistanceMeters(0, 0) != 0 {
		t.Error("expected zero diagonal")
	}
}

func TestFetchTiledDemotesPerBlockNotWholeFetch(t *testing.T) {
	// 4 locations, chunk size 1: every block is a single cell. The
	// fetcher for cell (0,1) fails; every other cell succeeds. A whole-
	// fetch abort would discard every cell; per-block demotion should
	// only fall through to the second fetcher for the one failing cell.
	locs := []geo.Point{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 0, Lon: 2}, {Lat: 0, Lon: 3}}

	primary := func(_ context.Context, _ []geo.Point, sourceIdx, destIdx []int) ([][]int, [][]int, error) {
		if sourceIdx[0] == 0 && destIdx[0] == 1 {
			return nil, nil, errors.New("primary unavailable for this block")
		}
		return [][]int{{111}}, [][]int{{11}}, nil
	}
	fallback := func(_ context.Context, _ []geo.Point, _, _ []int) ([][]int, [][]int, error) {
		return [][]int{{222}}, [][]int{{22}}, nil
	}

	distances, _, err := fetchTiled(context.Background(), locs, 1, primary, fallback)
	if err != nil {
		t.Fatalf("fetchTiled() error = %v", err)
	}

	if distances[0][1] != 222 {
		t.Errorf("distances[0][1] = %d, want 222 (fallback value)", distances[0][1])
	}
	if distances[0][2] != 111 {
		t.Errorf("distances[0][2] = %d, want 111 (primary value preserved)", distances[0][2])
	}
}

func TestThreeTierProviderSingleCallTier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req tableRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		n := len(req.Sources)
		m := len(req.Destinations)
		distances := make([][]*float64, n)
		durations := make([][]*float64, n)
		for i := 0; i < n; i++ {
			distances[i] = make([]*float64, m)
			durations[i] = make([]*float64, m)
			for j := 0; j < m; j++ {
				d, s := 1000.0, 60.0
				if req.Sources[i] == req.Destinations[j] {
					d, s = 0, 0
				}
				distances[i][j] = &d
				durations[i][j] = &s
			}
		}
		_ = json.NewEncoder(w).Encode(tableResponse{Distances: distances, Durations: durations})
	}))
	defer srv.Close()

	p := NewThreeTierProvider(Config{PrimaryEndpoint: srv.URL})
	locs := []geo.Point{{Lat: 42.69, Lon: 23.32}, {Lat: 42.70, Lon: 23.35}, {Lat: 42.71, Lon: 23.36}}

	m, err := p.BuildMatrix(context.Background(), locs)
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}
	if m.DistanceMeters(0, 1) != 1000 {
		t.Errorf("DistanceMeters(0,1) = %d, want 1000", m.DistanceMeters(0, 1))
	}
}
