// Package cache persists distance matrices behind a fingerprint key with
// TTL eviction (spec §4.3). Three backends are provided — SQLite,
// Postgres and Redis — sharing the same JSON blob encoding.
package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"vrpengine/internal/domain"
	"vrpengine/internal/geo"
)

type matrixPayload struct {
	CreatedAt  int64       `json:"created_at"`
	ExpiresAt  int64       `json:"expires_at"`
	Locations  []geo.Point `json:"locations"`
	DistancesM [][]int     `json:"distances_m"`
	DurationsS [][]int     `json:"durations_s"`
}

func encodeMatrix(m *domain.DistanceMatrix, createdAt time.Time, ttl time.Duration) ([]byte, error) {
	p := matrixPayload{
		CreatedAt:  createdAt.Unix(),
		ExpiresAt:  createdAt.Add(ttl).Unix(),
		Locations:  m.Locations,
		DistancesM: m.DistancesM,
		DurationsS: m.DurationsS,
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode matrix payload: %w", err)
	}
	return b, nil
}

// decodeMatrix returns ok=false (no error) when the payload has expired.
func decodeMatrix(b []byte) (m *domain.DistanceMatrix, ok bool, err error) {
	var p matrixPayload
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, false, fmt.Errorf("decode matrix payload: %w", err)
	}
	if time.Now().After(time.Unix(p.ExpiresAt, 0)) {
		return nil, false, nil
	}
	m, err = domain.NewDistanceMatrix(p.Locations, p.DistancesM, p.DurationsS)
	if err != nil {
		return nil, false, fmt.Errorf("decode matrix payload: %w", err)
	}
	return m, true, nil
}
