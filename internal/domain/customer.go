package domain

import (
	"fmt"
	"strings"

	"vrpengine/internal/geo"
)

// Customer is a delivery stop with a cargo demand expressed in abstract
// "stack" units. A Customer with no coordinates is still constructible —
// callers route it to overflow before it ever reaches the solver (spec §3).
type Customer struct {
	ID            string
	Name          string
	Coordinates   geo.Point
	HasCoordinates bool
	Volume        float64
	RawGPS        string
}

// NewCustomer constructs a Customer from ingested fields, retaining the raw
// coordinate string for diagnostics even when parsing succeeded.
func NewCustomer(id, name string, coords geo.Point, hasCoords bool, volume float64, rawGPS string) (*Customer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("new customer: id must not be empty")
	}
	if volume < 0 {
		return nil, fmt.Errorf("new customer %q: volume must be non-negative, got %f", id, volume)
	}

	return &Customer{
		ID:             id,
		Name:           strings.TrimSpace(name),
		Coordinates:    coords,
		HasCoordinates: hasCoords,
		Volume:         volume,
		RawGPS:         rawGPS,
	}, nil
}
