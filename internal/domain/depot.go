package domain

import (
	"fmt"

	"vrpengine/internal/geo"
)

// DepotSet is the ordered collection of depots that occupy the leading
// indices of a DistanceMatrix (spec §3: "node 0 is the main depot, depots
// occupy the leading indices"). The main depot is always index 0.
type DepotSet struct {
	locations []geo.Point
	index     map[geo.Point]int
}

// NewDepotSet builds a depot set with main as index 0, followed by every
// distinct alternate depot referenced by a vehicle class's start or TSP
// location, preserving first-seen order for determinism.
func NewDepotSet(main geo.Point, alternates ...geo.Point) *DepotSet {
	ds := &DepotSet{
		locations: make([]geo.Point, 0, 1+len(alternates)),
		index:     make(map[geo.Point]int, 1+len(alternates)),
	}
	ds.add(main)
	for _, a := range alternates {
		ds.add(a)
	}
	return ds
}

func (d *DepotSet) add(p geo.Point) int {
	if idx, ok := d.index[p]; ok {
		return idx
	}
	idx := len(d.locations)
	d.locations = append(d.locations, p)
	d.index[p] = idx
	return idx
}

// Add registers an alternate depot if not already present and returns its
// index.
func (d *DepotSet) Add(p geo.Point) int { return d.add(p) }

// Main returns the main depot (always index 0).
func (d *DepotSet) Main() geo.Point { return d.locations[0] }

// IndexOf returns the matrix index of a depot, or an error if it was never
// registered (spec §3 invariant: "every referenced depot participates in
// the distance matrix").
func (d *DepotSet) IndexOf(p geo.Point) (int, error) {
	idx, ok := d.index[p]
	if !ok {
		return 0, fmt.Errorf("depot set: location %+v is not a registered depot", p)
	}
	return idx, nil
}

// Locations returns the depots in stable index order.
func (d *DepotSet) Locations() []geo.Point {
	out := make([]geo.Point, len(d.locations))
	copy(out, d.locations)
	return out
}

// Len returns the number of distinct depots.
func (d *DepotSet) Len() int { return len(d.locations) }
