package domain

import "vrpengine/internal/geo"

// CenterZone is the geofenced downtown area that steers CENTER-class
// vehicles in and every other class out (spec §3, §4.4).
type CenterZone struct {
	Center   geo.Point
	RadiusKm float64
}

// DefaultCenterRadiusKm is the spec's default zone radius (spec §4.4).
const DefaultCenterRadiusKm = 1.8

// Contains reports whether a point lies within the zone radius of the
// zone center, inclusive (spec §3: "iff the great-circle distance ... is
// <= radius").
func (z CenterZone) Contains(p geo.Point) bool {
	return geo.HaversineKm(z.Center, p) <= z.RadiusKm
}
