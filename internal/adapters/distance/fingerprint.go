package distance

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"vrpengine/internal/geo"
)

// Fingerprint deterministically identifies a (profile, location set) pair
// for the matrix cache (spec §4.3). Locations are hashed in the order
// given, so the caller must keep a stable location ordering across a
// solve for cache hits to occur.
func Fingerprint(profile string, locations []geo.Point) string {
	h := sha256.New()
	fmt.Fprintf(h, "profile=%s;n=%d;", profile, len(locations))
	for _, p := range locations {
		fmt.Fprintf(h, "%.6f,%.6f;", p.Lat, p.Lon)
	}
	return hex.EncodeToString(h.Sum(nil))
}
