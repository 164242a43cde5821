package geo

import "testing"

func TestHaversineMetersZeroDistance(t *testing.T) {
	p := Point{Lat: 42.70, Lon: 23.32}
	if d := HaversineMeters(p, p); d != 0 {
		t.Fatalf("distance to self = %f, want 0", d)
	}
}

func TestHaversineMetersKnownPair(t *testing.T) {
	// Sofia center to Sofia airport, roughly 7km as the crow flies.
	center := Point{Lat: 42.6977, Lon: 23.3219}
	airport := Point{Lat: 42.6952, Lon: 23.4062}

	d := HaversineKm(center, airport)
	if d < 6 || d > 9 {
		t.Fatalf("distance = %f km, want roughly 6-9km", d)
	}
}

func TestPointValid(t *testing.T) {
	cases := []struct {
		p    Point
		want bool
	}{
		{Point{Lat: 42.7, Lon: 23.3}, true},
		{Point{Lat: 91, Lon: 0}, false},
		{Point{Lat: 0, Lon: -181}, false},
	}
	for _, c := range cases {
		if got := c.p.Valid(); got != c.want {
			t.Errorf("Point{%v}.Valid() = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestEstimatedDurationSeconds(t *testing.T) {
	got := EstimatedDurationSeconds(40000, 40)
	if got != 3600 {
		t.Fatalf("duration = %f, want 3600", got)
	}
}
