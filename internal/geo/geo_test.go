package geo

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	// Bengaluru city centre to Electronic City is roughly 15-18 km.
	mgRoad := Point{Lat: 12.9758, Lng: 77.6045}
	eCity := Point{Lat: 12.8452, Lng: 77.6602}

	d := HaversineKm(mgRoad, eCity)
	if d < 14 || d > 18 {
		t.Fatalf("expected ~15-16km between MG Road and Electronic City, got %f", d)
	}

	if got := HaversineKm(mgRoad, mgRoad); got != 0 {
		t.Fatalf("expected zero distance to self, got %f", got)
	}

	// Symmetry.
	if ab, ba := HaversineKm(mgRoad, eCity), HaversineKm(eCity, mgRoad); math.Abs(ab-ba) > 1e-9 {
		t.Fatalf("haversine not symmetric: %f vs %f", ab, ba)
	}
}

func TestWithinRadius(t *testing.T) {
	center := Point{Lat: 12.9758, Lng: 77.6045}
	near := Point{Lat: 12.9800, Lng: 77.6100}
	far := Point{Lat: 13.1986, Lng: 77.7066} // airport, ~30km out

	if !WithinRadius(center, near, 2) {
		t.Fatal("expected nearby point within 2km radius")
	}
	if WithinRadius(center, far, 5) {
		t.Fatal("expected airport outside 5km radius")
	}
	if WithinRadius(center, near, -1) {
		t.Fatal("expected negative radius to match nothing")
	}
}

func TestCirclePolygon(t *testing.T) {
	center := Point{Lat: 12.9758, Lng: 77.6045}
	ring := CirclePolygon(center, 3, 16)

	if len(ring) != 17 {
		t.Fatalf("expected 17 ring points (closed), got %d", len(ring))
	}
	if ring[0] != ring[len(ring)-1] {
		t.Fatalf("expected closed ring, first=%v last=%v", ring[0], ring[len(ring)-1])
	}
	for i, p := range ring {
		d := HaversineKm(center, p)
		if math.Abs(d-3) > 0.05 {
			t.Fatalf("ring point %d is %fkm from center, want ~3km", i, d)
		}
	}
}

func TestCirclePolygon_SegmentFallback(t *testing.T) {
	ring := CirclePolygon(Point{}, 1, 0)
	if len(ring) != 33 {
		t.Fatalf("expected fallback to 32 segments (33 points), got %d", len(ring))
	}
}
