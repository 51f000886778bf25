package geospatial_test

import (
	"testing"

	"github.com/parksyhq/parksy/internal/core/domain"
	"github.com/parksyhq/parksy/internal/pkg/geospatial"
)

func TestDistanceMeters_Identity(t *testing.T) {
	p := domain.GeoPoint{Lat: 51.5080, Lon: -0.1281}
	if d := geospatial.DistanceMeters(p, p); d != 0 {
		t.Errorf("expected 0 for identical points, got %d", d)
	}
}

func TestDistanceMeters_Symmetry(t *testing.T) {
	a := domain.GeoPoint{Lat: 51.5080, Lon: -0.1281}
	b := domain.GeoPoint{Lat: 51.5030, Lon: -0.1195}
	if ab, ba := geospatial.DistanceMeters(a, b), geospatial.DistanceMeters(b, a); ab != ba {
		t.Errorf("distance not symmetric: %d vs %d", ab, ba)
	}
}

func TestDistanceMeters_KnownPair(t *testing.T) {
	// 0.0090 degrees of latitude at the equator is very close to 1 km.
	a := domain.GeoPoint{Lat: 0, Lon: 0}
	b := domain.GeoPoint{Lat: 0.0090, Lon: 0}
	d := geospatial.DistanceMeters(a, b)
	if d < 990 || d > 1010 {
		t.Errorf("expected ~1000 m, got %d", d)
	}
}

func TestDistanceMeters_Truncates(t *testing.T) {
	a := domain.GeoPoint{Lat: 0, Lon: 0}
	b := domain.GeoPoint{Lat: 0.00001, Lon: 0}
	d := geospatial.DistanceMeters(a, b)
	f := geospatial.Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
	if d != int(f) {
		t.Errorf("expected truncation of %f, got %d", f, d)
	}
}
