package domain

import "fmt"

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point lies within WGS 84 bounds.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// DedupKey returns the coordinate identity used for duplicate suppression:
// latitude and longitude rounded to 4 decimal places (~11 m).
func (p GeoPoint) DedupKey() string {
	return fmt.Sprintf("%.4f,%.4f", p.Lat, p.Lon)
}

// LocationInfo is a geocoded place: the single best match for a free-text
// location phrase. Immutable once produced by the geocoder.
type LocationInfo struct {
	Point    GeoPoint `json:"point"`
	Address  string   `json:"address"`
	City     string   `json:"city,omitempty"`
	District string   `json:"district,omitempty"`
}
