package domain

import (
	"strconv"
	"strings"
)

// ParkingType classifies a candidate parking location.
type ParkingType string

const (
	ParkingLot      ParkingType = "parking-lot"
	ParkingGarage   ParkingType = "parking-garage"
	OnStreetParking ParkingType = "on-street-parking"
	EVCharging      ParkingType = "ev-charging"
)

// Availability is a time-of-day occupancy estimate, not a live feed.
type Availability string

const (
	AvailabilityLimited   Availability = "Limited"
	AvailabilityGood      Availability = "Good"
	AvailabilityExcellent Availability = "Excellent"
)

// Pricing holds display-ready rate strings. Estimated marks fabricated
// rates so formatters can distinguish them from provider data.
type Pricing struct {
	HourlyRate string `json:"hourly_rate"`
	DailyRate  string `json:"daily_rate"`
	Estimated  bool   `json:"estimated"`
}

// HourlyValue parses the hourly rate with the currency symbol stripped.
// Unparseable rates (e.g. "Max 4 hours") sort last at 99.
func (p Pricing) HourlyValue() float64 {
	raw := strings.TrimSpace(strings.TrimLeft(p.HourlyRate, "£$€"))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 99
	}
	return v
}

// ParkingSpot is one candidate parking location. Derived fields (pricing,
// availability, features, score) are filled at creation time and the record
// is never mutated afterwards.
type ParkingSpot struct {
	Name               string       `json:"name"`
	Address            string       `json:"address"`
	DistanceMeters     int          `json:"distance_meters"`
	WalkingTimeMinutes int          `json:"walking_time_minutes"`
	Position           GeoPoint     `json:"position"`
	Type               ParkingType  `json:"parking_type"`
	Pricing            Pricing      `json:"pricing"`
	Availability       Availability `json:"availability"`
	Features           []string     `json:"features,omitempty"`
	Score              int          `json:"score"`
	Synthetic          bool         `json:"synthetic"`
}
