package usecases

import (
	"fmt"
	"strings"
	"time"

	"github.com/parksyhq/parksy/internal/core/domain"
	"github.com/parksyhq/parksy/internal/core/ports"
	"github.com/parksyhq/parksy/internal/pkg/geospatial"
)

// maxCandidateDistanceM is the cutoff beyond which a provider result is not
// worth offering as parking for the searched location.
const maxCandidateDistanceM = 3000

// walkingPaceMPerMin is the assumed average walking pace.
const walkingPaceMPerMin = 80

var parkingTerms = []string{"park", "garage", "car", "space", "charging"}

// Normalizer converts raw provider records into typed parking spots,
// rejecting noise and filling every derived field at creation time.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer creates a Normalizer. now may be nil, in which case the
// wall clock drives the availability estimate.
func NewNormalizer(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{now: now}
}

// Normalize builds a ParkingSpot from one raw provider record, or reports
// false when the record is rejected: no title, too far from the origin, or
// unrelated to parking.
func (n *Normalizer) Normalize(raw ports.RawPlace, origin domain.GeoPoint) (domain.ParkingSpot, bool) {
	if strings.TrimSpace(raw.Title) == "" {
		return domain.ParkingSpot{}, false
	}

	distance := geospatial.DistanceMeters(origin, raw.Position)
	if distance > maxCandidateDistanceM {
		return domain.ParkingSpot{}, false
	}

	title := strings.ToLower(raw.Title)
	if !containsAny(title, parkingTerms) {
		return domain.ParkingSpot{}, false
	}

	parkingType := classify(title)

	walking := distance / walkingPaceMPerMin
	if walking < 1 {
		walking = 1
	}

	address := raw.Address
	if address == "" {
		address = "Address not available"
	}

	return domain.ParkingSpot{
		Name:               raw.Title,
		Address:            address,
		DistanceMeters:     distance,
		WalkingTimeMinutes: walking,
		Position:           raw.Position,
		Type:               parkingType,
		Pricing:            estimatePricing(parkingType, distance),
		Availability:       estimateAvailability(parkingType, n.now().Hour()),
		Features:           spotFeatures(parkingType, distance),
		Score:              spotScore(distance, parkingType),
	}, true
}

// classify picks the parking type from title keywords, first match wins.
func classify(title string) domain.ParkingType {
	switch {
	case containsAny(title, []string{"garage", "multi", "story"}):
		return domain.ParkingGarage
	case containsAny(title, []string{"street", "road", "meter"}):
		return domain.OnStreetParking
	case containsAny(title, []string{"electric", "ev", "charging"}):
		return domain.EVCharging
	default:
		return domain.ParkingLot
	}
}

// estimatePricing produces typical UK rates by type and distance band.
// Rates are fabricated, so the Estimated flag is always set.
func estimatePricing(t domain.ParkingType, distance int) domain.Pricing {
	var hourly float64
	switch t {
	case domain.ParkingGarage:
		hourly = 4.00
		if distance >= 500 {
			hourly = 3.20
		}
	case domain.OnStreetParking:
		hourly = 3.00
		if distance >= 500 {
			hourly = 2.40
		}
	case domain.EVCharging:
		hourly = 2.80
	default:
		hourly = 2.60
		if distance >= 500 {
			hourly = 2.00
		}
	}

	return domain.Pricing{
		HourlyRate: fmt.Sprintf("£%.2f", hourly),
		DailyRate:  fmt.Sprintf("£%.2f", hourly*7),
		Estimated:  true,
	}
}

// estimateAvailability is a time-of-day heuristic, not live occupancy.
func estimateAvailability(t domain.ParkingType, hour int) domain.Availability {
	if hour >= 8 && hour < 18 {
		if t == domain.OnStreetParking {
			return domain.AvailabilityLimited
		}
		return domain.AvailabilityGood
	}
	return domain.AvailabilityExcellent
}

func spotFeatures(t domain.ParkingType, distance int) []string {
	var features []string

	switch t {
	case domain.ParkingGarage:
		features = append(features, "Covered", "Secure")
	case domain.EVCharging:
		features = append(features, "EV Charging", "Electric Vehicle Friendly")
	case domain.OnStreetParking:
		features = append(features, "Street Parking")
	}

	if distance < 200 {
		features = append(features, "Very Close")
	} else if distance < 500 {
		features = append(features, "Walking Distance")
	}

	return features
}

// spotScore ranks candidates: proximity dominates, covered and EV options
// get a bonus. Always within [0,100].
func spotScore(distance int, t domain.ParkingType) int {
	score := 50

	switch {
	case distance < 200:
		score += 25
	case distance < 500:
		score += 20
	case distance < 1000:
		score += 15
	}

	switch t {
	case domain.ParkingGarage:
		score += 10
	case domain.EVCharging:
		score += 15
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
