package usecases

import (
	"fmt"
	"math/rand"

	"github.com/parksyhq/parksy/internal/core/domain"
)

// SyntheticGenerator fabricates plausible filler spots for areas where
// provider coverage is thin. Every generated spot carries Synthetic=true so
// formatters can distinguish it from real inventory.
type SyntheticGenerator struct {
	rng *rand.Rand
}

// NewSyntheticGenerator creates a generator seeded for reproducibility in
// tests; production wiring passes a time-derived seed.
func NewSyntheticGenerator(seed int64) *SyntheticGenerator {
	return &SyntheticGenerator{rng: rand.New(rand.NewSource(seed))}
}

// Generate produces the four filler archetypes for the given location, city
// name substituted into names and addresses. Positions are deliberately
// absent: synthetic spots are assumed disjoint from real ones and are never
// deduplicated against them.
func (g *SyntheticGenerator) Generate(loc domain.LocationInfo) []domain.ParkingSpot {
	city := loc.City
	if city == "" {
		city = "the area"
	}

	return []domain.ParkingSpot{
		{
			Name:               fmt.Sprintf("%s Multi-Story Car Park", city),
			Address:            fmt.Sprintf("High Street, %s", city),
			DistanceMeters:     g.between(80, 300),
			WalkingTimeMinutes: g.between(2, 4),
			Type:               domain.ParkingGarage,
			Pricing:            domain.Pricing{HourlyRate: "£3.50", DailyRate: "£18.00", Estimated: true},
			Availability:       domain.AvailabilityGood,
			Features:           []string{"Covered", "Secure", "CCTV"},
			Score:              85,
			Synthetic:          true,
		},
		{
			Name:               fmt.Sprintf("%s Pay & Display Zone", city),
			Address:            fmt.Sprintf("Market Street, %s", city),
			DistanceMeters:     g.between(50, 250),
			WalkingTimeMinutes: g.between(1, 3),
			Type:               domain.OnStreetParking,
			Pricing:            domain.Pricing{HourlyRate: "£2.80", DailyRate: "Max 4 hours", Estimated: true},
			Availability:       domain.AvailabilityLimited,
			Features:           []string{"Pay & Display", "Time Limited"},
			Score:              70,
			Synthetic:          true,
		},
		{
			Name:               fmt.Sprintf("%s Shopping Centre Car Park", city),
			Address:            fmt.Sprintf("Retail Park, %s", city),
			DistanceMeters:     g.between(150, 400),
			WalkingTimeMinutes: g.between(3, 6),
			Type:               domain.ParkingLot,
			Pricing:            domain.Pricing{HourlyRate: "£2.20", DailyRate: "£12.00", Estimated: true},
			Availability:       domain.AvailabilityExcellent,
			Features:           []string{"Large Capacity", "Free Sundays"},
			Score:              75,
			Synthetic:          true,
		},
		{
			Name:               fmt.Sprintf("%s Council Car Park", city),
			Address:            fmt.Sprintf("Town Centre, %s", city),
			DistanceMeters:     g.between(200, 450),
			WalkingTimeMinutes: g.between(3, 6),
			Type:               domain.ParkingLot,
			Pricing:            domain.Pricing{HourlyRate: "£1.80", DailyRate: "£10.00", Estimated: true},
			Availability:       domain.AvailabilityGood,
			Features:           []string{"Budget Option", "Council Run"},
			Score:              72,
			Synthetic:          true,
		},
	}
}

// between returns a random int in [min, max].
func (g *SyntheticGenerator) between(min, max int) int {
	return min + g.rng.Intn(max-min+1)
}
