package usecases

import (
	"context"
	"log/slog"
	"sort"

	"github.com/parksyhq/parksy/internal/core/domain"
	"github.com/parksyhq/parksy/internal/core/ports"
	"github.com/parksyhq/parksy/internal/pkg/metrics"
)

const (
	// maxResults caps every ranked list handed back to callers.
	maxResults = 10
	// minRealResults is the coverage threshold below which category
	// passes run and the caller backfills with synthetic spots.
	minRealResults = 5

	defaultRadiusM    = 1500
	textPassLimit     = 20
	categoryPassLimit = 15
)

// textPasses are issued in order; each term surfaces a different slice of
// the provider's inventory.
var textPasses = []string{
	"parking",
	"car park",
	"parking garage",
	"street parking",
	"parking lot",
}

// categoryPasses are the provider's parking category codes, used as backfill
// when text passes find too little.
var categoryPasses = []string{
	"700-7600-0322",
	"700-7600-0323",
	"700-7600-0000",
}

// Aggregator drives the search passes and merges their results into one
// deduplicated, ranked candidate list.
type Aggregator struct {
	searcher   ports.PlaceSearcher
	normalizer *Normalizer
	radiusM    int
}

// NewAggregator creates an Aggregator. radiusM <= 0 selects the default
// 1500 m search radius.
func NewAggregator(searcher ports.PlaceSearcher, normalizer *Normalizer, radiusM int) *Aggregator {
	if radiusM <= 0 {
		radiusM = defaultRadiusM
	}
	return &Aggregator{searcher: searcher, normalizer: normalizer, radiusM: radiusM}
}

// Aggregate returns up to 10 real candidates around origin, ranked by score
// descending with discovery order breaking ties. A failed pass is skipped;
// it never aborts the remaining passes.
func (a *Aggregator) Aggregate(ctx context.Context, origin domain.GeoPoint) []domain.ParkingSpot {
	var spots []domain.ParkingSpot
	seen := make(map[string]struct{})

	for _, query := range textPasses {
		spots = a.runPass(ctx, origin, ports.PlaceQuery{
			Text:    query,
			RadiusM: a.radiusM,
			Limit:   textPassLimit,
		}, "text", spots, seen)
	}

	if len(spots) < minRealResults {
		for _, cat := range categoryPasses {
			spots = a.runPass(ctx, origin, ports.PlaceQuery{
				Category: cat,
				RadiusM:  a.radiusM,
				Limit:    categoryPassLimit,
			}, "category", spots, seen)
		}
	}

	sort.SliceStable(spots, func(i, j int) bool {
		return spots[i].Score > spots[j].Score
	})

	if len(spots) > maxResults {
		spots = spots[:maxResults]
	}
	metrics.SpotsReturned.Observe(float64(len(spots)))
	return spots
}

// runPass issues one search pass and folds accepted results into spots.
func (a *Aggregator) runPass(ctx context.Context, origin domain.GeoPoint, q ports.PlaceQuery, kind string, spots []domain.ParkingSpot, seen map[string]struct{}) []domain.ParkingSpot {
	metrics.SearchPasses.WithLabelValues(kind).Inc()

	raws, err := a.searcher.Search(ctx, origin, q)
	if err != nil {
		metrics.SearchPassFailures.WithLabelValues(kind).Inc()
		slog.Warn("search pass skipped",
			"kind", kind, "query", q.Text, "category", q.Category, "error", err)
		return spots
	}

	for _, raw := range raws {
		spot, ok := a.normalizer.Normalize(raw, origin)
		if !ok {
			continue
		}
		key := spot.Position.DedupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		spots = append(spots, spot)
	}
	return spots
}
