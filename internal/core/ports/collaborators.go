package ports

import (
	"context"

	"github.com/parksyhq/parksy/internal/core/domain"
)

// ErrLocationNotFound is returned by Geocoder when a phrase resolves to
// nothing. Provider-specific errors are mapped to it by the adapter.
var ErrLocationNotFound = Error("location not found")

// Error is a sentinel error string.
type Error string

func (e Error) Error() string { return string(e) }

// Geocoder resolves a free-text place name to its single best match.
type Geocoder interface {
	Resolve(ctx context.Context, query string) (domain.LocationInfo, error)
}

// RawPlace is one unprocessed provider search result. Missing provider
// fields arrive as zero values, never as errors.
type RawPlace struct {
	Title    string
	Address  string
	Position domain.GeoPoint
}

// PlaceQuery describes one search pass. Exactly one of Text or Category is
// set.
type PlaceQuery struct {
	Text     string
	Category string
	RadiusM  int
	Limit    int
}

// PlaceSearcher runs one search pass against the places provider. Transport
// failures surface as errors so the caller can skip the pass.
type PlaceSearcher interface {
	Search(ctx context.Context, origin domain.GeoPoint, q PlaceQuery) ([]RawPlace, error)
}

// ChatPreset bundles the generation parameters for one kind of reply.
type ChatPreset struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// ChatModel generates a natural-language reply from a system prompt and a
// context payload. Failures are absorbed by the composer's fallback.
type ChatModel interface {
	Generate(ctx context.Context, systemPrompt, content string, preset ChatPreset) (string, error)
}
