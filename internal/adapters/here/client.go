// Package here implements the geocoding and place-search ports against the
// HERE REST APIs.
package here

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/parksyhq/parksy/internal/core/domain"
	"github.com/parksyhq/parksy/internal/core/ports"
)

const (
	defaultGeocodeURL  = "https://geocode.search.hereapi.com/v1/geocode"
	defaultDiscoverURL = "https://discover.search.hereapi.com/v1/discover"
)

// Client talks to the HERE geocode and discover endpoints. It implements
// ports.Geocoder and ports.PlaceSearcher.
type Client struct {
	apiKey      string
	geocodeURL  string
	discoverURL string
	httpClient  *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithEndpoints overrides the API base URLs (used by tests).
func WithEndpoints(geocodeURL, discoverURL string) Option {
	return func(c *Client) {
		c.geocodeURL = geocodeURL
		c.discoverURL = discoverURL
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a HERE client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:      apiKey,
		geocodeURL:  defaultGeocodeURL,
		discoverURL: defaultDiscoverURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type address struct {
	Label    string `json:"label"`
	City     string `json:"city"`
	District string `json:"district"`
}

type geocodeResponse struct {
	Items []struct {
		Position position `json:"position"`
		Address  address  `json:"address"`
	} `json:"items"`
}

type discoverResponse struct {
	Items []struct {
		Title    string   `json:"title"`
		Position position `json:"position"`
		Address  address  `json:"address"`
	} `json:"items"`
}

// Resolve returns the single best geocoding match for the query, or
// ports.ErrLocationNotFound when the provider has nothing.
func (c *Client) Resolve(ctx context.Context, query string) (domain.LocationInfo, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("apikey", c.apiKey)
	params.Set("limit", "1")

	var resp geocodeResponse
	if err := c.getJSON(ctx, c.geocodeURL, params, &resp); err != nil {
		return domain.LocationInfo{}, fmt.Errorf("geocode %q: %w", query, err)
	}

	if len(resp.Items) == 0 {
		return domain.LocationInfo{}, ports.ErrLocationNotFound
	}

	item := resp.Items[0]
	return domain.LocationInfo{
		Point:    domain.GeoPoint{Lat: item.Position.Lat, Lon: item.Position.Lng},
		Address:  item.Address.Label,
		City:     item.Address.City,
		District: item.Address.District,
	}, nil
}

// Search runs one discover pass. Missing provider fields come back as zero
// values; transport and HTTP errors surface so the caller can skip the pass.
func (c *Client) Search(ctx context.Context, origin domain.GeoPoint, q ports.PlaceQuery) ([]ports.RawPlace, error) {
	params := url.Values{}
	params.Set("at", fmt.Sprintf("%f,%f", origin.Lat, origin.Lon))
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("apikey", c.apiKey)
	if q.Category != "" {
		params.Set("categories", q.Category)
	} else {
		params.Set("q", q.Text)
	}

	var resp discoverResponse
	if err := c.getJSON(ctx, c.discoverURL, params, &resp); err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}

	raws := make([]ports.RawPlace, 0, len(resp.Items))
	for _, item := range resp.Items {
		raws = append(raws, ports.RawPlace{
			Title:    item.Title,
			Address:  item.Address.Label,
			Position: domain.GeoPoint{Lat: item.Position.Lat, Lon: item.Position.Lng},
		})
	}
	return raws, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
