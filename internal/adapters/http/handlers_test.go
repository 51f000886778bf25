package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/parksyhq/parksy/internal/adapters/http"
	"github.com/parksyhq/parksy/internal/adapters/memory"
	"github.com/parksyhq/parksy/internal/core/domain"
	"github.com/parksyhq/parksy/internal/core/ports"
	"github.com/parksyhq/parksy/internal/core/usecases"
)

// ---- Mock collaborators ----

type mockGeocoder struct {
	resolveFn func(ctx context.Context, query string) (domain.LocationInfo, error)
}

func (m *mockGeocoder) Resolve(ctx context.Context, query string) (domain.LocationInfo, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, query)
	}
	return domain.LocationInfo{}, ports.ErrLocationNotFound
}

type mockSearcher struct {
	searchFn func(ctx context.Context, origin domain.GeoPoint, q ports.PlaceQuery) ([]ports.RawPlace, error)
}

func (m *mockSearcher) Search(ctx context.Context, origin domain.GeoPoint, q ports.PlaceQuery) ([]ports.RawPlace, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, origin, q)
	}
	return nil, nil
}

type mockChatModel struct {
	generateFn func(ctx context.Context, systemPrompt, content string, preset ports.ChatPreset) (string, error)
}

func (m *mockChatModel) Generate(ctx context.Context, systemPrompt, content string, preset ports.ChatPreset) (string, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, systemPrompt, content, preset)
	}
	return "Happy to help!", nil
}

// ---- Test helpers ----

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(geo *mockGeocoder, search *mockSearcher, model *mockChatModel) *handler.Dependencies {
	now := func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	aggregator := usecases.NewAggregator(search, usecases.NewNormalizer(now), 1500)
	assistant := usecases.NewAssistant(
		geo,
		aggregator,
		usecases.NewSyntheticGenerator(1),
		usecases.NewComposer(model, now),
		memory.NewSessionStore(time.Hour),
		nil,
		nil,
		20,
	)
	return &handler.Dependencies{Assistant: assistant}
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

// ---- Chat handler tests ----

func TestChat_EmptyMessage(t *testing.T) {
	app := setupApp(makeDeps(&mockGeocoder{}, &mockSearcher{}, &mockChatModel{}))

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"  "}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var apiErr handler.APIError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		t.Fatal(err)
	}
	if apiErr.Code != "bad_request" {
		t.Errorf("expected bad_request, got %q", apiErr.Code)
	}
}

func TestChat_InvalidJSON(t *testing.T) {
	app := setupApp(makeDeps(&mockGeocoder{}, &mockSearcher{}, &mockChatModel{}))

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestChat_DefaultSessionID(t *testing.T) {
	model := &mockChatModel{
		generateFn: func(ctx context.Context, systemPrompt, content string, preset ports.ChatPreset) (string, error) {
			return "Hey! How can I help with parking today?", nil
		},
	}
	app := setupApp(makeDeps(&mockGeocoder{}, &mockSearcher{}, model))

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}

	var out handler.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.SessionID != "web_session" {
		t.Errorf("expected default session id, got %q", out.SessionID)
	}
	if out.Response != "Hey! How can I help with parking today?" {
		t.Errorf("unexpected response: %q", out.Response)
	}
	if out.Timestamp == "" {
		t.Error("expected a timestamp")
	}
}

func TestChat_SearchTurn(t *testing.T) {
	geo := &mockGeocoder{
		resolveFn: func(ctx context.Context, query string) (domain.LocationInfo, error) {
			return domain.LocationInfo{
				Point:   domain.GeoPoint{Lat: 51.5074, Lon: -0.1278},
				Address: "Westminster, London",
				City:    "London",
			}, nil
		},
	}
	search := &mockSearcher{
		searchFn: func(ctx context.Context, origin domain.GeoPoint, q ports.PlaceQuery) ([]ports.RawPlace, error) {
			return []ports.RawPlace{
				{Title: "Q-Park Westminster Garage", Address: "Great College St", Position: domain.GeoPoint{Lat: 51.4990, Lon: -0.1280}},
			}, nil
		},
	}
	model := &mockChatModel{
		generateFn: func(ctx context.Context, systemPrompt, content string, preset ports.ChatPreset) (string, error) {
			return "I found a few solid options near Westminster.", nil
		},
	}
	app := setupApp(makeDeps(geo, search, model))

	req := httptest.NewRequest("POST", "/api/chat",
		strings.NewReader(`{"message":"parking near Westminster","session_id":"s-42"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}

	var out handler.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.SessionID != "s-42" {
		t.Errorf("expected session id echoed, got %q", out.SessionID)
	}
	if out.Response != "I found a few solid options near Westminster." {
		t.Errorf("unexpected response: %q", out.Response)
	}
}

// ---- Health tests ----

func TestHealth(t *testing.T) {
	app := setupApp(makeDeps(&mockGeocoder{}, &mockSearcher{}, &mockChatModel{}))

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out["status"] != "healthy" {
		t.Errorf("expected healthy, got %q", out["status"])
	}
}

func TestReady_NoBackendsConfigured(t *testing.T) {
	app := setupApp(makeDeps(&mockGeocoder{}, &mockSearcher{}, &mockChatModel{}))

	req := httptest.NewRequest("GET", "/ready", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Status != "ready" {
		t.Errorf("expected ready, got %q", out.Status)
	}
	if out.Checks["sessions"] != "in-memory" {
		t.Errorf("expected in-memory sessions, got %q", out.Checks["sessions"])
	}
}
