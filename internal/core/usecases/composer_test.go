package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/parksyhq/parksy/internal/core/domain"
	"github.com/parksyhq/parksy/internal/core/ports"
	"github.com/parksyhq/parksy/internal/core/usecases"
)

// --- Mock ChatModel ---

type mockChatModel struct {
	generateFn func(ctx context.Context, system, content string, preset ports.ChatPreset) (string, error)
	calls      int
	lastInput  string
	lastPreset ports.ChatPreset
}

func (m *mockChatModel) Generate(ctx context.Context, system, content string, preset ports.ChatPreset) (string, error) {
	m.calls++
	m.lastInput = content
	m.lastPreset = preset
	if m.generateFn != nil {
		return m.generateFn(ctx, system, content, preset)
	}
	return "model reply", nil
}

func testSpots() []domain.ParkingSpot {
	return []domain.ParkingSpot{
		{
			Name:               "Station Garage",
			Address:            "1 Station Road",
			WalkingTimeMinutes: 3,
			Pricing:            domain.Pricing{HourlyRate: "£4.00", Estimated: true},
			Availability:       domain.AvailabilityGood,
			Features:           []string{"Covered", "Secure", "Very Close", "CCTV"},
			Score:              85,
		},
		{
			Name:               "Town Square Lot",
			Address:            "5 Market Place",
			WalkingTimeMinutes: 7,
			Pricing:            domain.Pricing{HourlyRate: "£2.00", Estimated: true},
			Availability:       domain.AvailabilityExcellent,
			Score:              65,
			Synthetic:          true,
		},
	}
}

func TestGroundedReply_ContextPayload(t *testing.T) {
	model := &mockChatModel{}
	c := usecases.NewComposer(model, midday)

	sess := &domain.Session{ID: "s1"}
	sess.AppendTurn("earlier question", "earlier answer", 20)

	loc := domain.LocationInfo{Address: "Trafalgar Sq, London"}
	c.GroundedReply(context.Background(), sess, "parking near Trafalgar Square", loc, testSpots())

	for _, want := range []string{
		"Previous conversation:",
		"earlier question",
		"Location searched: Trafalgar Sq, London",
		"Found 2 parking options:",
		"Station Garage",
		"£4.00/hour (est.)",
		"Town Square Lot (representative)",
		"Availability: Good",
	} {
		if !strings.Contains(model.lastInput, want) {
			t.Errorf("context payload missing %q:\n%s", want, model.lastInput)
		}
	}

	// At most 3 features enumerated.
	if strings.Contains(model.lastInput, "CCTV") {
		t.Error("feature list should be capped at 3")
	}

	if model.lastPreset.MaxTokens != 1500 || model.lastPreset.TopP != 0.9 {
		t.Errorf("grounded preset not applied: %+v", model.lastPreset)
	}
}

func TestGroundedReply_FallbackOnModelFailure(t *testing.T) {
	model := &mockChatModel{
		generateFn: func(ctx context.Context, system, content string, preset ports.ChatPreset) (string, error) {
			return "", errors.New("upstream timeout")
		},
	}
	c := usecases.NewComposer(model, midday)

	reply := c.GroundedReply(context.Background(), &domain.Session{}, "q", domain.LocationInfo{}, testSpots())
	if !strings.Contains(reply, "I found 2 great parking options") {
		t.Errorf("expected templated summary, got %q", reply)
	}
	if !strings.Contains(reply, "(representative)") {
		t.Errorf("synthetic entry must be marked in fallback: %q", reply)
	}
}

func TestGroundedReply_FallbackTopFiveOnly(t *testing.T) {
	model := &mockChatModel{
		generateFn: func(ctx context.Context, system, content string, preset ports.ChatPreset) (string, error) {
			return "", errors.New("down")
		},
	}
	c := usecases.NewComposer(model, midday)

	var spots []domain.ParkingSpot
	for _, name := range []string{"A Car Park", "B Car Park", "C Car Park", "D Car Park", "E Car Park", "F Car Park", "G Car Park"} {
		spots = append(spots, domain.ParkingSpot{Name: name, Pricing: domain.Pricing{HourlyRate: "£2.00"}})
	}

	reply := c.GroundedReply(context.Background(), &domain.Session{}, "q", domain.LocationInfo{}, spots)
	if !strings.Contains(reply, "E Car Park") || strings.Contains(reply, "F Car Park") {
		t.Errorf("fallback should list exactly the top 5: %q", reply)
	}
}

func TestGroundedReply_ApologyWhenNoSpots(t *testing.T) {
	model := &mockChatModel{
		generateFn: func(ctx context.Context, system, content string, preset ports.ChatPreset) (string, error) {
			return "", errors.New("down")
		},
	}
	c := usecases.NewComposer(model, midday)

	reply := c.GroundedReply(context.Background(), &domain.Session{}, "q", domain.LocationInfo{}, nil)
	if !strings.Contains(reply, "here to help with parking") {
		t.Errorf("expected apology, got %q", reply)
	}
}

func TestOpenReply_PresetAndFallback(t *testing.T) {
	model := &mockChatModel{}
	c := usecases.NewComposer(model, midday)

	reply := c.OpenReply(context.Background(), &domain.Session{}, "hi there")
	if reply != "model reply" {
		t.Errorf("expected model reply, got %q", reply)
	}
	if model.lastPreset.MaxTokens != 600 {
		t.Errorf("open preset not applied: %+v", model.lastPreset)
	}

	failing := &mockChatModel{
		generateFn: func(ctx context.Context, system, content string, preset ports.ChatPreset) (string, error) {
			return "", errors.New("down")
		},
	}
	c = usecases.NewComposer(failing, midday)
	reply = c.OpenReply(context.Background(), &domain.Session{}, "hi there")
	if !strings.Contains(reply, "I'm Parksy") {
		t.Errorf("expected greeting fallback, got %q", reply)
	}
}

func TestGroundedReply_EmptyModelOutputFallsBack(t *testing.T) {
	model := &mockChatModel{
		generateFn: func(ctx context.Context, system, content string, preset ports.ChatPreset) (string, error) {
			return "   ", nil
		},
	}
	c := usecases.NewComposer(model, midday)

	reply := c.GroundedReply(context.Background(), &domain.Session{}, "q", domain.LocationInfo{}, testSpots())
	if !strings.Contains(reply, "great parking options") {
		t.Errorf("blank model output should fall back, got %q", reply)
	}
}
