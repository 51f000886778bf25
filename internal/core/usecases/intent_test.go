package usecases_test

import (
	"testing"

	"github.com/parksyhq/parksy/internal/core/usecases"
)

func TestExtractLocation(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"parking near Trafalgar Square", "Trafalgar Square"},
		{"I need to park at King's Cross Station", "King's Cross Station"},
		{"any spots in Camden?", "Camden"},
		{"spaces near Victoria", "Victoria"},
		{"I'm going to Wembley Stadium", "Wembley Stadium"},
		{"visiting Brighton this weekend", "Brighton this weekend"},
		{"where can I park around Soho?", "Soho"},
		{"hello how are you", ""},
		{"thanks!", ""},
	}

	for _, tc := range cases {
		if got := usecases.ExtractLocation(tc.text); got != tc.want {
			t.Errorf("ExtractLocation(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestExtractLocation_StopwordsFallThrough(t *testing.T) {
	// "there" is too vague to geocode.
	if got := usecases.ExtractLocation("can I park there"); got != "" {
		t.Errorf("expected no location for vague pronoun, got %q", got)
	}
}

func TestRouteIntent_FollowUpRequiresCachedSearch(t *testing.T) {
	intent, _ := usecases.RouteIntent("which is best?", true)
	if intent != usecases.IntentFollowUp {
		t.Errorf("expected follow-up with cached search, got %v", intent)
	}

	intent, _ = usecases.RouteIntent("which is best?", false)
	if intent == usecases.IntentFollowUp {
		t.Error("follow-up must not trigger without a cached search")
	}
}

func TestRouteIntent_FollowUpShortCircuitsExtraction(t *testing.T) {
	// Contains both follow-up vocabulary and an extractable phrase; the
	// follow-up path wins when a cached search exists.
	intent, loc := usecases.RouteIntent("which one is best near Camden?", true)
	if intent != usecases.IntentFollowUp || loc != "" {
		t.Errorf("expected follow-up short-circuit, got %v %q", intent, loc)
	}
}

func TestRouteIntent_SearchAndChat(t *testing.T) {
	intent, loc := usecases.RouteIntent("parking near Trafalgar Square", false)
	if intent != usecases.IntentSearch || loc != "Trafalgar Square" {
		t.Errorf("expected search intent with location, got %v %q", intent, loc)
	}

	intent, _ = usecases.RouteIntent("hi Parksy!", false)
	if intent != usecases.IntentChat {
		t.Errorf("expected chat intent, got %v", intent)
	}
}
