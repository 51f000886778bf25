package usecases

import (
	"fmt"
	"strings"

	"github.com/parksyhq/parksy/internal/core/domain"
)

// AnswerFollowUp builds the deterministic best/cheapest/closest answer from
// a cached search. It performs no external call: repeated invocations on
// the same result name the same three spots. Returns "" when the cached
// result is empty.
func AnswerFollowUp(res *domain.SearchResult) string {
	if res == nil || len(res.Spots) == 0 {
		return ""
	}

	top := res.Spots[0] // list is already ranked by score

	cheapest := res.Spots[0]
	for _, s := range res.Spots[1:] {
		if s.Pricing.HourlyValue() < cheapest.Pricing.HourlyValue() {
			cheapest = s
		}
	}

	closest := res.Spots[0]
	for _, s := range res.Spots[1:] {
		if s.WalkingTimeMinutes < closest.WalkingTimeMinutes {
			closest = s
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on your %s search, here are my top picks:\n\n", res.Label)
	fmt.Fprintf(&b, "🏆 **Overall Best:** %s\n", top.Name)
	b.WriteString("   Best balance of location, price, and features\n\n")
	fmt.Fprintf(&b, "💰 **Cheapest:** %s\n", cheapest.Name)
	fmt.Fprintf(&b, "   Just %s/hour\n\n", cheapest.Pricing.HourlyRate)
	fmt.Fprintf(&b, "🚶 **Closest:** %s\n", closest.Name)
	fmt.Fprintf(&b, "   Only %d min walk\n\n", closest.WalkingTimeMinutes)
	b.WriteString("What matters most to you - price, convenience, or security?")

	return b.String()
}
