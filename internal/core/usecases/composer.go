package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/parksyhq/parksy/internal/core/domain"
	"github.com/parksyhq/parksy/internal/core/ports"
	"github.com/parksyhq/parksy/internal/pkg/metrics"
)

// systemPrompt is Parksy's persona, shared by every model call.
const systemPrompt = `You are Parksy, a friendly AI parking assistant who talks like a real person. You're knowledgeable, conversational, and genuinely want to help people with their parking struggles.

Key traits:
- You're called Parksy - embrace it! Be personable and memorable
- Respond naturally to whatever users say, never force them into specific formats
- Use casual, human language with contractions and conversational phrases
- Show empathy for parking struggles (everyone hates finding parking!)
- Adapt your response style to match the user's tone and urgency
- Remember context from your conversation with each user
- Be encouraging, positive, and sometimes a bit cheeky
- Use real parking data when available, present it clearly but don't overwhelm

Response guidelines:
- Always acknowledge what they're asking about first
- If you have parking data, present it in a helpful, scannable way
- Give practical, local advice and suggestions
- Be personal - use "you" and "I" naturally
- If they're frustrated, be understanding and supportive
- If they're in a hurry, be concise and action-oriented
- If they want to chat, be conversational and fun

Remember: You're Parksy, the parking assistant people actually want to talk to. Make finding parking a little less painful!`

// greetingFallback is served when an open-conversation model call fails.
const greetingFallback = "Hey! I'm Parksy, your parking assistant. What can I help you find today?"

// apologyFallback is served when a grounded model call fails and there is
// nothing to enumerate.
const apologyFallback = "I'm having trouble with my response system, but I'm here to help with parking!"

var (
	// presetGrounded keeps the model closer to the supplied data and
	// allows a longer answer.
	presetGrounded = ports.ChatPreset{Temperature: 0.8, TopP: 0.9, MaxTokens: 1500}
	// presetOpen is for free conversation with a shorter token budget.
	presetOpen = ports.ChatPreset{Temperature: 0.8, MaxTokens: 600}
)

// Composer builds the prompt context from session history plus ranked
// candidates and hands off to the language model, degrading to deterministic
// templates when the model is unavailable.
type Composer struct {
	model ports.ChatModel
	now   func() time.Time
}

// NewComposer creates a Composer. now may be nil.
func NewComposer(model ports.ChatModel, now func() time.Time) *Composer {
	if now == nil {
		now = time.Now
	}
	return &Composer{model: model, now: now}
}

// GroundedReply answers a search-backed message. loc is the resolved
// location; spots is the ranked candidate list (possibly with synthetic
// entries).
func (c *Composer) GroundedReply(ctx context.Context, sess *domain.Session, userText string, loc domain.LocationInfo, spots []domain.ParkingSpot) string {
	content := c.buildSearchContext(sess, userText, loc, spots)

	reply, err := c.model.Generate(ctx, systemPrompt, content, presetGrounded)
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			slog.Warn("chat model failed, serving fallback", "error", err)
		}
		metrics.ReplyFallbacks.Inc()
		return fallbackSummary(spots)
	}
	return reply
}

// OpenReply answers a message with no parking data.
func (c *Composer) OpenReply(ctx context.Context, sess *domain.Session, userText string) string {
	var b strings.Builder
	writeHistory(&b, sess.RecentTurns(2))
	fmt.Fprintf(&b, "\nUser just said: %s\n\n", userText)
	b.WriteString("Respond naturally as Parksy. If it's not parking-related, gently guide toward how you can help with parking.")

	reply, err := c.model.Generate(ctx, systemPrompt, b.String(), presetOpen)
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			slog.Warn("chat model failed, serving greeting", "error", err)
		}
		metrics.ReplyFallbacks.Inc()
		return greetingFallback
	}
	return reply
}

// buildSearchContext assembles the model's context payload: recent history,
// the resolved address, the current timestamp, and the candidate listing.
func (c *Composer) buildSearchContext(sess *domain.Session, userText string, loc domain.LocationInfo, spots []domain.ParkingSpot) string {
	var b strings.Builder
	writeHistory(&b, sess.RecentTurns(3))

	address := loc.Address
	if address == "" {
		address = "No specific location"
	}

	fmt.Fprintf(&b, "Current query: %s\n\n", userText)
	fmt.Fprintf(&b, "Location searched: %s\n", address)
	fmt.Fprintf(&b, "Current time: %s\n\n", c.now().Format("Monday, January 02, 2006 at 03:04 PM"))

	if len(spots) == 0 {
		b.WriteString("No parking spots found in the searched area.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Found %d parking options:\n\n", len(spots))
	for i, spot := range spots {
		fmt.Fprintf(&b, "%d. %s\n", i+1, displayName(spot))
		fmt.Fprintf(&b, "   📍 %s\n", spot.Address)
		fmt.Fprintf(&b, "   🚶 %d min walk • 💰 %s\n", spot.WalkingTimeMinutes, rateText(spot.Pricing))
		if len(spot.Features) > 0 {
			fmt.Fprintf(&b, "   ✨ %s\n", strings.Join(firstN(spot.Features, 3), ", "))
		}
		fmt.Fprintf(&b, "   Availability: %s\n\n", spot.Availability)
	}
	return b.String()
}

// fallbackSummary is the deterministic reply used when the model is down:
// the top 5 candidates, or an apology when there are none.
func fallbackSummary(spots []domain.ParkingSpot) string {
	if len(spots) == 0 {
		return apologyFallback
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I found %d great parking options for you!\n\n", len(spots))
	for i, spot := range firstNSpots(spots, 5) {
		fmt.Fprintf(&b, "🅿️ **%d. %s**\n", i+1, displayName(spot))
		fmt.Fprintf(&b, "📍 %s\n", spot.Address)
		fmt.Fprintf(&b, "🚶 %d min walk • 💰 %s\n", spot.WalkingTimeMinutes, rateText(spot.Pricing))
		if len(spot.Features) > 0 {
			fmt.Fprintf(&b, "✨ %s\n", strings.Join(firstN(spot.Features, 2), ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// displayName marks fabricated entries so they are never presented as real
// inventory.
func displayName(spot domain.ParkingSpot) string {
	if spot.Synthetic {
		return spot.Name + " (representative)"
	}
	return spot.Name
}

// rateText marks estimated rates.
func rateText(p domain.Pricing) string {
	if p.Estimated {
		return p.HourlyRate + "/hour (est.)"
	}
	return p.HourlyRate + "/hour"
}

func writeHistory(b *strings.Builder, turns []domain.Turn) {
	if len(turns) == 0 {
		return
	}
	b.WriteString("Previous conversation:\n")
	for _, turn := range turns {
		fmt.Fprintf(b, "User: %s\nParksy: %s\n", turn.User, turn.Assistant)
	}
	b.WriteString("\n")
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func firstNSpots(spots []domain.ParkingSpot, n int) []domain.ParkingSpot {
	if len(spots) <= n {
		return spots
	}
	return spots[:n]
}
