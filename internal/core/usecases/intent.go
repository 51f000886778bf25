package usecases

import (
	"regexp"
	"strings"
)

// Intent is the routing decision for one user message.
type Intent int

const (
	// IntentFollowUp answers from the cached last search, no external call.
	IntentFollowUp Intent = iota
	// IntentSearch runs the geocode + aggregate pipeline.
	IntentSearch
	// IntentChat is open conversation with no parking data.
	IntentChat
)

// followUpWords route a message to the cached results when a previous
// search exists.
var followUpWords = []string{"best", "recommend", "suggest", "which"}

// locationStopwords are captures too vague to geocode; matching one makes
// the rule fall through to the next pattern.
var locationStopwords = map[string]struct{}{
	"there": {}, "here": {}, "it": {}, "this": {}, "that": {}, "a": {}, "the": {},
}

// locationPatterns are tried in order; the first capture that survives the
// stopword check wins.
var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:at|near|in|around|by|close to|next to)\s+([^?.,!]+?)(?:\s+(?:at|for|during)|\s*[?.,!]|$)`),
	regexp.MustCompile(`(?i)park\s+(?:at|near|in|around|by|close to|next to)\s+([^?.,!]+?)(?:\s+(?:at|for|during)|\s*[?.,!]|$)`),
	regexp.MustCompile(`(?i)parking\s+(?:at|near|in|around|by|close to|next to)\s+([^?.,!]+?)(?:\s+(?:at|for|during)|\s*[?.,!]|$)`),
	regexp.MustCompile(`(?i)(?:where|how|can)\s+.*?(?:at|near|in|around|by)\s+([^?.,!]+?)(?:\s*[?.,!]|$)`),
	regexp.MustCompile(`(?i)going\s+to\s+([^?.,!]+?)(?:\s+(?:at|for|during)|\s*[?.,!]|$)`),
	regexp.MustCompile(`(?i)visiting\s+([^?.,!]+?)(?:\s+(?:at|for|during)|\s*[?.,!]|$)`),
	regexp.MustCompile(`(?i)spots?\s+(?:in|at|near)\s+([^?.,!]+?)(?:\s*[?.,!]|$)`),
	regexp.MustCompile(`(?i)spaces?\s+(?:in|at|near)\s+([^?.,!]+?)(?:\s*[?.,!]|$)`),
}

// RouteIntent classifies a message. hasLastSearch gates the follow-up path:
// follow-up vocabulary short-circuits before any location extraction.
func RouteIntent(text string, hasLastSearch bool) (Intent, string) {
	if hasLastSearch && isFollowUp(text) {
		return IntentFollowUp, ""
	}
	if loc := ExtractLocation(text); loc != "" {
		return IntentSearch, loc
	}
	return IntentChat, ""
}

func isFollowUp(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range followUpWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// ExtractLocation pulls the target location phrase out of free text, or
// returns "" when no rule yields a usable phrase.
func ExtractLocation(text string) string {
	for _, pattern := range locationPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		loc := strings.TrimSpace(m[1])
		if _, vague := locationStopwords[strings.ToLower(loc)]; vague {
			continue
		}
		if loc != "" {
			return loc
		}
	}
	return ""
}
