package domain

// Turn is one completed user/assistant exchange.
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// SearchResult is the ranked outcome of one parking search. A session's next
// search supersedes it wholesale; results are never merged.
type SearchResult struct {
	Spots    []ParkingSpot `json:"spots"`
	Location LocationInfo  `json:"location"`
	// Label is the short place name used when referring back to the
	// search in follow-up answers (city when known, else the phrase
	// the user gave).
	Label string `json:"label"`
}

// Session is the per-conversation state, keyed by an opaque caller-supplied
// identifier. Created lazily on the first message for a new id.
type Session struct {
	ID         string        `json:"id"`
	Turns      []Turn        `json:"turns"`
	LastSearch *SearchResult `json:"last_search,omitempty"`
}

// AppendTurn records a completed exchange, keeping at most maxTurns of
// history. maxTurns <= 0 means unbounded.
func (s *Session) AppendTurn(user, assistant string, maxTurns int) {
	s.Turns = append(s.Turns, Turn{User: user, Assistant: assistant})
	if maxTurns > 0 && len(s.Turns) > maxTurns {
		s.Turns = s.Turns[len(s.Turns)-maxTurns:]
	}
}

// RecentTurns returns up to n of the most recent turns in chronological
// order.
func (s *Session) RecentTurns(n int) []Turn {
	if n <= 0 || len(s.Turns) == 0 {
		return nil
	}
	if len(s.Turns) <= n {
		return s.Turns
	}
	return s.Turns[len(s.Turns)-n:]
}
