package domain

import "time"

// SearchCompletedEvent is published after every completed parking search so
// downstream consumers (analytics, coverage monitoring) can observe demand.
type SearchCompletedEvent struct {
	SessionID      string    `json:"session_id"`
	Query          string    `json:"query"`
	City           string    `json:"city,omitempty"`
	ResultCount    int       `json:"result_count"`
	SyntheticCount int       `json:"synthetic_count"`
	OccurredAt     time.Time `json:"occurred_at"`
}
