package ports

import (
	"context"

	"github.com/parksyhq/parksy/internal/core/domain"
)

// SessionStore holds per-conversation state. Get returns a fresh empty
// session for unknown ids; Put replaces the stored session and refreshes
// its expiry. Implementations must be safe for concurrent use across
// distinct session ids.
type SessionStore interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Put(ctx context.Context, session *domain.Session) error
}

// TurnLogger records completed exchanges for offline analysis. Best-effort:
// callers log and ignore failures.
type TurnLogger interface {
	LogTurn(ctx context.Context, sessionID, user, assistant string) error
}

// EventPublisher publishes domain events to a message broker. Best-effort:
// callers log and ignore failures.
type EventPublisher interface {
	PublishSearchCompleted(ctx context.Context, ev *domain.SearchCompletedEvent) error
}
