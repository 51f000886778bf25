// Package valkey backs the session store with a Valkey (Redis-compatible)
// server, letting session state move out of the API process.
package valkey

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/parksyhq/parksy/internal/core/domain"
)

const keyPrefix = "parksy:session:"

// SessionStore implements ports.SessionStore on Valkey. Sessions are stored
// as JSON with a TTL refreshed on every write.
type SessionStore struct {
	client valkey.Client
	ttl    time.Duration
}

// New connects to Valkey.
func New(addr string, ttl time.Duration) (*SessionStore, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionStore{client: client, ttl: ttl}, nil
}

// Get returns the stored session, or a fresh empty one when the key is
// missing or its payload is unreadable.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	cmd := s.client.Do(ctx, s.client.B().Get().Key(keyPrefix+id).Build())
	if cmd.Error() != nil {
		if valkey.IsValkeyNil(cmd.Error()) {
			return &domain.Session{ID: id}, nil
		}
		return nil, cmd.Error()
	}

	data, err := cmd.AsBytes()
	if err != nil {
		return nil, err
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// Corrupt payload: start the conversation over rather than fail.
		return &domain.Session{ID: id}, nil
	}
	return &sess, nil
}

// Put stores the session and refreshes its TTL.
func (s *SessionStore) Put(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	cmd := s.client.Do(ctx,
		s.client.B().Set().Key(keyPrefix+session.ID).Value(string(data)).Ex(s.ttl).Build(),
	)
	return cmd.Error()
}

// Close releases the client.
func (s *SessionStore) Close() {
	s.client.Close()
}
