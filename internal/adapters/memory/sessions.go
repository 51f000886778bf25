// Package memory provides the default in-process session store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/parksyhq/parksy/internal/core/domain"
	"github.com/parksyhq/parksy/internal/pkg/metrics"
)

type entry struct {
	session   *domain.Session
	expiresAt time.Time
}

// SessionStore implements ports.SessionStore with a TTL-evicted map. Safe
// for concurrent use; per-session request ordering is the caller's concern.
type SessionStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

// NewSessionStore creates a store whose sessions expire ttl after their
// last write. A background sweep reclaims expired entries.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	s := &SessionStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Get returns the stored session, or a fresh empty one for unknown or
// expired ids.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return &domain.Session{ID: id}, nil
	}
	return e.session, nil
}

// Put stores the session and refreshes its expiry.
func (s *SessionStore) Put(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	s.entries[session.ID] = &entry{session: session, expiresAt: time.Now().Add(s.ttl)}
	metrics.SessionsActive.Set(float64(len(s.entries)))
	s.mu.Unlock()
	return nil
}

// Close stops the background sweep.
func (s *SessionStore) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *SessionStore) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for id, e := range s.entries {
				if now.After(e.expiresAt) {
					delete(s.entries, id)
					metrics.SessionsEvicted.Inc()
				}
			}
			metrics.SessionsActive.Set(float64(len(s.entries)))
			s.mu.Unlock()
		}
	}
}
