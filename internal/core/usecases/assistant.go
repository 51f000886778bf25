package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/parksyhq/parksy/internal/core/domain"
	"github.com/parksyhq/parksy/internal/core/ports"
	"github.com/parksyhq/parksy/internal/pkg/metrics"
)

// clarifyTemplate asks the user to narrow down a location the geocoder
// could not resolve.
const clarifyTemplate = "Hmm, I'm having trouble finding '%s'. Could you be a bit more specific? Maybe include a street address or a well-known landmark?"

// Assistant orchestrates one conversation turn: intent routing, the search
// pipeline, session bookkeeping, and reply composition.
type Assistant struct {
	geocoder   ports.Geocoder
	aggregator *Aggregator
	synthetic  *SyntheticGenerator
	composer   *Composer
	sessions   ports.SessionStore
	turnLog    ports.TurnLogger     // optional
	events     ports.EventPublisher // optional
	maxTurns   int

	// sessionLocks serializes concurrent requests for the same session id
	// so history-append order is strict.
	sessionLocks sync.Map // session id -> *sync.Mutex
}

// NewAssistant wires the conversation engine. turnLog and events may be nil.
func NewAssistant(geocoder ports.Geocoder, aggregator *Aggregator, synthetic *SyntheticGenerator, composer *Composer, sessions ports.SessionStore, turnLog ports.TurnLogger, events ports.EventPublisher, maxTurns int) *Assistant {
	if maxTurns <= 0 {
		maxTurns = 20
	}
	return &Assistant{
		geocoder:   geocoder,
		aggregator: aggregator,
		synthetic:  synthetic,
		composer:   composer,
		sessions:   sessions,
		turnLog:    turnLog,
		events:     events,
		maxTurns:   maxTurns,
	}
}

// HandleMessage processes one user message start-to-finish and returns the
// assistant's reply. Collaborator failures degrade to user-facing text; the
// only returned errors are context cancellation.
func (a *Assistant) HandleMessage(ctx context.Context, sessionID, text string) (string, error) {
	mu := a.lockSession(sessionID)
	mu.Lock()
	defer mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	sess, err := a.sessions.Get(ctx, sessionID)
	if err != nil {
		slog.Warn("session load failed, starting fresh", "session_id", sessionID, "error", err)
		sess = &domain.Session{ID: sessionID}
	}

	hasCached := sess.LastSearch != nil && len(sess.LastSearch.Spots) > 0
	intent, location := RouteIntent(text, hasCached)

	var reply string
	switch intent {
	case IntentFollowUp:
		metrics.FollowUpAnswers.Inc()
		reply = AnswerFollowUp(sess.LastSearch)
	case IntentSearch:
		reply = a.handleSearch(ctx, sess, text, location)
	default:
		reply = a.composer.OpenReply(ctx, sess, text)
	}

	a.completeTurn(ctx, sess, text, reply)
	return reply, nil
}

// handleSearch resolves the location, aggregates candidates, backfills thin
// coverage, and caches the result on the session.
func (a *Assistant) handleSearch(ctx context.Context, sess *domain.Session, text, location string) string {
	loc, err := a.geocoder.Resolve(ctx, location)
	if err != nil {
		metrics.GeocodeMisses.Inc()
		if err != ports.ErrLocationNotFound {
			slog.Warn("geocoding failed", "location", location, "error", err)
		}
		return fmt.Sprintf(clarifyTemplate, location)
	}

	metrics.SearchesTotal.Inc()
	spots := a.aggregator.Aggregate(ctx, loc.Point)
	realCount := len(spots)

	if realCount < minRealResults {
		metrics.SyntheticBackfills.Inc()
		spots = append(spots, a.synthetic.Generate(loc)...)
		if len(spots) > maxResults {
			spots = spots[:maxResults]
		}
	}

	label := loc.City
	if label == "" {
		label = location
	}
	sess.LastSearch = &domain.SearchResult{Spots: spots, Location: loc, Label: label}

	a.publishSearch(ctx, sess.ID, location, loc.City, spots, realCount)

	return a.composer.GroundedReply(ctx, sess, text, loc, spots)
}

// completeTurn records the exchange in the session store and, best-effort,
// in the turn log.
func (a *Assistant) completeTurn(ctx context.Context, sess *domain.Session, user, assistant string) {
	sess.AppendTurn(user, assistant, a.maxTurns)
	if err := a.sessions.Put(ctx, sess); err != nil {
		slog.Warn("session save failed", "session_id", sess.ID, "error", err)
	}
	if a.turnLog != nil {
		if err := a.turnLog.LogTurn(ctx, sess.ID, user, assistant); err != nil {
			slog.Warn("turn log failed", "session_id", sess.ID, "error", err)
		}
	}
}

func (a *Assistant) publishSearch(ctx context.Context, sessionID, query, city string, spots []domain.ParkingSpot, realCount int) {
	if a.events == nil {
		return
	}
	ev := &domain.SearchCompletedEvent{
		SessionID:      sessionID,
		Query:          query,
		City:           city,
		ResultCount:    len(spots),
		SyntheticCount: len(spots) - realCount,
		OccurredAt:     time.Now().UTC(),
	}
	if err := a.events.PublishSearchCompleted(ctx, ev); err != nil {
		slog.Warn("search event publish failed", "session_id", sessionID, "error", err)
	}
}

func (a *Assistant) lockSession(id string) *sync.Mutex {
	v, _ := a.sessionLocks.LoadOrStore(id, &sync.Mutex{})
	return v.(*sync.Mutex)
}
