package tracking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"backend-travique/internal/notify"
	"backend-travique/internal/trip"

	"github.com/google/uuid"
)

// ErrAlreadyTracking is returned by StartTrip while a session is live.
// At most one trip is tracked per manager.
var ErrAlreadyTracking = errors.New("a trip is already being tracked")

// ErrNotStartable is returned when a trip's status does not allow
// tracking to begin.
var ErrNotStartable = errors.New("trip cannot be started from its current status")

// Manager is the produced surface of the tracking core: it owns the
// single active session and hands out snapshots.
type Manager struct {
	source   Source
	gateway  Gateway
	notifier notify.Notifier
	hub      Broadcaster
	cadence  Cadence
	now      func() time.Time

	mu     sync.Mutex
	active *Session
}

func NewManager(source Source, gateway Gateway, notifier notify.Notifier, hub Broadcaster, cadence Cadence) *Manager {
	if notifier == nil {
		notifier = notify.LogSink{}
	}
	return &Manager{
		source:   source,
		gateway:  gateway,
		notifier: notifier,
		hub:      hub,
		cadence:  cadence.withDefaults(),
		now:      time.Now,
	}
}

// StartTrip validates the draft, commits it as in-progress and begins
// tracking. Validation and already-tracking failures are synchronous;
// everything downstream (GPS, persistence) is non-fatal.
func (m *Manager) StartTrip(ctx context.Context, draft trip.Trip) (*Session, error) {
	if err := trip.ValidateDraft(draft); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		return nil, ErrAlreadyTracking
	}

	if draft.Status == "" {
		draft.Status = trip.StatusActive
	}
	if !trip.CanTransition(draft.Status, trip.StatusInProgress) {
		return nil, fmt.Errorf("%w: %s", ErrNotStartable, draft.Status)
	}

	// draft ids never reach postgres; a started trip gets a fresh one
	if draft.ID == "" || strings.HasPrefix(draft.ID, "draft_") {
		draft.ID = uuid.NewString()
	}
	now := m.now()
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = now
	}
	draft.Status = trip.StatusInProgress
	draft.StartTime = now

	// create the record up front so partial persists have a row to hit;
	// the gateway's local fallback makes this non-fatal offline
	committed, err := m.gateway.Commit(ctx, draft)
	if err != nil {
		return nil, err
	}

	session, err := newSession(committed, m.source, m.gateway, m.notifier, m.hub, m.cadence, m.now)
	if err != nil {
		return nil, err
	}
	m.active = session
	return session, nil
}

// StopActiveTrip finalizes and commits the active trip. Calling it with
// no active session is a no-op, reported by the second return value.
func (m *Manager) StopActiveTrip(ctx context.Context) (trip.Trip, bool) {
	m.mu.Lock()
	session := m.active
	m.active = nil
	m.mu.Unlock()

	if session == nil {
		return trip.Trip{}, false
	}
	return session.stop(ctx), true
}

// Snapshot returns the live stats of the active session, if any.
func (m *Manager) Snapshot() (Snapshot, bool) {
	m.mu.Lock()
	session := m.active
	m.mu.Unlock()

	if session == nil {
		return Snapshot{}, false
	}
	return session.Snapshot(), true
}
