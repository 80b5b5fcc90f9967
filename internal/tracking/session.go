package tracking

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"backend-travique/internal/notify"
	"backend-travique/internal/trip"
)

// Broadcaster receives accepted waypoints for live map consumers.
type Broadcaster interface {
	Broadcast(channelID string, payload []byte)
}

// Cadence controls how often in-progress state is flushed and how long
// to wait before resubscribing after a GPS timeout.
type Cadence struct {
	FlushWaypoints int
	FlushInterval  time.Duration
	RetryDelay     time.Duration
}

func (c Cadence) withDefaults() Cadence {
	if c.FlushWaypoints <= 0 {
		c.FlushWaypoints = 10
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = 30 * time.Second
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 5 * time.Second
	}
	return c
}

// Session owns one in-progress trip: its waypoint buffer, running
// aggregates and the live location subscription. All ingestion happens
// on a single run loop goroutine; the mutex only guards reads from
// snapshot callers.
type Session struct {
	source   Source
	gateway  Gateway
	notifier notify.Notifier
	hub      Broadcaster
	cadence  Cadence
	now      func() time.Time

	mu              sync.Mutex
	trip            trip.Trip
	buffer          *WaypointBuffer
	startTime       time.Time
	accepted        uint64
	currentSpeedKmh float64
	averageSpeedKmh float64
	tracking        bool
	sub             *Subscription

	flusher *flusher
	stopCh  chan struct{}
	doneCh  chan struct{}
}

var subscribeOptions = SubscribeOptions{
	HighAccuracy: true,
	Timeout:      30 * time.Second,
	MaxSampleAge: 5 * time.Second,
}

func newSession(t trip.Trip, source Source, gateway Gateway, notifier notify.Notifier, hub Broadcaster, cadence Cadence, now func() time.Time) (*Session, error) {
	sub, err := source.Subscribe(subscribeOptions)
	if err != nil {
		return nil, err
	}

	s := &Session{
		source:    source,
		gateway:   gateway,
		notifier:  notifier,
		hub:       hub,
		cadence:   cadence,
		now:       now,
		trip:      t,
		buffer:    NewWaypointBuffer(),
		startTime: t.StartTime,
		tracking:  true,
		sub:       sub,
		flusher:   newFlusher(gateway),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
	go s.run()
	return s, nil
}

func (s *Session) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.cadence.FlushInterval)
	defer ticker.Stop()

	// single-shot initial fix, when the source already has one
	if sample, err := s.source.Current(context.Background(), subscribeOptions); err == nil {
		s.ingest(sample)
	}

	var retryCh <-chan time.Time
	for {
		s.mu.Lock()
		sub := s.sub
		s.mu.Unlock()

		select {
		case sample, ok := <-sub.Samples:
			if !ok {
				s.park()
				continue
			}
			s.ingest(sample)
		case srcErr, ok := <-sub.Errors:
			if !ok {
				s.park()
				continue
			}
			retryCh = s.handleSourceError(srcErr, retryCh)
		case <-ticker.C:
			s.flush()
		case <-retryCh:
			retryCh = nil
			s.resubscribe()
		case <-s.stopCh:
			return
		}
	}
}

// park swaps in a subscription with nil channels after the source closed
// ours, so the loop keeps serving flush ticks and stop.
func (s *Session) park() {
	s.mu.Lock()
	s.sub = &Subscription{}
	s.mu.Unlock()
}

func (s *Session) ingest(sample Sample) {
	s.mu.Lock()
	wp, ok := s.buffer.Append(sample)
	if !ok {
		tripID := s.trip.ID
		s.mu.Unlock()
		log.Printf("dropped location sample with invalid coordinates for trip %s", tripID)
		return
	}

	if sample.Speed != nil {
		s.currentSpeedKmh = *sample.Speed * 3.6
	} else {
		s.currentSpeedKmh = 0
	}

	elapsedHours := s.now().Sub(s.startTime).Hours()
	if elapsedHours > 1e-9 {
		s.averageSpeedKmh = s.buffer.TotalDistanceKm() / elapsedHours
	} else {
		s.averageSpeedKmh = 0
	}

	s.accepted++
	shouldFlush := s.accepted%uint64(s.cadence.FlushWaypoints) == 0
	tripID := s.trip.ID
	s.mu.Unlock()

	s.broadcastWaypoint(tripID, wp)
	if shouldFlush {
		s.flush()
	}
}

func (s *Session) broadcastWaypoint(tripID string, wp trip.Waypoint) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(wp)
	if err != nil {
		return
	}
	s.hub.Broadcast(tripID, payload)
}

// flush enqueues a partial persist of the current tracking state. Both
// the per-N-waypoints trigger and the periodic timer land here; the
// flusher coalesces them per trip id.
func (s *Session) flush() {
	s.mu.Lock()
	job := flushJob{
		ownerID: s.trip.UserID,
		tripID:  s.trip.ID,
		tracking: &trip.TrackingData{
			Waypoints:     s.buffer.Waypoints(),
			StartTime:     s.startTime,
			TotalDistance: s.buffer.TotalDistanceKm(),
			CurrentSpeed:  s.currentSpeedKmh,
			AverageSpeed:  s.averageSpeedKmh,
			IsTracking:    true,
		},
		distance: s.buffer.TotalDistanceKm(),
	}
	s.mu.Unlock()

	s.flusher.enqueue(job)
}

func (s *Session) handleSourceError(e SourceError, retryCh <-chan time.Time) <-chan time.Time {
	switch e.Code {
	case ErrCodeTimeout:
		s.notifier.Notify("GPS timeout. Retrying...", notify.SeverityWarning)
		if retryCh == nil {
			retryCh = time.After(s.cadence.RetryDelay)
		}
		return retryCh
	case ErrCodePermissionDenied:
		s.notifier.Notify("GPS permission denied. Please enable location access.", notify.SeverityWarning)
	case ErrCodePositionUnavailable:
		s.notifier.Notify("GPS position unavailable.", notify.SeverityWarning)
	default:
		log.Printf("unrecognized location source error: %v", e)
	}
	return retryCh
}

func (s *Session) resubscribe() {
	sub, err := s.source.Subscribe(subscribeOptions)
	if err != nil {
		s.notifier.Notify("GPS resubscription failed.", notify.SeverityWarning)
		return
	}
	s.mu.Lock()
	old := s.sub
	s.sub = sub
	s.mu.Unlock()
	old.Cancel()
}

// Snapshot returns the live aggregates for UI consumers.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		TripID:          s.trip.ID,
		ElapsedSeconds:  int64(s.now().Sub(s.startTime).Seconds()),
		DistanceKm:      s.buffer.TotalDistanceKm(),
		CurrentSpeedKmh: s.currentSpeedKmh,
		AverageSpeedKmh: s.averageSpeedKmh,
		WaypointCount:   s.buffer.Count(),
		RejectedSamples: s.buffer.Rejected(),
		IsTracking:      s.tracking,
	}
}

// stop halts ingestion synchronously, finalizes the trip and commits it.
// The run loop is stopped and the subscription cancelled before any
// final field is computed, so no late sample can mutate a completed
// trip. Queued partial persists drain first; they never write status.
func (s *Session) stop(ctx context.Context) trip.Trip {
	close(s.stopCh)
	<-s.doneCh

	s.mu.Lock()
	s.sub.Cancel()
	s.tracking = false

	end := s.now()
	t := s.trip
	total := s.buffer.TotalDistanceKm()
	t.TrackingData = &trip.TrackingData{
		Waypoints:     s.buffer.Waypoints(),
		StartTime:     s.startTime,
		TotalDistance: total,
		CurrentSpeed:  s.currentSpeedKmh,
		AverageSpeed:  s.averageSpeedKmh,
		IsTracking:    false,
	}
	t.EndTime = end
	t.Duration = int(end.Sub(s.startTime) / time.Minute)
	t.Distance = total
	t.FinalDistance = total
	t.AverageSpeed = s.averageSpeedKmh
	t.WaypointCount = s.buffer.Count()
	t.Status = trip.StatusCompleted
	s.mu.Unlock()

	s.flusher.close()

	committed, err := s.gateway.Commit(ctx, t)
	if err != nil {
		log.Printf("final trip commit failed: %v", err)
		s.notifier.Notify("Failed to save trip data", notify.SeverityError)
		return t
	}
	s.notifier.Notify("Trip completed successfully!", notify.SeveritySuccess)
	return committed
}
