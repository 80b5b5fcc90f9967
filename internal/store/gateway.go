package store

import (
	"context"
	"errors"
	"log"
	"time"

	"backend-travique/internal/trip"

	"github.com/google/uuid"
)

// Gateway abstracts trip storage across the local durable cache and the
// optional remote store. The durability bias is local: a completed trip
// is never lost because the remote write failed.
type Gateway struct {
	remote *RemoteStore
	local  *LocalCache
}

func NewGateway(remote *RemoteStore, local *LocalCache) *Gateway {
	return &Gateway{remote: remote, local: local}
}

// Commit writes a finished or newly created trip. Remote first when
// available; the local cache is always written through regardless of the
// remote outcome, with synced flagging whether the remote copy exists.
func (g *Gateway) Commit(ctx context.Context, t trip.Trip) (trip.Trip, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	t.UpdatedAt = time.Now()

	t.Synced = false
	if g.remote != nil {
		remoteCopy, err := g.remote.Create(ctx, t)
		if err != nil {
			log.Printf("remote trip write failed, keeping local copy: %v", err)
		} else {
			t = remoteCopy
		}
	}

	if err := g.local.UpsertTrip(ctx, t.UserID, t); err != nil {
		if !t.Synced {
			return trip.Trip{}, err
		}
		log.Printf("local trip cache write failed: %v", err)
	}
	return t, nil
}

// PersistPartial updates an in-progress trip's mutable fields in both
// stores. Best effort: failures are logged and swallowed, and status is
// never written.
func (g *Gateway) PersistPartial(ctx context.Context, ownerID, tripID string, tracking *trip.TrackingData, distance float64) {
	updatedAt := time.Now()
	if g.remote != nil {
		serverTime, err := g.remote.UpdateProgress(ctx, tripID, tracking, distance)
		if err != nil {
			log.Printf("partial persist to remote failed for trip %s: %v", tripID, err)
		} else {
			updatedAt = serverTime
		}
	}

	trips, err := g.local.Trips(ctx, ownerID)
	if err != nil {
		log.Printf("partial persist local read failed for trip %s: %v", tripID, err)
		return
	}
	for i := range trips {
		if trips[i].ID == tripID {
			trips[i].TrackingData = tracking
			trips[i].Distance = distance
			trips[i].UpdatedAt = updatedAt
			if err := g.local.SaveTrips(ctx, ownerID, trips); err != nil {
				log.Printf("partial persist local write failed for trip %s: %v", tripID, err)
			}
			return
		}
	}
}

// List returns the reconciled view of an owner's trips.
func (g *Gateway) List(ctx context.Context, ownerID string) ([]trip.Trip, error) {
	local, localErr := g.local.Trips(ctx, ownerID)
	if localErr != nil && !errors.Is(localErr, errNoLocalCache) {
		log.Printf("local trip cache read failed: %v", localErr)
	}

	if g.remote == nil {
		if localErr != nil {
			return nil, localErr
		}
		return local, nil
	}

	remote, err := g.remote.Query(ctx, ownerID)
	if err != nil {
		log.Printf("remote trip query failed, serving local cache: %v", err)
		if localErr != nil {
			return nil, err
		}
		return local, nil
	}
	return mergeTrips(local, remote), nil
}

// Delete removes a trip from both stores. Local removal always takes
// effect; a remote failure is reported to the caller but not rolled back.
func (g *Gateway) Delete(ctx context.Context, ownerID, tripID string) error {
	if err := g.local.RemoveTrip(ctx, ownerID, tripID); err != nil && !errors.Is(err, errNoLocalCache) {
		log.Printf("local trip delete failed: %v", err)
	}
	if g.remote == nil {
		return nil
	}
	return g.remote.Delete(ctx, ownerID, tripID)
}

// SaveDraft stores an unstarted trip in the local cache only.
func (g *Gateway) SaveDraft(ctx context.Context, ownerID string, t trip.Trip) (trip.Trip, error) {
	if t.ID == "" {
		t.ID = "draft_" + uuid.NewString()
	}
	t.Status = trip.StatusDraft
	t.CreatedAt = time.Now()
	if err := g.local.SaveDraft(ctx, ownerID, t); err != nil {
		return trip.Trip{}, err
	}
	return t, nil
}

func (g *Gateway) LoadDraft(ctx context.Context, ownerID string) (trip.Trip, error) {
	return g.local.LoadDraft(ctx, ownerID)
}

// MarkAllUnsynced flags the owner's cached trips for re-upload.
func (g *Gateway) MarkAllUnsynced(ctx context.Context, ownerID string) error {
	return g.local.MarkAllUnsynced(ctx, ownerID)
}
