package store

import (
	"context"
	"encoding/json"
	"errors"

	"backend-travique/internal/trip"

	"github.com/redis/go-redis/v9"
)

const (
	tripsKeyPrefix = "travique:trips:"
	draftKeyPrefix = "travique:draft:"
)

var errNoLocalCache = errors.New("local cache unavailable")

// ErrNoDraft is returned when the owner has no saved draft.
var ErrNoDraft = errors.New("no saved draft")

// LocalCache is the durable write-through cache for trip collections,
// keyed per owner as a serialized JSON array.
type LocalCache struct {
	rdb *redis.Client
}

func NewLocalCache(rdb *redis.Client) *LocalCache {
	return &LocalCache{rdb: rdb}
}

func (c *LocalCache) Trips(ctx context.Context, ownerID string) ([]trip.Trip, error) {
	if c == nil || c.rdb == nil {
		return nil, errNoLocalCache
	}
	raw, err := c.rdb.Get(ctx, tripsKeyPrefix+ownerID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var trips []trip.Trip
	if err := json.Unmarshal([]byte(raw), &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

func (c *LocalCache) SaveTrips(ctx context.Context, ownerID string, trips []trip.Trip) error {
	if c == nil || c.rdb == nil {
		return errNoLocalCache
	}
	raw, err := json.Marshal(trips)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, tripsKeyPrefix+ownerID, raw, 0).Err()
}

// UpsertTrip replaces the stored trip with the same id, or appends when
// none matches.
func (c *LocalCache) UpsertTrip(ctx context.Context, ownerID string, t trip.Trip) error {
	trips, err := c.Trips(ctx, ownerID)
	if err != nil {
		return err
	}
	replaced := false
	for i := range trips {
		if trips[i].ID == t.ID {
			trips[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		trips = append(trips, t)
	}
	return c.SaveTrips(ctx, ownerID, trips)
}

func (c *LocalCache) RemoveTrip(ctx context.Context, ownerID, tripID string) error {
	trips, err := c.Trips(ctx, ownerID)
	if err != nil {
		return err
	}
	kept := trips[:0]
	for _, t := range trips {
		if t.ID != tripID {
			kept = append(kept, t)
		}
	}
	return c.SaveTrips(ctx, ownerID, kept)
}

// MarkAllUnsynced flags every cached trip for re-upload, used when the
// owner signs out and back in.
func (c *LocalCache) MarkAllUnsynced(ctx context.Context, ownerID string) error {
	trips, err := c.Trips(ctx, ownerID)
	if err != nil {
		return err
	}
	for i := range trips {
		trips[i].Synced = false
	}
	return c.SaveTrips(ctx, ownerID, trips)
}

func (c *LocalCache) SaveDraft(ctx context.Context, ownerID string, t trip.Trip) error {
	if c == nil || c.rdb == nil {
		return errNoLocalCache
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, draftKeyPrefix+ownerID, raw, 0).Err()
}

func (c *LocalCache) LoadDraft(ctx context.Context, ownerID string) (trip.Trip, error) {
	if c == nil || c.rdb == nil {
		return trip.Trip{}, errNoLocalCache
	}
	raw, err := c.rdb.Get(ctx, draftKeyPrefix+ownerID).Result()
	if errors.Is(err, redis.Nil) {
		return trip.Trip{}, ErrNoDraft
	}
	if err != nil {
		return trip.Trip{}, err
	}
	var t trip.Trip
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return trip.Trip{}, err
	}
	return t, nil
}
