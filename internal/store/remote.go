package store

import (
	"context"
	"encoding/json"
	"time"

	"backend-travique/internal/db"
	"backend-travique/internal/trip"
)

// RemoteStore persists trips in postgres. Timestamps on write are
// server-assigned so reconciliation compares one clock.
type RemoteStore struct {
	db db.Querier
}

func NewRemoteStore(q db.Querier) *RemoteStore {
	if q == nil {
		return nil
	}
	return &RemoteStore{db: q}
}

func (r *RemoteStore) Create(ctx context.Context, t trip.Trip) (trip.Trip, error) {
	companions, err := json.Marshal(t.CompanionDetails)
	if err != nil {
		return trip.Trip{}, err
	}
	tracking, err := json.Marshal(t.TrackingData)
	if err != nil {
		return trip.Trip{}, err
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO trips (id, user_id, origin, destination, departure_time, transport_mode,
		                   trip_purpose, companions, companion_details, status, start_time, end_time,
		                   duration, distance, final_distance, average_speed, waypoint_count, tracking_data)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		ON CONFLICT (id) DO UPDATE SET
			status=EXCLUDED.status, start_time=EXCLUDED.start_time, end_time=EXCLUDED.end_time,
			duration=EXCLUDED.duration, distance=EXCLUDED.distance, final_distance=EXCLUDED.final_distance,
			average_speed=EXCLUDED.average_speed, waypoint_count=EXCLUDED.waypoint_count,
			tracking_data=EXCLUDED.tracking_data, updated_at=now()
		RETURNING created_at, updated_at
	`, t.ID, t.UserID, t.Origin, t.Destination, t.DepartureTime, t.TransportMode,
		t.TripPurpose, t.Companions, companions, t.Status, timePtr(t.StartTime), timePtr(t.EndTime),
		t.Duration, t.Distance, t.FinalDistance, t.AverageSpeed, t.WaypointCount, tracking)
	if err := row.Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return trip.Trip{}, err
	}
	t.Synced = true
	return t, nil
}

// UpdateProgress writes only the mutable in-progress fields. It never
// touches status, so a late partial persist cannot undo a completed trip.
func (r *RemoteStore) UpdateProgress(ctx context.Context, tripID string, tracking *trip.TrackingData, distance float64) (time.Time, error) {
	raw, err := json.Marshal(tracking)
	if err != nil {
		return time.Time{}, err
	}
	var updatedAt time.Time
	row := r.db.QueryRow(ctx, `
		UPDATE trips
		SET tracking_data=$2, distance=$3, updated_at=now()
		WHERE id=$1
		RETURNING updated_at
	`, tripID, raw, distance)
	if err := row.Scan(&updatedAt); err != nil {
		return time.Time{}, err
	}
	return updatedAt, nil
}

func (r *RemoteStore) Query(ctx context.Context, ownerID string) ([]trip.Trip, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, origin, destination, departure_time, transport_mode,
		       trip_purpose, companions, companion_details, status, created_at, updated_at,
		       start_time, end_time, duration, distance, final_distance, average_speed,
		       waypoint_count, tracking_data
		FROM trips WHERE user_id=$1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []trip.Trip
	for rows.Next() {
		var t trip.Trip
		var companions, tracking []byte
		var startTime, endTime *time.Time
		if err := rows.Scan(&t.ID, &t.UserID, &t.Origin, &t.Destination, &t.DepartureTime, &t.TransportMode,
			&t.TripPurpose, &t.Companions, &companions, &t.Status, &t.CreatedAt, &t.UpdatedAt,
			&startTime, &endTime, &t.Duration, &t.Distance, &t.FinalDistance, &t.AverageSpeed,
			&t.WaypointCount, &tracking); err != nil {
			return nil, err
		}
		if startTime != nil {
			t.StartTime = *startTime
		}
		if endTime != nil {
			t.EndTime = *endTime
		}
		if len(companions) > 0 {
			if err := json.Unmarshal(companions, &t.CompanionDetails); err != nil {
				return nil, err
			}
		}
		if len(tracking) > 0 {
			if err := json.Unmarshal(tracking, &t.TrackingData); err != nil {
				return nil, err
			}
		}
		t.Synced = true
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func (r *RemoteStore) Delete(ctx context.Context, ownerID, tripID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM trips WHERE id=$1 AND user_id=$2`, tripID, ownerID)
	return err
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
