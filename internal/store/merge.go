package store

import "backend-travique/internal/trip"

// mergeTrips reconciles the local cache with the remote result set.
// Remote is the source of truth; local-only trips are merged in, and
// when both stores hold the same trip the later updatedAt wins, ties
// keeping the remote copy. Locally created trips may not carry a
// server-assigned id yet, so origin/destination plus an exact createdAt
// match also identifies the same trip.
func mergeTrips(local, remote []trip.Trip) []trip.Trip {
	merged := make([]trip.Trip, len(remote))
	copy(merged, remote)

	for _, lt := range local {
		idx := -1
		for i, rt := range merged {
			if sameTrip(lt, rt) {
				idx = i
				break
			}
		}
		if idx == -1 {
			merged = append(merged, lt)
			continue
		}
		if lt.UpdatedAt.After(merged[idx].UpdatedAt) {
			merged[idx] = lt
		}
	}
	return merged
}

func sameTrip(a, b trip.Trip) bool {
	if a.ID != "" && a.ID == b.ID {
		return true
	}
	return a.Origin == b.Origin && a.Destination == b.Destination && a.CreatedAt.Equal(b.CreatedAt)
}
