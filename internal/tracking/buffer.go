package tracking

import (
	"math"
	"time"

	"backend-travique/internal/shared/geo"
	"backend-travique/internal/trip"
)

// WaypointBuffer holds the ordered waypoints of the active trip and the
// running distance total. Single writer: the session's run loop.
type WaypointBuffer struct {
	waypoints []trip.Waypoint
	totalKm   float64
	rejected  int
}

func NewWaypointBuffer() *WaypointBuffer {
	return &WaypointBuffer{}
}

// Append validates and stores a sample. Samples without finite,
// in-range coordinates are rejected and counted; aggregates are left
// untouched. The second return reports acceptance.
func (b *WaypointBuffer) Append(s Sample) (trip.Waypoint, bool) {
	if !validCoordinates(s.Lat, s.Lng) {
		b.rejected++
		return trip.Waypoint{}, false
	}

	wp := trip.Waypoint{
		Lat:       s.Lat,
		Lng:       s.Lng,
		Accuracy:  s.Accuracy,
		Speed:     s.Speed,
		Heading:   s.Heading,
		Timestamp: s.Timestamp,
	}
	if wp.Timestamp == 0 {
		wp.Timestamp = time.Now().UnixMilli()
	}

	if len(b.waypoints) > 0 {
		prev := b.waypoints[len(b.waypoints)-1]
		wp.SegmentDistance = geo.HaversineKm(prev.Lat, prev.Lng, wp.Lat, wp.Lng)
		b.totalKm += wp.SegmentDistance
	}

	b.waypoints = append(b.waypoints, wp)
	return wp, true
}

func (b *WaypointBuffer) TotalDistanceKm() float64 {
	return b.totalKm
}

func (b *WaypointBuffer) Count() int {
	return len(b.waypoints)
}

func (b *WaypointBuffer) Rejected() int {
	return b.rejected
}

// Slice returns a copy of the most recent n waypoints, oldest first.
func (b *WaypointBuffer) Slice(n int) []trip.Waypoint {
	if n <= 0 {
		return nil
	}
	if n > len(b.waypoints) {
		n = len(b.waypoints)
	}
	out := make([]trip.Waypoint, n)
	copy(out, b.waypoints[len(b.waypoints)-n:])
	return out
}

// Waypoints returns a copy of the whole buffer for persistence.
func (b *WaypointBuffer) Waypoints() []trip.Waypoint {
	out := make([]trip.Waypoint, len(b.waypoints))
	copy(out, b.waypoints)
	return out
}

func (b *WaypointBuffer) Clear() {
	b.waypoints = nil
	b.totalKm = 0
	b.rejected = 0
}

func validCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
