package marker

import "time"

// Marker is a point a user pinned on the map, kept separately from trip
// waypoints.
type Marker struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	CreatedAt time.Time `json:"createdAt"`
}
