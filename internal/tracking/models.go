package tracking

// Sample is one raw reading from the device location source. Speed is
// reported by the platform in m/s and may be absent.
type Sample struct {
	Lat       float64  `json:"lat"`
	Lng       float64  `json:"lng"`
	Accuracy  float64  `json:"accuracy,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
	Heading   float64  `json:"heading,omitempty"`
	Timestamp int64    `json:"timestamp,omitempty"`
}

// Snapshot is the live view of the active session exposed to callers.
type Snapshot struct {
	TripID          string  `json:"tripId"`
	ElapsedSeconds  int64   `json:"elapsedSeconds"`
	DistanceKm      float64 `json:"distanceKm"`
	CurrentSpeedKmh float64 `json:"currentSpeedKmh"`
	AverageSpeedKmh float64 `json:"averageSpeedKmh"`
	WaypointCount   int     `json:"waypointCount"`
	RejectedSamples int     `json:"rejectedSamples"`
	IsTracking      bool    `json:"isTracking"`
}
