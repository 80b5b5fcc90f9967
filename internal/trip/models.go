package trip

import "time"

const (
	StatusDraft      = "draft"
	StatusActive     = "active"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

var transportModes = map[string]bool{
	"car": true, "bus": true, "train": true, "metro": true, "taxi": true,
	"bike": true, "walk": true, "motorcycle": true, "auto": true, "other": true,
}

type Trip struct {
	ID               string            `json:"id"`
	UserID           string            `json:"userId,omitempty"`
	Origin           string            `json:"origin"`
	Destination      string            `json:"destination"`
	DepartureTime    string            `json:"departureTime"`
	TransportMode    string            `json:"transportMode"`
	TripPurpose      string            `json:"tripPurpose"`
	Companions       int               `json:"companions"`
	CompanionDetails []CompanionDetail `json:"companionDetails"`
	Status           string            `json:"status"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
	StartTime        time.Time         `json:"startTime,omitempty"`
	EndTime          time.Time         `json:"endTime,omitempty"`
	Duration         int               `json:"duration"`
	Distance         float64           `json:"distance"`
	FinalDistance    float64           `json:"finalDistance"`
	AverageSpeed     float64           `json:"averageSpeed"`
	WaypointCount    int               `json:"waypointCount"`
	TrackingData     *TrackingData     `json:"trackingData,omitempty"`
	Synced           bool              `json:"synced"`
}

type CompanionDetail struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
}

// TrackingData is the live-tracking projection persisted inside a trip.
type TrackingData struct {
	Waypoints     []Waypoint `json:"waypoints"`
	StartTime     time.Time  `json:"startTime"`
	TotalDistance float64    `json:"totalDistance"`
	CurrentSpeed  float64    `json:"currentSpeed"`
	AverageSpeed  float64    `json:"averageSpeed"`
	IsTracking    bool       `json:"isTracking"`
}

// Waypoint is one accepted GPS sample. Speed comes from the platform in
// m/s and may be absent.
type Waypoint struct {
	Lat             float64  `json:"lat"`
	Lng             float64  `json:"lng"`
	Accuracy        float64  `json:"accuracy,omitempty"`
	Speed           *float64 `json:"speed,omitempty"`
	Heading         float64  `json:"heading,omitempty"`
	Timestamp       int64    `json:"timestamp"`
	SegmentDistance float64  `json:"segmentDistance,omitempty"`
}

// CanTransition reports whether a trip status change is allowed:
// draft -> active -> in-progress -> completed, plus any non-terminal
// status -> cancelled.
func CanTransition(from, to string) bool {
	if to == StatusCancelled {
		return from == StatusDraft || from == StatusActive || from == StatusInProgress
	}
	switch from {
	case StatusDraft:
		return to == StatusActive || to == StatusInProgress
	case StatusActive:
		return to == StatusInProgress
	case StatusInProgress:
		return to == StatusCompleted
	}
	return false
}

func ValidTransportMode(mode string) bool {
	return transportModes[mode]
}
