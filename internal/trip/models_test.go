package trip

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{StatusDraft, StatusActive},
		{StatusDraft, StatusInProgress},
		{StatusActive, StatusInProgress},
		{StatusInProgress, StatusCompleted},
		{StatusDraft, StatusCancelled},
		{StatusActive, StatusCancelled},
		{StatusInProgress, StatusCancelled},
	}
	for _, pair := range allowed {
		if !CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s allowed", pair[0], pair[1])
		}
	}

	denied := [][2]string{
		{StatusCompleted, StatusCancelled},
		{StatusCancelled, StatusActive},
		{StatusCompleted, StatusInProgress},
		{StatusActive, StatusCompleted},
		{StatusInProgress, StatusDraft},
	}
	for _, pair := range denied {
		if CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s denied", pair[0], pair[1])
		}
	}
}

func TestValidateDraft(t *testing.T) {
	valid := Trip{
		Origin:        "Home",
		Destination:   "Office",
		DepartureTime: "2026-08-30T08:00",
		TransportMode: "car",
	}
	if err := ValidateDraft(valid); err != nil {
		t.Fatalf("expected valid draft: %v", err)
	}

	var verr *ValidationError
	err := ValidateDraft(Trip{})
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Problems) != 4 {
		t.Fatalf("expected 4 problems, got %v", verr.Problems)
	}
}

func TestValidateDraftCompanions(t *testing.T) {
	draft := Trip{
		Origin:        "A",
		Destination:   "B",
		DepartureTime: "2026-08-30T08:00",
		TransportMode: "bus",
		Companions:    2,
	}
	if err := ValidateDraft(draft); err == nil {
		t.Fatalf("expected companion details error")
	}

	draft.CompanionDetails = []CompanionDetail{{Name: "Sam", Relation: "friend"}}
	if err := ValidateDraft(draft); err != nil {
		t.Fatalf("expected valid draft: %v", err)
	}
}

func TestValidateDraftUnknownMode(t *testing.T) {
	draft := Trip{
		Origin:        "A",
		Destination:   "B",
		DepartureTime: "2026-08-30T08:00",
		TransportMode: "teleport",
	}
	if err := ValidateDraft(draft); err == nil {
		t.Fatalf("expected transport mode error")
	}
}

func TestWaypointSpeedOmittedWhenNil(t *testing.T) {
	raw, err := json.Marshal(Waypoint{Lat: 1, Lng: 2, Timestamp: 1000})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded["speed"]; ok {
		t.Fatalf("expected speed omitted for nil speed")
	}
}
