package trip

import "strings"

// ValidationError reports every problem found in a trip draft at once,
// mirroring the form-level validation the client performs.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid trip: " + strings.Join(e.Problems, ", ")
}

// ValidateDraft checks a trip before it is started or committed. It does
// not mutate the trip.
func ValidateDraft(t Trip) error {
	var problems []string

	if strings.TrimSpace(t.Origin) == "" {
		problems = append(problems, "origin location is required")
	}
	if strings.TrimSpace(t.Destination) == "" {
		problems = append(problems, "destination is required")
	}
	if t.DepartureTime == "" {
		problems = append(problems, "departure time is required")
	}
	if t.TransportMode == "" {
		problems = append(problems, "transport mode is required")
	} else if !ValidTransportMode(t.TransportMode) {
		problems = append(problems, "unknown transport mode")
	}
	if t.Companions > 0 && len(t.CompanionDetails) == 0 {
		problems = append(problems, "companion details required when companions > 0")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
