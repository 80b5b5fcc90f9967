package stats

import (
	"context"
	"math"
	"strings"

	"backend-travique/internal/store"
	"backend-travique/internal/trip"
)

// Summary is the dashboard aggregate over one owner's trip history.
type Summary struct {
	TotalTrips     int     `json:"totalTrips"`
	CompletedTrips int     `json:"completedTrips"`
	TotalDistance  float64 `json:"totalDistance"`
	TotalDuration  int     `json:"totalDuration"`
	AverageSpeed   float64 `json:"averageSpeed"`
	CitiesVisited  int     `json:"citiesVisited"`
}

type Service struct {
	gateway *store.Gateway
}

func NewService(gw *store.Gateway) *Service {
	return &Service{gateway: gw}
}

// Compute derives the summary from the reconciled trip list. Distance is
// in kilometres rounded to two decimals, duration in whole minutes.
func (s *Service) Compute(ctx context.Context, ownerID string) (Summary, error) {
	trips, err := s.gateway.List(ctx, ownerID)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	cities := map[string]struct{}{}
	for _, t := range trips {
		summary.TotalTrips++
		if t.Status == trip.StatusCompleted {
			summary.CompletedTrips++
		}
		summary.TotalDistance += t.Distance
		summary.TotalDuration += t.Duration
		if city := extractCity(t.Origin); city != "" {
			cities[city] = struct{}{}
		}
		if city := extractCity(t.Destination); city != "" {
			cities[city] = struct{}{}
		}
	}
	summary.CitiesVisited = len(cities)
	summary.TotalDistance = round2(summary.TotalDistance)
	if summary.TotalDuration > 0 {
		hours := float64(summary.TotalDuration) / 60
		summary.AverageSpeed = round2(summary.TotalDistance / hours)
	}
	return summary, nil
}

// extractCity takes the first comma-separated segment of a free-form
// location string.
func extractCity(location string) string {
	city, _, _ := strings.Cut(location, ",")
	return strings.TrimSpace(city)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
