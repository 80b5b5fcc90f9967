package marker

import (
	"context"

	"backend-travique/internal/db"
	"backend-travique/internal/shared/geo"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) CreateMarker(ctx context.Context, input Marker) (Marker, error) {
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO markers (id, user_id, name, lat, lng)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, input.ID, input.UserID, input.Name, input.Lat, input.Lng)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Marker{}, err
	}
	return input, nil
}

func (s *Service) Markers(ctx context.Context, userID string) ([]Marker, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, name, lat, lng, created_at
		FROM markers WHERE user_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var markers []Marker
	for rows.Next() {
		var m Marker
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Lat, &m.Lng, &m.CreatedAt); err != nil {
			return nil, err
		}
		markers = append(markers, m)
	}
	return markers, rows.Err()
}

func (s *Service) DeleteMarker(ctx context.Context, userID, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM markers WHERE id=$1 AND user_id=$2`, id, userID)
	return err
}

// Nearby filters the user's markers to those within radiusKm of a point.
func (s *Service) Nearby(ctx context.Context, userID string, lat, lng, radiusKm float64) ([]Marker, error) {
	markers, err := s.Markers(ctx, userID)
	if err != nil {
		return nil, err
	}
	var results []Marker
	for _, m := range markers {
		if geo.HaversineKm(lat, lng, m.Lat, m.Lng) <= radiusKm {
			results = append(results, m)
		}
	}
	return results, nil
}
