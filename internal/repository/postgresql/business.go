package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/business"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/geofence"
	"github.com/shiftlink/shiftlink-backend-go/internal/pkg/database"
)

type businessRepository struct {
	db *database.DB
}

func NewBusinessRepository(db *database.DB) business.Repository {
	return &businessRepository{db: db}
}

// Create implements business.Repository.
func (r *businessRepository) Create(ctx context.Context, b business.Business) (business.Business, error) {
	q := GetQuerier(ctx, r.db)

	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	query := `
		INSERT INTO businesses (id, owner_id, name, latitude, longitude, radius_meters, location_active, location_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		b.ID, b.OwnerID, b.Name, b.Latitude, b.Longitude, b.RadiusMeters, b.LocationActive, b.LocationName,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return business.Business{}, fmt.Errorf("failed to create business: %w", err)
	}

	return b, nil
}

// GetByID implements business.Repository.
func (r *businessRepository) GetByID(ctx context.Context, id string) (business.Business, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, owner_id, name, latitude, longitude, radius_meters, location_active, location_name, created_at, updated_at
		FROM businesses WHERE id = $1
	`

	var b business.Business
	err := q.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.OwnerID, &b.Name, &b.Latitude, &b.Longitude,
		&b.RadiusMeters, &b.LocationActive, &b.LocationName, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return business.Business{}, business.ErrBusinessNotFound
		}
		return business.Business{}, fmt.Errorf("failed to get business: %w", err)
	}

	return b, nil
}

// GetLocation implements business.Repository.
func (r *businessRepository) GetLocation(ctx context.Context, id string) (*geofence.Geofence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT latitude, longitude, radius_meters, location_active, location_name
		FROM businesses
		WHERE id = $1 AND latitude IS NOT NULL AND longitude IS NOT NULL
	`

	var lat, lon float64
	var radius *float64
	var active bool
	var name *string
	err := q.QueryRow(ctx, query, id).Scan(&lat, &lon, &radius, &active, &name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get business location: %w", err)
	}

	return buildFence(lat, lon, radius, active, name, "business location"), nil
}
