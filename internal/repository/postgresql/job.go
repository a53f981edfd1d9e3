package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/geofence"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/job"
	"github.com/shiftlink/shiftlink-backend-go/internal/pkg/database"
)

type jobRepository struct {
	db *database.DB
}

func NewJobRepository(db *database.DB) job.Repository {
	return &jobRepository{db: db}
}

// Create implements job.Repository.
func (r *jobRepository) Create(ctx context.Context, j job.Job) (job.Job, error) {
	q := GetQuerier(ctx, r.db)

	if j.ID == "" {
		j.ID = uuid.NewString()
	}

	query := `
		INSERT INTO jobs (id, business_id, title, description, hourly_rate, latitude, longitude, radius_meters, location_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		j.ID, j.BusinessID, j.Title, j.Description, j.HourlyRate,
		j.Latitude, j.Longitude, j.RadiusMeters, j.LocationName,
	).Scan(&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return job.Job{}, fmt.Errorf("failed to create job: %w", err)
	}

	return j, nil
}

// GetByID implements job.Repository.
func (r *jobRepository) GetByID(ctx context.Context, id string) (job.Job, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, business_id, title, description, hourly_rate,
		       latitude, longitude, radius_meters, location_name, created_at, updated_at
		FROM jobs WHERE id = $1
	`

	var j job.Job
	err := q.QueryRow(ctx, query, id).Scan(
		&j.ID, &j.BusinessID, &j.Title, &j.Description, &j.HourlyRate,
		&j.Latitude, &j.Longitude, &j.RadiusMeters, &j.LocationName, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, job.ErrJobNotFound
		}
		return job.Job{}, fmt.Errorf("failed to get job: %w", err)
	}

	return j, nil
}

// GetLocation implements job.Repository.
func (r *jobRepository) GetLocation(ctx context.Context, id string) (*geofence.Geofence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT latitude, longitude, radius_meters, location_name
		FROM jobs
		WHERE id = $1 AND latitude IS NOT NULL AND longitude IS NOT NULL
	`

	var lat, lon float64
	var radius *float64
	var name *string
	err := q.QueryRow(ctx, query, id).Scan(&lat, &lon, &radius, &name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job location: %w", err)
	}

	return buildFence(lat, lon, radius, true, name, "job location"), nil
}
