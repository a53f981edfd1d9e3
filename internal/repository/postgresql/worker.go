package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/geofence"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/worker"
	"github.com/shiftlink/shiftlink-backend-go/internal/pkg/database"
)

type workerRepository struct {
	db *database.DB
}

func NewWorkerRepository(db *database.DB) worker.Repository {
	return &workerRepository{db: db}
}

// Create implements worker.Repository.
func (r *workerRepository) Create(ctx context.Context, w worker.Worker) (worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	if w.ID == "" {
		w.ID = uuid.NewString()
	}

	query := `
		INSERT INTO workers (id, full_name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query, w.ID, w.FullName, w.Email, w.Phone).Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return worker.Worker{}, fmt.Errorf("failed to create worker: %w", err)
	}

	return w, nil
}

// GetByID implements worker.Repository.
func (r *workerRepository) GetByID(ctx context.Context, id string) (worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, full_name, email, phone, created_at, updated_at FROM workers WHERE id = $1`

	var w worker.Worker
	err := q.QueryRow(ctx, query, id).Scan(&w.ID, &w.FullName, &w.Email, &w.Phone, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return worker.Worker{}, worker.ErrWorkerNotFound
		}
		return worker.Worker{}, fmt.Errorf("failed to get worker: %w", err)
	}

	return w, nil
}

type employmentRepository struct {
	db *database.DB
}

func NewEmploymentRepository(db *database.DB) worker.EmploymentRepository {
	return &employmentRepository{db: db}
}

// Create implements worker.EmploymentRepository.
func (r *employmentRepository) Create(ctx context.Context, e worker.Employment) (worker.Employment, error) {
	q := GetQuerier(ctx, r.db)

	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	query := `
		INSERT INTO employments (id, worker_id, job_id, active, latitude, longitude, radius_meters, location_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		e.ID, e.WorkerID, e.JobID, e.Active, e.Latitude, e.Longitude, e.RadiusMeters, e.LocationName,
	).Scan(&e.CreatedAt)
	if err != nil {
		return worker.Employment{}, fmt.Errorf("failed to create employment: %w", err)
	}

	return e, nil
}

// GetWorkLocation implements worker.EmploymentRepository.
func (r *employmentRepository) GetWorkLocation(ctx context.Context, workerID, jobID string) (*geofence.Geofence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT latitude, longitude, radius_meters, location_name
		FROM employments
		WHERE worker_id = $1 AND job_id = $2 AND active = TRUE
		  AND latitude IS NOT NULL AND longitude IS NOT NULL
		ORDER BY created_at DESC
		LIMIT 1
	`

	var lat, lon float64
	var radius *float64
	var name *string
	err := q.QueryRow(ctx, query, workerID, jobID).Scan(&lat, &lon, &radius, &name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employment work location: %w", err)
	}

	return buildFence(lat, lon, radius, true, name, "employment work location"), nil
}

func buildFence(lat, lon float64, radius *float64, active bool, name *string, fallbackLabel string) *geofence.Geofence {
	r := 0.0
	if radius != nil {
		r = *radius
	}
	label := fallbackLabel
	if name != nil && *name != "" {
		label = *name
	}
	return &geofence.Geofence{
		Latitude:     lat,
		Longitude:    lon,
		RadiusMeters: geofence.ClampRadius(r),
		Active:       active,
		Label:        label,
	}
}
