package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/shift"
	"github.com/shiftlink/shiftlink-backend-go/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.Repository {
	return &shiftRepository{db: db}
}

const shiftColumns = `
	id, worker_id, employer_id, job_id, business_id,
	scheduled_start, scheduled_end, clock_in_at, clock_out_at,
	status, hourly_rate, total_hours, earnings, is_late,
	loc_latitude, loc_longitude, loc_radius_meters, loc_active, loc_label,
	ci_latitude, ci_longitude, ci_accuracy_meters, ci_altitude_meters, ci_heading, ci_speed_mps,
	ci_captured_at, ci_distance_meters, ci_valid, ci_message,
	co_latitude, co_longitude, co_accuracy_meters, co_altitude_meters, co_heading, co_speed_mps,
	co_captured_at, co_distance_meters, co_valid, co_message,
	version, created_at, updated_at`

// Create implements shift.Repository.
func (r *shiftRepository) Create(ctx context.Context, rec shift.ShiftRecord) (shift.ShiftRecord, error) {
	q := GetQuerier(ctx, r.db)

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.Version = 1

	var locLat, locLon, locRadius *float64
	var locActive *bool
	var locLabel *string
	if rec.JobLocation != nil {
		locLat = &rec.JobLocation.Latitude
		locLon = &rec.JobLocation.Longitude
		locRadius = &rec.JobLocation.RadiusMeters
		locActive = &rec.JobLocation.Active
		locLabel = &rec.JobLocation.Label
	}

	query := `
		INSERT INTO shifts (
			id, worker_id, employer_id, job_id, business_id,
			scheduled_start, scheduled_end, status, hourly_rate, total_hours, earnings, is_late,
			loc_latitude, loc_longitude, loc_radius_meters, loc_active, loc_label,
			version
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.ID, rec.WorkerID, rec.EmployerID, rec.JobID, rec.BusinessID,
		rec.ScheduledStart, rec.ScheduledEnd, rec.Status, rec.HourlyRate, rec.TotalHours, rec.Earnings, rec.IsLate,
		locLat, locLon, locRadius, locActive, locLabel,
		rec.Version,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		return shift.ShiftRecord{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return rec, nil
}

// GetByID implements shift.Repository.
func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.ShiftRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`

	rec, err := scanShift(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftRecord{}, shift.ErrShiftNotFound
		}
		return shift.ShiftRecord{}, fmt.Errorf("failed to get shift: %w", err)
	}

	return rec, nil
}

// Update implements shift.Repository. The write is conditional on the version
// the caller loaded; a concurrent writer that committed first makes this one
// fail with ErrVersionConflict instead of silently overwriting.
func (r *shiftRepository) Update(ctx context.Context, rec shift.ShiftRecord) (shift.ShiftRecord, error) {
	q := GetQuerier(ctx, r.db)

	var locLat, locLon, locRadius *float64
	var locActive *bool
	var locLabel *string
	if rec.JobLocation != nil {
		locLat = &rec.JobLocation.Latitude
		locLon = &rec.JobLocation.Longitude
		locRadius = &rec.JobLocation.RadiusMeters
		locActive = &rec.JobLocation.Active
		locLabel = &rec.JobLocation.Label
	}

	ci := evidenceColumns(rec.ClockInLocation)
	co := evidenceColumns(rec.ClockOutLocation)

	query := `
		UPDATE shifts SET
			clock_in_at = $3, clock_out_at = $4, status = $5,
			hourly_rate = $6, total_hours = $7, earnings = $8, is_late = $9,
			loc_latitude = $10, loc_longitude = $11, loc_radius_meters = $12, loc_active = $13, loc_label = $14,
			ci_latitude = $15, ci_longitude = $16, ci_accuracy_meters = $17, ci_altitude_meters = $18,
			ci_heading = $19, ci_speed_mps = $20, ci_captured_at = $21, ci_distance_meters = $22,
			ci_valid = $23, ci_message = $24,
			co_latitude = $25, co_longitude = $26, co_accuracy_meters = $27, co_altitude_meters = $28,
			co_heading = $29, co_speed_mps = $30, co_captured_at = $31, co_distance_meters = $32,
			co_valid = $33, co_message = $34,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.ID, rec.Version,
		rec.ClockInAt, rec.ClockOutAt, rec.Status,
		rec.HourlyRate, rec.TotalHours, rec.Earnings, rec.IsLate,
		locLat, locLon, locRadius, locActive, locLabel,
		ci.lat, ci.lon, ci.accuracy, ci.altitude, ci.heading, ci.speed,
		ci.capturedAt, ci.distance, ci.valid, ci.message,
		co.lat, co.lon, co.accuracy, co.altitude, co.heading, co.speed,
		co.capturedAt, co.distance, co.valid, co.message,
	).Scan(&rec.Version, &rec.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Disambiguate a lost race from a missing record.
			var exists bool
			if checkErr := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM shifts WHERE id = $1)`, rec.ID).Scan(&exists); checkErr == nil && !exists {
				return shift.ShiftRecord{}, shift.ErrShiftNotFound
			}
			return shift.ShiftRecord{}, shift.ErrVersionConflict
		}
		return shift.ShiftRecord{}, fmt.Errorf("failed to update shift: %w", err)
	}

	return rec, nil
}

// List implements shift.Repository.
func (r *shiftRepository) List(ctx context.Context, filter shift.ShiftFilter) ([]shift.ShiftRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.WorkerID != nil {
		conditions = append(conditions, fmt.Sprintf("worker_id = $%d", argPos))
		args = append(args, *filter.WorkerID)
		argPos++
	}
	if filter.BusinessID != nil {
		conditions = append(conditions, fmt.Sprintf("business_id = $%d", argPos))
		args = append(args, *filter.BusinessID)
		argPos++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("scheduled_start >= $%d", argPos))
		args = append(args, *filter.From)
		argPos++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("scheduled_start <= $%d", argPos))
		args = append(args, *filter.To)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM shifts WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shifts: %w", err)
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`SELECT %s FROM shifts WHERE %s ORDER BY scheduled_start DESC LIMIT $%d OFFSET $%d`,
		shiftColumns, where, argPos, argPos+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var records []shift.ShiftRecord
	for rows.Next() {
		rec, err := scanShift(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan shift: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate shifts: %w", err)
	}

	return records, total, nil
}

// ListOverdueScheduled implements shift.Repository.
func (r *shiftRepository) ListOverdueScheduled(ctx context.Context, cutoff time.Time, limit int) ([]shift.ShiftRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + `
		FROM shifts
		WHERE status = $1 AND clock_in_at IS NULL AND scheduled_end < $2
		ORDER BY scheduled_end ASC
		LIMIT $3`

	rows, err := q.Query(ctx, query, shift.StatusScheduled, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue shifts: %w", err)
	}
	defer rows.Close()

	var records []shift.ShiftRecord
	for rows.Next() {
		rec, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shifts: %w", err)
	}

	return records, nil
}

type evidenceCols struct {
	lat, lon, accuracy, altitude, heading, speed, distance *float64
	capturedAt                                             *time.Time
	valid                                                  *bool
	message                                                *string
}

func evidenceColumns(ev *shift.LocationEvidence) evidenceCols {
	if ev == nil {
		return evidenceCols{}
	}
	return evidenceCols{
		lat:        &ev.Latitude,
		lon:        &ev.Longitude,
		accuracy:   ev.AccuracyMeters,
		altitude:   ev.AltitudeMeters,
		heading:    ev.Heading,
		speed:      ev.SpeedMps,
		capturedAt: &ev.CapturedAt,
		distance:   &ev.DistanceMeters,
		valid:      &ev.Valid,
		message:    &ev.Message,
	}
}

func evidenceFromColumns(c evidenceCols) *shift.LocationEvidence {
	if c.lat == nil || c.lon == nil {
		return nil
	}
	ev := &shift.LocationEvidence{
		GPSFix: shift.GPSFix{
			Latitude:       *c.lat,
			Longitude:      *c.lon,
			AccuracyMeters: c.accuracy,
			AltitudeMeters: c.altitude,
			Heading:        c.heading,
			SpeedMps:       c.speed,
		},
	}
	if c.capturedAt != nil {
		ev.CapturedAt = *c.capturedAt
	}
	if c.distance != nil {
		ev.DistanceMeters = *c.distance
	}
	if c.valid != nil {
		ev.Valid = *c.valid
	}
	if c.message != nil {
		ev.Message = *c.message
	}
	return ev
}

func scanShift(row pgx.Row) (shift.ShiftRecord, error) {
	var rec shift.ShiftRecord
	var locLat, locLon, locRadius *float64
	var locActive *bool
	var locLabel *string
	var ci, co evidenceCols

	err := row.Scan(
		&rec.ID, &rec.WorkerID, &rec.EmployerID, &rec.JobID, &rec.BusinessID,
		&rec.ScheduledStart, &rec.ScheduledEnd, &rec.ClockInAt, &rec.ClockOutAt,
		&rec.Status, &rec.HourlyRate, &rec.TotalHours, &rec.Earnings, &rec.IsLate,
		&locLat, &locLon, &locRadius, &locActive, &locLabel,
		&ci.lat, &ci.lon, &ci.accuracy, &ci.altitude, &ci.heading, &ci.speed,
		&ci.capturedAt, &ci.distance, &ci.valid, &ci.message,
		&co.lat, &co.lon, &co.accuracy, &co.altitude, &co.heading, &co.speed,
		&co.capturedAt, &co.distance, &co.valid, &co.message,
		&rec.Version, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return shift.ShiftRecord{}, err
	}

	if locLat != nil && locLon != nil {
		loc := shift.JobLocation{Latitude: *locLat, Longitude: *locLon}
		if locRadius != nil {
			loc.RadiusMeters = *locRadius
		}
		if locActive != nil {
			loc.Active = *locActive
		}
		if locLabel != nil {
			loc.Label = *locLabel
		}
		rec.JobLocation = &loc
	}
	rec.ClockInLocation = evidenceFromColumns(ci)
	rec.ClockOutLocation = evidenceFromColumns(co)

	return rec, nil
}
