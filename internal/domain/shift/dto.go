package shift

import (
	"time"

	"github.com/shiftlink/shiftlink-backend-go/internal/pkg/validator"
)

// ========================================
// SHIFT DTOs
// ========================================

// GeofenceOverride lets an authorized caller pin the fence for a shift
// explicitly instead of relying on the resolution cascade.
type GeofenceOverride struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
	Active       *bool   `json:"active,omitempty"`
	Label        string  `json:"label,omitempty"`
}

type ScheduleShiftRequest struct {
	WorkerID       string            `json:"worker_id"`
	JobID          string            `json:"job_id"`
	EmployerID     *string           `json:"employer_id,omitempty"`
	ScheduledStart time.Time         `json:"scheduled_start"`
	ScheduledEnd   time.Time         `json:"scheduled_end"`
	HourlyRate     *float64          `json:"hourly_rate,omitempty"`
	Location       *GeofenceOverride `json:"location,omitempty"`
}

func (r *ScheduleShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker_id",
			Message: "worker_id is required",
		})
	}

	if validator.IsEmpty(r.JobID) {
		errs = append(errs, validator.ValidationError{
			Field:   "job_id",
			Message: "job_id is required",
		})
	}

	if r.ScheduledStart.IsZero() || r.ScheduledEnd.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "scheduled_start",
			Message: "scheduled_start and scheduled_end are required",
		})
	} else if !r.ScheduledEnd.After(r.ScheduledStart) {
		errs = append(errs, validator.ValidationError{
			Field:   "scheduled_end",
			Message: "scheduled_end must be after scheduled_start",
		})
	}

	if r.HourlyRate != nil && *r.HourlyRate < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "hourly_rate",
			Message: "hourly_rate must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ClockRequest carries a reported GPS fix for clock-in or clock-out.
type ClockRequest struct {
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	AccuracyMeters *float64   `json:"accuracy_meters,omitempty"`
	AltitudeMeters *float64   `json:"altitude_meters,omitempty"`
	Heading        *float64   `json:"heading,omitempty"`
	SpeedMps       *float64   `json:"speed_mps,omitempty"`
	CapturedAt     *time.Time `json:"captured_at,omitempty"`
}

func (r *ClockRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude < -90 || r.Latitude > 90 {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude < -180 || r.Longitude > 180 {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AdjustHoursRequest struct {
	TotalHours float64  `json:"total_hours"`
	HourlyRate *float64 `json:"hourly_rate,omitempty"`
}

func (r *AdjustHoursRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.TotalHours < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "total_hours",
			Message: "total_hours must not be negative",
		})
	}

	if r.HourlyRate != nil && *r.HourlyRate < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "hourly_rate",
			Message: "hourly_rate must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ShiftFilter struct {
	WorkerID   *string
	BusinessID *string
	Status     *Status
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

// ========================================
// RESPONSES
// ========================================

type JobLocationResponse struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
	Active       bool    `json:"active"`
	Label        string  `json:"label,omitempty"`
}

type EvidenceResponse struct {
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	DistanceMeters float64  `json:"distance_meters"`
	Valid          bool     `json:"valid"`
	Message        string   `json:"message,omitempty"`
	CapturedAt     string   `json:"captured_at"`
	AccuracyMeters *float64 `json:"accuracy_meters,omitempty"`
}

type ShiftResponse struct {
	ID               string               `json:"id"`
	WorkerID         string               `json:"worker_id"`
	EmployerID       *string              `json:"employer_id,omitempty"`
	JobID            *string              `json:"job_id,omitempty"`
	BusinessID       *string              `json:"business_id,omitempty"`
	ScheduledStart   string               `json:"scheduled_start"`
	ScheduledEnd     string               `json:"scheduled_end"`
	ClockInAt        *string              `json:"clock_in_at,omitempty"`
	ClockOutAt       *string              `json:"clock_out_at,omitempty"`
	Status           Status               `json:"status"`
	HourlyRate       float64              `json:"hourly_rate"`
	TotalHours       float64              `json:"total_hours"`
	Earnings         float64              `json:"earnings"`
	IsLate           bool                 `json:"is_late"`
	JobLocation      *JobLocationResponse `json:"job_location,omitempty"`
	ClockInLocation  *EvidenceResponse    `json:"clock_in_location,omitempty"`
	ClockOutLocation *EvidenceResponse    `json:"clock_out_location,omitempty"`
	CreatedAt        string               `json:"created_at"`
	UpdatedAt        string               `json:"updated_at"`
}

type ListShiftsResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Shifts     []ShiftResponse `json:"shifts"`
}
