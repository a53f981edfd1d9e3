package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shiftlink/shiftlink-backend-go/internal/domain/auth"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/business"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/geofence"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/job"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/shift"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/worker"
	"github.com/shiftlink/shiftlink-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// A fix outside the geofence is a well-formed request whose payload the
	// server refuses to act on, hence 422 rather than 409.
	var locationErr *shift.LocationRejectedError
	if errors.As(err, &locationErr) {
		UnprocessableEntity(w, "LOCATION_REJECTED", locationErr.Error(), map[string]string{
			"distance_meters":       fmt.Sprintf("%.1f", locationErr.DistanceMeters),
			"allowed_radius_meters": fmt.Sprintf("%.0f", locationErr.RadiusMeters),
		})
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrWorkerRoleRequired),
		errors.Is(err, auth.ErrBusinessRoleRequired):
		Forbidden(w, err.Error())

	// Lookups
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, worker.ErrWorkerNotFound):
		NotFound(w, "Worker not found")
	case errors.Is(err, job.ErrJobNotFound):
		NotFound(w, "Job not found")
	case errors.Is(err, business.ErrBusinessNotFound):
		NotFound(w, "Business not found")

	// Ownership
	case errors.Is(err, shift.ErrNotShiftOwner):
		Forbidden(w, "This shift belongs to another worker")

	// Attendance state machine
	case errors.Is(err, shift.ErrAlreadyClockedIn),
		errors.Is(err, shift.ErrNotClockedIn),
		errors.Is(err, shift.ErrAlreadyClockedOut),
		errors.Is(err, shift.ErrShiftMissed),
		errors.Is(err, shift.ErrShiftCompleted),
		errors.Is(err, shift.ErrShiftNotActive),
		errors.Is(err, shift.ErrVersionConflict):
		Conflict(w, err.Error())

	// Geofence preconditions
	case errors.Is(err, geofence.ErrNoLocation):
		PreconditionFailed(w, err.Error())
	case errors.Is(err, shift.ErrNoClockInTime):
		PreconditionFailed(w, err.Error())

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
