package shift

import (
	"errors"
	"fmt"
)

// Shift domain errors
var (
	// Clock-in/out errors
	ErrAlreadyClockedIn  = errors.New("already clocked in")
	ErrNotClockedIn      = errors.New("clock in before clocking out")
	ErrAlreadyClockedOut = errors.New("already clocked out")
	ErrShiftMissed       = errors.New("shift was marked missed")
	ErrShiftCompleted    = errors.New("shift is already completed")

	// Administrative errors
	ErrShiftNotActive   = errors.New("shift is not clocked in")
	ErrNoClockInTime    = errors.New("shift has no clock-in time recorded")

	// General errors
	ErrShiftNotFound   = errors.New("shift not found")
	ErrNotShiftOwner   = errors.New("you do not own this shift")
	ErrVersionConflict = errors.New("shift record was modified concurrently")
)

// LocationRejectedError is returned when the reported position falls outside
// the shift's geofence. It keeps the computed figures so callers can tell the
// worker how far outside the fence they are.
type LocationRejectedError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *LocationRejectedError) Error() string {
	return fmt.Sprintf("you are %.0f m from the work site; allowed radius is %.0f m",
		e.DistanceMeters, e.RadiusMeters)
}
