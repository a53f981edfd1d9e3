package shift

import (
	"context"
	"time"
)

// Repository owns persisted shift records. Update is a conditional write keyed
// on rec.Version: two callers that loaded the same version cannot both win, so
// load→validate→mutate→persist is safe against concurrent clock-ins. A lost
// race returns ErrVersionConflict and leaves the stored record untouched.
type Repository interface {
	// Create persists a new record and returns it with ID, Version and
	// timestamps populated.
	Create(ctx context.Context, rec ShiftRecord) (ShiftRecord, error)

	// GetByID returns ErrShiftNotFound when no record exists.
	GetByID(ctx context.Context, id string) (ShiftRecord, error)

	// List retrieves records matching the filter, newest scheduled first,
	// together with the unpaginated total.
	List(ctx context.Context, filter ShiftFilter) ([]ShiftRecord, int64, error)

	// Update persists rec only if the stored version still equals rec.Version,
	// incrementing it on success. Returns ErrVersionConflict otherwise.
	Update(ctx context.Context, rec ShiftRecord) (ShiftRecord, error)

	// ListOverdueScheduled returns scheduled records whose scheduled end passed
	// before cutoff without a clock-in. Used by the missed-shift sweep.
	ListOverdueScheduled(ctx context.Context, cutoff time.Time, limit int) ([]ShiftRecord, error)
}
