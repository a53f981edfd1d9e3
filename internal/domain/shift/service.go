package shift

import (
	"context"
	"time"
)

// Actor identifies the already-authorized caller. WorkerID is set for
// worker-initiated requests; the service re-checks shift ownership for those
// and nothing else — permissions are decided upstream.
type Actor struct {
	UserID   string
	WorkerID string
}

// Worker reports whether this actor acts as a worker (rather than an employer
// or operator).
func (a Actor) Worker() bool {
	return a.WorkerID != ""
}

type Service interface {
	Schedule(ctx context.Context, req ScheduleShiftRequest) (ShiftResponse, error)
	ClockIn(ctx context.Context, actor Actor, shiftID string, req ClockRequest) (ShiftResponse, error)
	ClockOut(ctx context.Context, actor Actor, shiftID string, req ClockRequest) (ShiftResponse, error)
	MarkComplete(ctx context.Context, shiftID string) (ShiftResponse, error)
	AdjustHours(ctx context.Context, shiftID string, req AdjustHoursRequest) (ShiftResponse, error)
	GetShift(ctx context.Context, shiftID string) (ShiftResponse, error)
	ListShifts(ctx context.Context, filter ShiftFilter) (ListShiftsResponse, error)

	// MarkMissed flips overdue scheduled shifts to missed. Driven by the sweep
	// job, never by request handling.
	MarkMissed(ctx context.Context, now time.Time) (int, error)
}
