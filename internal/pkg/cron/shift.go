package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftlink/shiftlink-backend-go/internal/domain/shift"
)

type ShiftJobs struct {
	shiftSvc shift.Service
	interval time.Duration
}

func NewShiftJobs(shiftSvc shift.Service, interval time.Duration) *ShiftJobs {
	return &ShiftJobs{
		shiftSvc: shiftSvc,
		interval: interval,
	}
}

func (j *ShiftJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_missed_shifts", j.interval, j.MarkMissedShifts)
}

// MarkMissedShifts transitions scheduled shifts whose window has ended
// without a clock-in to the missed state.
func (j *ShiftJobs) MarkMissedShifts(ctx context.Context) error {
	marked, err := j.shiftSvc.MarkMissed(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to sweep missed shifts: %w", err)
	}

	if marked > 0 {
		slog.Info("Cron: Marked missed shifts", "count", marked)
	}
	return nil
}
