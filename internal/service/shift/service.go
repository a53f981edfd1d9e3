package shift

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shiftlink/shiftlink-backend-go/internal/domain/geofence"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/job"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/shift"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/worker"
	"github.com/shiftlink/shiftlink-backend-go/internal/pkg/geo"
	"github.com/shiftlink/shiftlink-backend-go/internal/pkg/payroll"
	"github.com/shiftlink/shiftlink-backend-go/internal/pkg/validator"
)

const missedSweepBatchSize = 500

type AttendanceServiceImpl struct {
	shiftRepo  shift.Repository
	workerRepo worker.Repository
	jobRepo    job.Repository
	resolver   geofence.Resolver
	now        func() time.Time
}

func NewAttendanceService(
	shiftRepo shift.Repository,
	workerRepo worker.Repository,
	jobRepo job.Repository,
	resolver geofence.Resolver,
) shift.Service {
	return &AttendanceServiceImpl{
		shiftRepo:  shiftRepo,
		workerRepo: workerRepo,
		jobRepo:    jobRepo,
		resolver:   resolver,
		now:        time.Now,
	}
}

// timePtrToString safely converts a *time.Time to an RFC 3339 string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}

// Schedule implements shift.Service.
func (a *AttendanceServiceImpl) Schedule(ctx context.Context, req shift.ScheduleShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	if _, err := a.workerRepo.GetByID(ctx, req.WorkerID); err != nil {
		return shift.ShiftResponse{}, err
	}

	j, err := a.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	rate := j.HourlyRate
	if req.HourlyRate != nil {
		rate = *req.HourlyRate
	}

	jobID := req.JobID
	businessID := j.BusinessID
	rec := shift.ShiftRecord{
		WorkerID:       req.WorkerID,
		EmployerID:     req.EmployerID,
		JobID:          &jobID,
		BusinessID:     &businessID,
		ScheduledStart: req.ScheduledStart.UTC(),
		ScheduledEnd:   req.ScheduledEnd.UTC(),
		Status:         shift.StatusScheduled,
		HourlyRate:     rate,
	}

	// Snapshot the geofence at creation time when any source can provide one.
	// A business without a location yet is fine here; clock-in will demand it.
	fence, err := a.resolver.Resolve(ctx, geofence.ResolveInput{
		WorkerID:   rec.WorkerID,
		JobID:      rec.JobID,
		BusinessID: rec.BusinessID,
		Override:   overrideFromRequest(req.Location),
	})
	switch {
	case err == nil:
		rec.JobLocation = snapshotFence(fence)
	case errors.Is(err, geofence.ErrNoLocation):
		// leave JobLocation unset
	default:
		return shift.ShiftResponse{}, fmt.Errorf("failed to resolve shift geofence: %w", err)
	}

	created, err := a.shiftRepo.Create(ctx, rec)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to create shift record: %w", err)
	}

	return mapShiftToResponse(created), nil
}

// ClockIn implements shift.Service.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, actor shift.Actor, shiftID string, req shift.ClockRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	rec, err := a.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	if actor.Worker() && actor.WorkerID != rec.WorkerID {
		return shift.ShiftResponse{}, shift.ErrNotShiftOwner
	}

	if rec.ClockInAt != nil {
		return shift.ShiftResponse{}, shift.ErrAlreadyClockedIn
	}
	if rec.Status == shift.StatusMissed {
		return shift.ShiftResponse{}, shift.ErrShiftMissed
	}
	if rec.Status == shift.StatusCompleted {
		return shift.ShiftResponse{}, shift.ErrShiftCompleted
	}

	if err := a.ensureLocation(ctx, &rec); err != nil {
		return shift.ShiftResponse{}, err
	}

	evidence, err := a.evaluateFix(*rec.JobLocation, req)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	now := a.now().UTC()
	rec.ClockInAt = &now
	rec.Status = shift.StatusClockedIn
	rec.IsLate = now.After(rec.ScheduledStart)
	rec.ClockInLocation = evidence

	// Snapshot the rate from the job once so later rate edits do not move
	// earnings on a shift already in progress.
	if rec.HourlyRate == 0 && rec.JobID != nil {
		if j, jerr := a.jobRepo.GetByID(ctx, *rec.JobID); jerr == nil {
			rec.HourlyRate = j.HourlyRate
		}
	}

	updated, err := a.shiftRepo.Update(ctx, rec)
	if err != nil {
		if errors.Is(err, shift.ErrVersionConflict) {
			return shift.ShiftResponse{}, a.explainClockInConflict(ctx, shiftID)
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to update shift record: %w", err)
	}

	return mapShiftToResponse(updated), nil
}

// ClockOut implements shift.Service.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, actor shift.Actor, shiftID string, req shift.ClockRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	rec, err := a.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	if actor.Worker() && actor.WorkerID != rec.WorkerID {
		return shift.ShiftResponse{}, shift.ErrNotShiftOwner
	}

	if rec.ClockInAt == nil {
		return shift.ShiftResponse{}, shift.ErrNotClockedIn
	}
	if rec.ClockOutAt != nil {
		return shift.ShiftResponse{}, shift.ErrAlreadyClockedOut
	}

	if err := a.ensureLocation(ctx, &rec); err != nil {
		return shift.ShiftResponse{}, err
	}

	evidence, err := a.evaluateFix(*rec.JobLocation, req)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	now := a.now().UTC()
	rec.ClockOutAt = &now
	rec.Status = shift.StatusCompleted
	rec.ClockOutLocation = evidence
	rec.TotalHours, rec.Earnings = payroll.Compute(*rec.ClockInAt, now, rec.HourlyRate)

	updated, err := a.shiftRepo.Update(ctx, rec)
	if err != nil {
		if errors.Is(err, shift.ErrVersionConflict) {
			return shift.ShiftResponse{}, a.explainClockOutConflict(ctx, shiftID)
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to update shift record: %w", err)
	}

	return mapShiftToResponse(updated), nil
}

// MarkComplete implements shift.Service. Administrative completion without a
// worker-initiated clock-out; no location check.
func (a *AttendanceServiceImpl) MarkComplete(ctx context.Context, shiftID string) (shift.ShiftResponse, error) {
	rec, err := a.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	if rec.Status != shift.StatusClockedIn {
		return shift.ShiftResponse{}, shift.ErrShiftNotActive
	}
	if rec.ClockInAt == nil {
		return shift.ShiftResponse{}, shift.ErrNoClockInTime
	}

	// Prefer the scheduled end when it already passed and is later than the
	// clock-in; otherwise settle at now.
	now := a.now().UTC()
	effective := now
	if rec.ScheduledEnd.After(*rec.ClockInAt) && rec.ScheduledEnd.Before(now) {
		effective = rec.ScheduledEnd
	}

	rec.ClockOutAt = &effective
	rec.Status = shift.StatusCompleted
	rec.TotalHours, rec.Earnings = payroll.Compute(*rec.ClockInAt, effective, rec.HourlyRate)

	updated, err := a.shiftRepo.Update(ctx, rec)
	if err != nil {
		if errors.Is(err, shift.ErrVersionConflict) {
			return shift.ShiftResponse{}, a.explainClockOutConflict(ctx, shiftID)
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to update shift record: %w", err)
	}

	return mapShiftToResponse(updated), nil
}

// AdjustHours implements shift.Service. Administrative correction of payroll
// figures; timestamps and status are untouched.
func (a *AttendanceServiceImpl) AdjustHours(ctx context.Context, shiftID string, req shift.AdjustHoursRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	rec, err := a.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	rate := rec.HourlyRate
	if req.HourlyRate != nil {
		rate = *req.HourlyRate
	}

	rec.TotalHours = payroll.Round2(req.TotalHours)
	rec.HourlyRate = rate
	rec.Earnings = payroll.Round2(req.TotalHours * rate)

	updated, err := a.shiftRepo.Update(ctx, rec)
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to update shift record: %w", err)
	}

	return mapShiftToResponse(updated), nil
}

// GetShift implements shift.Service.
func (a *AttendanceServiceImpl) GetShift(ctx context.Context, shiftID string) (shift.ShiftResponse, error) {
	rec, err := a.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return mapShiftToResponse(rec), nil
}

// ListShifts implements shift.Service.
func (a *AttendanceServiceImpl) ListShifts(ctx context.Context, filter shift.ShiftFilter) (shift.ListShiftsResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	records, total, err := a.shiftRepo.List(ctx, filter)
	if err != nil {
		return shift.ListShiftsResponse{}, fmt.Errorf("failed to list shifts: %w", err)
	}

	responses := make([]shift.ShiftResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, mapShiftToResponse(rec))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return shift.ListShiftsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Shifts:     responses,
	}, nil
}

// MarkMissed implements shift.Service. A scheduled shift whose end passed
// without a clock-in becomes missed. Losing a version race here means someone
// clocked in concurrently; that record is simply skipped.
func (a *AttendanceServiceImpl) MarkMissed(ctx context.Context, now time.Time) (int, error) {
	overdue, err := a.shiftRepo.ListOverdueScheduled(ctx, now.UTC(), missedSweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue shifts: %w", err)
	}

	marked := 0
	for _, rec := range overdue {
		if rec.Status != shift.StatusScheduled || rec.ClockInAt != nil {
			continue
		}
		rec.Status = shift.StatusMissed
		if _, err := a.shiftRepo.Update(ctx, rec); err != nil {
			if errors.Is(err, shift.ErrVersionConflict) {
				continue
			}
			return marked, fmt.Errorf("failed to mark shift %s missed: %w", rec.ID, err)
		}
		marked++
	}

	return marked, nil
}

// ensureLocation resolves and snapshots the geofence on first use. Once the
// record carries a snapshot it is authoritative; live source edits do not
// apply retroactively.
func (a *AttendanceServiceImpl) ensureLocation(ctx context.Context, rec *shift.ShiftRecord) error {
	if rec.JobLocation != nil {
		return nil
	}

	fence, err := a.resolver.Resolve(ctx, geofence.ResolveInput{
		WorkerID:   rec.WorkerID,
		JobID:      rec.JobID,
		BusinessID: rec.BusinessID,
	})
	if err != nil {
		if errors.Is(err, geofence.ErrNoLocation) {
			return err
		}
		return fmt.Errorf("failed to resolve shift geofence: %w", err)
	}

	rec.JobLocation = snapshotFence(fence)
	return nil
}

// evaluateFix validates a reported fix against the fence, returning the
// evidence to record on success and LocationRejectedError when the position
// falls outside an active fence. Distance is computed and recorded either way.
func (a *AttendanceServiceImpl) evaluateFix(loc shift.JobLocation, req shift.ClockRequest) (*shift.LocationEvidence, error) {
	if !geo.IsFiniteCoordinate(req.Latitude, req.Longitude) {
		return nil, validator.ValidationErrors{{
			Field:   "latitude",
			Message: "coordinates must be finite numbers",
		}}
	}

	distance := geo.DistanceMeters(req.Latitude, req.Longitude, loc.Latitude, loc.Longitude)

	capturedAt := a.now().UTC()
	if req.CapturedAt != nil {
		capturedAt = req.CapturedAt.UTC()
	}

	evidence := &shift.LocationEvidence{
		GPSFix: shift.GPSFix{
			Latitude:       req.Latitude,
			Longitude:      req.Longitude,
			AccuracyMeters: req.AccuracyMeters,
			AltitudeMeters: req.AltitudeMeters,
			Heading:        req.Heading,
			SpeedMps:       req.SpeedMps,
			CapturedAt:     capturedAt,
		},
		DistanceMeters: distance,
	}

	if !loc.Active {
		evidence.Valid = true
		evidence.Message = "location enforcement disabled for this work site"
		return evidence, nil
	}

	if distance > loc.RadiusMeters {
		return nil, &shift.LocationRejectedError{
			DistanceMeters: distance,
			RadiusMeters:   loc.RadiusMeters,
		}
	}

	evidence.Valid = true
	evidence.Message = fmt.Sprintf("within allowed radius (%.0f m of %.0f m)", distance, loc.RadiusMeters)
	return evidence, nil
}

// explainClockInConflict re-reads a record after a lost clock-in race and
// reports what the fresh state implies instead of leaking a storage conflict.
func (a *AttendanceServiceImpl) explainClockInConflict(ctx context.Context, shiftID string) error {
	fresh, err := a.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return shift.ErrVersionConflict
	}
	if fresh.ClockInAt != nil {
		return shift.ErrAlreadyClockedIn
	}
	if fresh.Status == shift.StatusMissed {
		return shift.ErrShiftMissed
	}
	return shift.ErrVersionConflict
}

func (a *AttendanceServiceImpl) explainClockOutConflict(ctx context.Context, shiftID string) error {
	fresh, err := a.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return shift.ErrVersionConflict
	}
	if fresh.ClockOutAt != nil {
		return shift.ErrAlreadyClockedOut
	}
	return shift.ErrVersionConflict
}

func overrideFromRequest(o *shift.GeofenceOverride) *geofence.Geofence {
	if o == nil {
		return nil
	}
	active := true
	if o.Active != nil {
		active = *o.Active
	}
	return &geofence.Geofence{
		Latitude:     o.Latitude,
		Longitude:    o.Longitude,
		RadiusMeters: o.RadiusMeters,
		Active:       active,
		Label:        o.Label,
	}
}

func snapshotFence(g geofence.Geofence) *shift.JobLocation {
	return &shift.JobLocation{
		Latitude:     g.Latitude,
		Longitude:    g.Longitude,
		RadiusMeters: geofence.ClampRadius(g.RadiusMeters),
		Active:       g.Active,
		Label:        g.Label,
	}
}

// mapShiftToResponse converts a ShiftRecord to its response shape.
func mapShiftToResponse(rec shift.ShiftRecord) shift.ShiftResponse {
	resp := shift.ShiftResponse{
		ID:             rec.ID,
		WorkerID:       rec.WorkerID,
		EmployerID:     rec.EmployerID,
		JobID:          rec.JobID,
		BusinessID:     rec.BusinessID,
		ScheduledStart: rec.ScheduledStart.UTC().Format(time.RFC3339),
		ScheduledEnd:   rec.ScheduledEnd.UTC().Format(time.RFC3339),
		ClockInAt:      timePtrToString(rec.ClockInAt),
		ClockOutAt:     timePtrToString(rec.ClockOutAt),
		Status:         rec.Status,
		HourlyRate:     rec.HourlyRate,
		TotalHours:     rec.TotalHours,
		Earnings:       rec.Earnings,
		IsLate:         rec.IsLate,
		CreatedAt:      rec.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      rec.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if rec.JobLocation != nil {
		resp.JobLocation = &shift.JobLocationResponse{
			Latitude:     rec.JobLocation.Latitude,
			Longitude:    rec.JobLocation.Longitude,
			RadiusMeters: rec.JobLocation.RadiusMeters,
			Active:       rec.JobLocation.Active,
			Label:        rec.JobLocation.Label,
		}
	}
	resp.ClockInLocation = mapEvidence(rec.ClockInLocation)
	resp.ClockOutLocation = mapEvidence(rec.ClockOutLocation)

	return resp
}

func mapEvidence(ev *shift.LocationEvidence) *shift.EvidenceResponse {
	if ev == nil {
		return nil
	}
	return &shift.EvidenceResponse{
		Latitude:       ev.Latitude,
		Longitude:      ev.Longitude,
		DistanceMeters: ev.DistanceMeters,
		Valid:          ev.Valid,
		Message:        ev.Message,
		CapturedAt:     ev.CapturedAt.UTC().Format(time.RFC3339),
		AccuracyMeters: ev.AccuracyMeters,
	}
}
