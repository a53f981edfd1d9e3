package shift

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shiftlink/shiftlink-backend-go/internal/domain/business"
	domaingeofence "github.com/shiftlink/shiftlink-backend-go/internal/domain/geofence"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/job"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/shift"
	"github.com/shiftlink/shiftlink-backend-go/internal/domain/worker"
	"github.com/shiftlink/shiftlink-backend-go/internal/pkg/validator"
	"github.com/shiftlink/shiftlink-backend-go/internal/repository/memory"
	geofenceservice "github.com/shiftlink/shiftlink-backend-go/internal/service/geofence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Business site used across tests: Bangalore, 100 m radius, 15/hr jobs.
const (
	siteLat    = 12.9716
	siteLon    = 77.5946
	siteRadius = 100.0
)

type testEnv struct {
	svc         *AttendanceServiceImpl
	shifts      *memory.ShiftRepository
	workers     *memory.WorkerRepository
	jobs        *memory.JobRepository
	businesses  *memory.BusinessRepository
	employments *memory.EmploymentRepository

	workerID   string
	businessID string
	jobID      string
}

func float64Ptr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool          { return &v }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	env := &testEnv{
		shifts:      memory.NewShiftRepository(),
		workers:     memory.NewWorkerRepository(),
		jobs:        memory.NewJobRepository(),
		businesses:  memory.NewBusinessRepository(),
		employments: memory.NewEmploymentRepository(),
	}

	w, err := env.workers.Create(ctx, worker.Worker{FullName: "Asha Rao", Email: "asha@example.com"})
	require.NoError(t, err)
	env.workerID = w.ID

	b, err := env.businesses.Create(ctx, business.Business{
		Name:           "Brigade Road Cafe",
		Latitude:       float64Ptr(siteLat),
		Longitude:      float64Ptr(siteLon),
		RadiusMeters:   float64Ptr(siteRadius),
		LocationActive: true,
	})
	require.NoError(t, err)
	env.businessID = b.ID

	j, err := env.jobs.Create(ctx, job.Job{
		BusinessID: b.ID,
		Title:      "Barista",
		HourlyRate: 15,
	})
	require.NoError(t, err)
	env.jobID = j.ID

	resolver := geofenceservice.NewResolver(env.employments, env.jobs, env.businesses)
	env.svc = NewAttendanceService(env.shifts, env.workers, env.jobs, resolver).(*AttendanceServiceImpl)
	return env
}

func (e *testEnv) setNow(t time.Time) {
	e.svc.now = func() time.Time { return t }
}

func (e *testEnv) schedule(t *testing.T, start, end time.Time) shift.ShiftResponse {
	t.Helper()
	resp, err := e.svc.Schedule(context.Background(), shift.ScheduleShiftRequest{
		WorkerID:       e.workerID,
		JobID:          e.jobID,
		ScheduledStart: start,
		ScheduledEnd:   end,
	})
	require.NoError(t, err)
	return resp
}

var (
	dayStart = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	dayEnd   = time.Date(2025, 6, 2, 17, 0, 0, 0, time.UTC)
)

func workerActor(id string) shift.Actor {
	return shift.Actor{UserID: "u-" + id, WorkerID: id}
}

func TestSchedule_SnapshotsBusinessGeofence(t *testing.T) {
	env := newTestEnv(t)

	resp := env.schedule(t, dayStart, dayEnd)

	assert.Equal(t, shift.StatusScheduled, resp.Status)
	assert.Equal(t, 15.0, resp.HourlyRate)
	require.NotNil(t, resp.JobLocation)
	assert.Equal(t, siteLat, resp.JobLocation.Latitude)
	assert.Equal(t, siteRadius, resp.JobLocation.RadiusMeters)
	assert.True(t, resp.JobLocation.Active)
}

func TestSchedule_RejectsInvalidWindow(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Schedule(context.Background(), shift.ScheduleShiftRequest{
		WorkerID:       env.workerID,
		JobID:          env.jobID,
		ScheduledStart: dayEnd,
		ScheduledEnd:   dayStart,
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "scheduled_end")
}

func TestSchedule_UnknownWorkerOrJob(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Schedule(context.Background(), shift.ScheduleShiftRequest{
		WorkerID:       "2e9b0f7c-0000-4000-8000-000000000000",
		JobID:          env.jobID,
		ScheduledStart: dayStart,
		ScheduledEnd:   dayEnd,
	})
	assert.ErrorIs(t, err, worker.ErrWorkerNotFound)

	_, err = env.svc.Schedule(context.Background(), shift.ScheduleShiftRequest{
		WorkerID:       env.workerID,
		JobID:          "2e9b0f7c-0000-4000-8000-000000000001",
		ScheduledStart: dayStart,
		ScheduledEnd:   dayEnd,
	})
	assert.ErrorIs(t, err, job.ErrJobNotFound)
}

func TestClockIn_LateWorkerInsideFence(t *testing.T) {
	env := newTestEnv(t)
	scheduled := env.schedule(t, dayStart, dayEnd)

	env.setNow(dayStart.Add(5 * time.Minute))
	resp, err := env.svc.ClockIn(context.Background(), workerActor(env.workerID), scheduled.ID, shift.ClockRequest{
		Latitude:  12.9717,
		Longitude: 77.5947,
	})
	require.NoError(t, err)

	assert.Equal(t, shift.StatusClockedIn, resp.Status)
	assert.True(t, resp.IsLate)
	require.NotNil(t, resp.ClockInLocation)
	assert.True(t, resp.ClockInLocation.Valid)
	assert.Greater(t, resp.ClockInLocation.DistanceMeters, 0.0)
	assert.LessOrEqual(t, resp.ClockInLocation.DistanceMeters, siteRadius)
}

func TestClockIn_EarlyWorkerNotLate(t *testing.T) {
	env := newTestEnv(t)
	scheduled := env.schedule(t, dayStart, dayEnd)

	env.setNow(dayStart.Add(-5 * time.Minute))
	resp, err := env.svc.ClockIn(context.Background(), workerActor(env.workerID), scheduled.ID, shift.ClockRequest{
		Latitude:  siteLat,
		Longitude: siteLon,
	})
	require.NoError(t, err)
	assert.False(t, resp.IsLate)
}

func TestClockIn_OutsideFenceRejectedWithDistance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Fence pinned explicitly at Connaught Place, 150 m radius.
	active := true
	resp, err := env.svc.Schedule(ctx, shift.ScheduleShiftRequest{
		WorkerID:       env.workerID,
		JobID:          env.jobID,
		ScheduledStart: dayStart,
		ScheduledEnd:   dayEnd,
		Location: &shift.GeofenceOverride{
			Latitude:     28.6139,
			Longitude:    77.2090,
			RadiusMeters: 150,
			Active:       &active,
		},
	})
	require.NoError(t, err)

	env.setNow(dayStart)
	_, err = env.svc.ClockIn(ctx, workerActor(env.workerID), resp.ID, shift.ClockRequest{
		Latitude:  28.6200,
		Longitude: 77.2090,
	})

	var rejected *shift.LocationRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Greater(t, rejected.DistanceMeters, 150.0)
	assert.Contains(t, err.Error(), "150")
	assert.Contains(t, err.Error(), fmt.Sprintf("%.0f", rejected.DistanceMeters))

	// No partial state.
	stored, gerr := env.shifts.GetByID(ctx, resp.ID)
	require.NoError(t, gerr)
	assert.Equal(t, shift.StatusScheduled, stored.Status)
	assert.Nil(t, stored.ClockInAt)
	assert.Nil(t, stored.ClockInLocation)
}

func TestClockIn_BoundaryPointIsValid(t *testing.T) {
	env := newTestEnv(t)
	scheduled := env.schedule(t, dayStart, dayEnd)

	// ~89 m north of the fence center, inside the 100 m radius.
	env.setNow(dayStart)
	resp, err := env.svc.ClockIn(context.Background(), workerActor(env.workerID), scheduled.ID, shift.ClockRequest{
		Latitude:  siteLat + 0.0008,
		Longitude: siteLon,
	})
	require.NoError(t, err)
	assert.True(t, resp.ClockInLocation.Valid)
}

func TestClockIn_InactiveFenceAlwaysValidButRecorded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.svc.Schedule(ctx, shift.ScheduleShiftRequest{
		WorkerID:       env.workerID,
		JobID:          env.jobID,
		ScheduledStart: dayStart,
		ScheduledEnd:   dayEnd,
		Location: &shift.GeofenceOverride{
			Latitude:     siteLat,
			Longitude:    siteLon,
			RadiusMeters: 100,
			Active:       boolPtr(false),
		},
	})
	require.NoError(t, err)

	env.setNow(dayStart)
	clocked, err := env.svc.ClockIn(ctx, workerActor(env.workerID), resp.ID, shift.ClockRequest{
		Latitude:  28.6139, // nowhere near the site
		Longitude: 77.2090,
	})
	require.NoError(t, err)
	require.NotNil(t, clocked.ClockInLocation)
	assert.True(t, clocked.ClockInLocation.Valid)
	assert.Greater(t, clocked.ClockInLocation.DistanceMeters, 100.0)
}

func TestClockIn_MissingGeofenceLeavesRecordUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// A business with no coordinates anywhere in the cascade.
	bare, err := env.businesses.Create(ctx, business.Business{Name: "No Address Yet"})
	require.NoError(t, err)
	bareJob, err := env.jobs.Create(ctx, job.Job{BusinessID: bare.ID, Title: "Runner", HourlyRate: 12})
	require.NoError(t, err)

	resp, err := env.svc.Schedule(ctx, shift.ScheduleShiftRequest{
		WorkerID:       env.workerID,
		JobID:          bareJob.ID,
		ScheduledStart: dayStart,
		ScheduledEnd:   dayEnd,
	})
	require.NoError(t, err)
	assert.Nil(t, resp.JobLocation)

	env.setNow(dayStart)
	_, err = env.svc.ClockIn(ctx, workerActor(env.workerID), resp.ID, shift.ClockRequest{
		Latitude:  siteLat,
		Longitude: siteLon,
	})
	assert.ErrorIs(t, err, domaingeofence.ErrNoLocation)

	stored, gerr := env.shifts.GetByID(ctx, resp.ID)
	require.NoError(t, gerr)
	assert.Equal(t, shift.StatusScheduled, stored.Status)
	assert.Nil(t, stored.ClockInAt)
	assert.Nil(t, stored.JobLocation)
}

func TestClockIn_EmploymentOverrideWinsOverBusiness(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Worker-specific site far from the business address.
	_, err := env.employments.Create(ctx, worker.Employment{
		WorkerID:     env.workerID,
		JobID:        env.jobID,
		Active:       true,
		Latitude:     float64Ptr(28.6139),
		Longitude:    float64Ptr(77.2090),
		RadiusMeters: float64Ptr(150),
	})
	require.NoError(t, err)

	resp := env.schedule(t, dayStart, dayEnd)
	require.NotNil(t, resp.JobLocation)
	assert.Equal(t, 28.6139, resp.JobLocation.Latitude)

	env.setNow(dayStart)
	clocked, err := env.svc.ClockIn(ctx, workerActor(env.workerID), resp.ID, shift.ClockRequest{
		Latitude:  28.6139,
		Longitude: 77.2090,
	})
	require.NoError(t, err)
	assert.Equal(t, shift.StatusClockedIn, clocked.Status)
}

func TestClockIn_WrongWorkerForbidden(t *testing.T) {
	env := newTestEnv(t)
	scheduled := env.schedule(t, dayStart, dayEnd)

	other, err := env.workers.Create(context.Background(), worker.Worker{FullName: "Vik"})
	require.NoError(t, err)

	_, err = env.svc.ClockIn(context.Background(), workerActor(other.ID), scheduled.ID, shift.ClockRequest{
		Latitude:  siteLat,
		Longitude: siteLon,
	})
	assert.ErrorIs(t, err, shift.ErrNotShiftOwner)
}

func TestClockIn_UnknownShift(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.ClockIn(context.Background(), workerActor(env.workerID), "missing", shift.ClockRequest{
		Latitude:  siteLat,
		Longitude: siteLon,
	})
	assert.ErrorIs(t, err, shift.ErrShiftNotFound)
}

func TestStateMonotonicity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scheduled := env.schedule(t, dayStart, dayEnd)
	actor := workerActor(env.workerID)
	at := shift.ClockRequest{Latitude: siteLat, Longitude: siteLon}

	// Clock-out before clock-in.
	env.setNow(dayStart)
	_, err := env.svc.ClockOut(ctx, actor, scheduled.ID, at)
	assert.ErrorIs(t, err, shift.ErrNotClockedIn)

	_, err = env.svc.ClockIn(ctx, actor, scheduled.ID, at)
	require.NoError(t, err)

	// Double clock-in.
	_, err = env.svc.ClockIn(ctx, actor, scheduled.ID, at)
	assert.ErrorIs(t, err, shift.ErrAlreadyClockedIn)

	env.setNow(dayEnd)
	_, err = env.svc.ClockOut(ctx, actor, scheduled.ID, at)
	require.NoError(t, err)

	// Clock-in and clock-out on a completed shift.
	_, err = env.svc.ClockIn(ctx, actor, scheduled.ID, at)
	assert.ErrorIs(t, err, shift.ErrAlreadyClockedIn)
	_, err = env.svc.ClockOut(ctx, actor, scheduled.ID, at)
	assert.ErrorIs(t, err, shift.ErrAlreadyClockedOut)
}

func TestEndToEnd_ScheduleClockInClockOut(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := workerActor(env.workerID)

	scheduled := env.schedule(t, dayStart, dayEnd)

	env.setNow(dayStart.Add(2 * time.Minute))
	_, err := env.svc.ClockIn(ctx, actor, scheduled.ID, shift.ClockRequest{
		Latitude:  12.9717,
		Longitude: 77.5947,
	})
	require.NoError(t, err)

	env.setNow(dayStart.Add(2*time.Minute + 5*time.Hour))
	resp, err := env.svc.ClockOut(ctx, actor, scheduled.ID, shift.ClockRequest{
		Latitude:  12.9717,
		Longitude: 77.5947,
	})
	require.NoError(t, err)

	assert.Equal(t, shift.StatusCompleted, resp.Status)
	assert.Equal(t, 5.00, resp.TotalHours)
	assert.Equal(t, 75.00, resp.Earnings)
	assert.True(t, resp.IsLate)
	require.NotNil(t, resp.ClockOutLocation)
	assert.True(t, resp.ClockOutLocation.Valid)
}

func TestSnapshotIsImmutableAfterFirstResolution(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	scheduled := env.schedule(t, dayStart, dayEnd)
	require.NotNil(t, scheduled.JobLocation)

	// Move the business across town after the shift was scheduled.
	b, err := env.businesses.GetByID(ctx, env.businessID)
	require.NoError(t, err)
	b.Latitude = float64Ptr(13.0827)
	b.Longitude = float64Ptr(80.2707)
	_, err = env.businesses.Create(ctx, b)
	require.NoError(t, err)

	// Clock-in at the original site still validates against the snapshot.
	env.setNow(dayStart)
	resp, err := env.svc.ClockIn(ctx, workerActor(env.workerID), scheduled.ID, shift.ClockRequest{
		Latitude:  siteLat,
		Longitude: siteLon,
	})
	require.NoError(t, err)
	assert.Equal(t, siteLat, resp.JobLocation.Latitude)
}

func TestMarkComplete_PrefersElapsedScheduledEnd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := workerActor(env.workerID)

	scheduled := env.schedule(t, dayStart, dayEnd)
	env.setNow(dayStart)
	_, err := env.svc.ClockIn(ctx, actor, scheduled.ID, shift.ClockRequest{Latitude: siteLat, Longitude: siteLon})
	require.NoError(t, err)

	// Worker forgot to clock out; an operator completes the shift two hours
	// after the scheduled end. Payroll settles at the scheduled end.
	env.setNow(dayEnd.Add(2 * time.Hour))
	resp, err := env.svc.MarkComplete(ctx, scheduled.ID)
	require.NoError(t, err)

	assert.Equal(t, shift.StatusCompleted, resp.Status)
	assert.Equal(t, 8.00, resp.TotalHours)
	assert.Equal(t, 120.00, resp.Earnings)
	require.NotNil(t, resp.ClockOutAt)
	assert.Equal(t, dayEnd.Format(time.RFC3339), *resp.ClockOutAt)
}

func TestMarkComplete_UsesNowBeforeScheduledEnd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := workerActor(env.workerID)

	scheduled := env.schedule(t, dayStart, dayEnd)
	env.setNow(dayStart)
	_, err := env.svc.ClockIn(ctx, actor, scheduled.ID, shift.ClockRequest{Latitude: siteLat, Longitude: siteLon})
	require.NoError(t, err)

	early := dayStart.Add(3 * time.Hour)
	env.setNow(early)
	resp, err := env.svc.MarkComplete(ctx, scheduled.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.00, resp.TotalHours)
	assert.Equal(t, early.Format(time.RFC3339), *resp.ClockOutAt)
}

func TestMarkComplete_RequiresClockedIn(t *testing.T) {
	env := newTestEnv(t)
	scheduled := env.schedule(t, dayStart, dayEnd)

	_, err := env.svc.MarkComplete(context.Background(), scheduled.ID)
	assert.ErrorIs(t, err, shift.ErrShiftNotActive)
}

func TestAdjustHours_OverwritesPayroll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scheduled := env.schedule(t, dayStart, dayEnd)

	resp, err := env.svc.AdjustHours(ctx, scheduled.ID, shift.AdjustHoursRequest{
		TotalHours: 6.5,
		HourlyRate: float64Ptr(18),
	})
	require.NoError(t, err)
	assert.Equal(t, 6.5, resp.TotalHours)
	assert.Equal(t, 18.0, resp.HourlyRate)
	assert.Equal(t, 117.00, resp.Earnings)
	assert.Equal(t, shift.StatusScheduled, resp.Status)
	assert.Nil(t, resp.ClockInAt)
}

func TestAdjustHours_RejectsNegatives(t *testing.T) {
	env := newTestEnv(t)
	scheduled := env.schedule(t, dayStart, dayEnd)

	_, err := env.svc.AdjustHours(context.Background(), scheduled.ID, shift.AdjustHoursRequest{TotalHours: -1})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = env.svc.AdjustHours(context.Background(), scheduled.ID, shift.AdjustHoursRequest{
		TotalHours: 1,
		HourlyRate: float64Ptr(-5),
	})
	assert.ErrorAs(t, err, &verrs)
}

func TestMarkMissed_SweepsOverdueScheduledOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := workerActor(env.workerID)

	overdue := env.schedule(t, dayStart, dayEnd)
	working := env.schedule(t, dayStart, dayEnd)
	env.setNow(dayStart)
	_, err := env.svc.ClockIn(ctx, actor, working.ID, shift.ClockRequest{Latitude: siteLat, Longitude: siteLon})
	require.NoError(t, err)

	count, err := env.svc.MarkMissed(ctx, dayEnd.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	missed, err := env.shifts.GetByID(ctx, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, shift.StatusMissed, missed.Status)

	untouched, err := env.shifts.GetByID(ctx, working.ID)
	require.NoError(t, err)
	assert.Equal(t, shift.StatusClockedIn, untouched.Status)

	// A missed shift can no longer be clocked into.
	_, err = env.svc.ClockIn(ctx, actor, overdue.ID, shift.ClockRequest{Latitude: siteLat, Longitude: siteLon})
	assert.ErrorIs(t, err, shift.ErrShiftMissed)
}

func TestConcurrentClockIn_ExactlyOneWins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := workerActor(env.workerID)
	at := shift.ClockRequest{Latitude: siteLat, Longitude: siteLon}

	for i := 0; i < 20; i++ {
		scheduled := env.schedule(t, dayStart, dayEnd)
		env.setNow(dayStart)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for n := 0; n < 2; n++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				_, errs[n] = env.svc.ClockIn(ctx, actor, scheduled.ID, at)
			}(n)
		}
		wg.Wait()

		successes := 0
		for _, err := range errs {
			if err == nil {
				successes++
			} else {
				assert.ErrorIs(t, err, shift.ErrAlreadyClockedIn)
			}
		}
		assert.Equal(t, 1, successes, "exactly one concurrent clock-in must win")
	}
}

func TestListShifts_FilterAndPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		env.schedule(t, dayStart.Add(time.Duration(i)*24*time.Hour), dayEnd.Add(time.Duration(i)*24*time.Hour))
	}

	status := shift.StatusScheduled
	resp, err := env.svc.ListShifts(ctx, shift.ShiftFilter{
		WorkerID: &env.workerID,
		Status:   &status,
		Page:     1,
		Limit:    2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.TotalCount)
	assert.Len(t, resp.Shifts, 2)
	assert.Equal(t, 3, resp.TotalPages)

	other := "nobody"
	resp, err = env.svc.ListShifts(ctx, shift.ShiftFilter{WorkerID: &other})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.TotalCount)
}
