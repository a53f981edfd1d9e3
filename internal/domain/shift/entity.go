package shift

import (
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusClockedIn Status = "clocked-in"
	StatusCompleted Status = "completed"
	StatusMissed    Status = "missed"
)

// JobLocation is the geofence snapshot attached to a shift the first time a
// fence is resolved for it. Once set it never changes, so later edits to the
// business or employment location do not retroactively alter a shift that was
// already evaluated against it.
type JobLocation struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	Active       bool
	Label        string
}

// GPSFix is a worker-reported position with whatever telemetry the device
// provided.
type GPSFix struct {
	Latitude       float64
	Longitude      float64
	AccuracyMeters *float64
	AltitudeMeters *float64
	Heading        *float64
	SpeedMps       *float64
	CapturedAt     time.Time
}

// LocationEvidence records a reported fix together with the computed distance
// from the fence center and the validation verdict. Evidence is kept even when
// an inactive fence makes the check automatically pass.
type LocationEvidence struct {
	GPSFix
	DistanceMeters float64
	Valid          bool
	Message        string
}

// ShiftRecord is one scheduled unit of work for one worker. It is mutated only
// through the attendance service; Version backs the conditional write the
// repository performs.
type ShiftRecord struct {
	ID         string
	WorkerID   string
	EmployerID *string
	JobID      *string
	BusinessID *string

	ScheduledStart time.Time
	ScheduledEnd   time.Time
	ClockInAt      *time.Time
	ClockOutAt     *time.Time

	Status     Status
	HourlyRate float64
	TotalHours float64
	Earnings   float64
	IsLate     bool

	JobLocation      *JobLocation
	ClockInLocation  *LocationEvidence
	ClockOutLocation *LocationEvidence

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
