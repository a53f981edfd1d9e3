package worker

import "time"

type Worker struct {
	ID        string
	FullName  string
	Email     string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Employment ties a worker to a job. It may carry a work-location override
// that takes precedence over the job's and business's own locations when a
// shift geofence is resolved.
type Employment struct {
	ID           string
	WorkerID     string
	JobID        string
	Active       bool
	Latitude     *float64
	Longitude    *float64
	RadiusMeters *float64
	LocationName *string
	CreatedAt    time.Time
}
