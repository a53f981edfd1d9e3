package worker

import (
	"context"

	"github.com/shiftlink/shiftlink-backend-go/internal/domain/geofence"
)

type Repository interface {
	Create(ctx context.Context, w Worker) (Worker, error)
	GetByID(ctx context.Context, id string) (Worker, error)
}

// EmploymentRepository exposes the worker-specific work-location override used
// as the second step of the geofence resolution cascade.
type EmploymentRepository interface {
	Create(ctx context.Context, e Employment) (Employment, error)

	// GetWorkLocation returns the configured work-location override for an
	// active employment of this worker on this job, or nil when none exists.
	GetWorkLocation(ctx context.Context, workerID, jobID string) (*geofence.Geofence, error)
}
