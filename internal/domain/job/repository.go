package job

import (
	"context"

	"github.com/shiftlink/shiftlink-backend-go/internal/domain/geofence"
)

type Repository interface {
	Create(ctx context.Context, j Job) (Job, error)
	GetByID(ctx context.Context, id string) (Job, error)

	// GetLocation returns the job's own location when it carries coordinates
	// directly, or nil when it does not.
	GetLocation(ctx context.Context, id string) (*geofence.Geofence, error)
}
