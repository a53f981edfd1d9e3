package business

import (
	"context"

	"github.com/shiftlink/shiftlink-backend-go/internal/domain/geofence"
)

type Repository interface {
	Create(ctx context.Context, b Business) (Business, error)
	GetByID(ctx context.Context, id string) (Business, error)

	// GetLocation returns the business's configured location, or nil when the
	// business has no coordinates yet.
	GetLocation(ctx context.Context, id string) (*geofence.Geofence, error)
}
