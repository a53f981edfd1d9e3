package geofence

import (
	"context"
	"fmt"

	"github.com/shiftlink/shiftlink-backend-go/internal/domain/geofence"
)

// EmploymentLocations is the slice of the employment repository the resolver
// needs.
type EmploymentLocations interface {
	GetWorkLocation(ctx context.Context, workerID, jobID string) (*geofence.Geofence, error)
}

type JobLocations interface {
	GetLocation(ctx context.Context, id string) (*geofence.Geofence, error)
}

type BusinessLocations interface {
	GetLocation(ctx context.Context, id string) (*geofence.Geofence, error)
}

type ResolverImpl struct {
	employmentRepo EmploymentLocations
	jobRepo        JobLocations
	businessRepo   BusinessLocations
}

func NewResolver(
	employmentRepo EmploymentLocations,
	jobRepo JobLocations,
	businessRepo BusinessLocations,
) geofence.Resolver {
	return &ResolverImpl{
		employmentRepo: employmentRepo,
		jobRepo:        jobRepo,
		businessRepo:   businessRepo,
	}
}

// Resolve implements geofence.Resolver. Sources are tried strictly in order:
// explicit override, worker employment work-location, job location, business
// location. The first one with finite coordinates wins; its radius is clamped
// on the way out.
func (r *ResolverImpl) Resolve(ctx context.Context, input geofence.ResolveInput) (geofence.Geofence, error) {
	if input.Override != nil && input.Override.Usable() {
		return normalize(*input.Override), nil
	}

	if input.JobID != nil {
		loc, err := r.employmentRepo.GetWorkLocation(ctx, input.WorkerID, *input.JobID)
		if err != nil {
			return geofence.Geofence{}, fmt.Errorf("failed to get employment work location: %w", err)
		}
		if loc != nil && loc.Usable() {
			return normalize(*loc), nil
		}

		loc, err = r.jobRepo.GetLocation(ctx, *input.JobID)
		if err != nil {
			return geofence.Geofence{}, fmt.Errorf("failed to get job location: %w", err)
		}
		if loc != nil && loc.Usable() {
			return normalize(*loc), nil
		}
	}

	if input.BusinessID != nil {
		loc, err := r.businessRepo.GetLocation(ctx, *input.BusinessID)
		if err != nil {
			return geofence.Geofence{}, fmt.Errorf("failed to get business location: %w", err)
		}
		if loc != nil && loc.Usable() {
			return normalize(*loc), nil
		}
	}

	return geofence.Geofence{}, geofence.ErrNoLocation
}

func normalize(g geofence.Geofence) geofence.Geofence {
	g.RadiusMeters = geofence.ClampRadius(g.RadiusMeters)
	return g
}
