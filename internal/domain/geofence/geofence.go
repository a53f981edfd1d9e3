package geofence

import (
	"context"

	"github.com/shiftlink/shiftlink-backend-go/internal/pkg/geo"
)

// Radius policy. Every place a radius is read or written goes through
// ClampRadius so there is exactly one definition of the bounds and default.
const (
	DefaultRadiusMeters = 150
	MinRadiusMeters     = 10
	MaxRadiusMeters     = 5000
)

// Geofence is a circular presence region resolved from one of the location
// sources. It is a transient resolution result; shifts persist their own
// snapshot of it.
type Geofence struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	Active       bool
	Label        string
}

// Usable reports whether the fence has coordinates a distance check can use.
func (g Geofence) Usable() bool {
	return geo.IsFiniteCoordinate(g.Latitude, g.Longitude)
}

// ClampRadius normalizes a radius into [MinRadiusMeters, MaxRadiusMeters].
// Zero or negative values fall back to the default; out-of-range values are
// clamped, never rejected.
func ClampRadius(m float64) float64 {
	if m <= 0 {
		return DefaultRadiusMeters
	}
	if m < MinRadiusMeters {
		return MinRadiusMeters
	}
	if m > MaxRadiusMeters {
		return MaxRadiusMeters
	}
	return m
}

// ResolveInput identifies the shift context a fence is resolved for. Override,
// when usable, wins over every other source (it carries either a
// caller-supplied fence or the snapshot already cached on the shift).
type ResolveInput struct {
	WorkerID   string
	JobID      *string
	BusinessID *string
	Override   *Geofence
}

// Resolver produces the single authoritative geofence for a shift, walking the
// location sources in precedence order.
type Resolver interface {
	Resolve(ctx context.Context, input ResolveInput) (Geofence, error)
}
