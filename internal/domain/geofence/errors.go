package geofence

import "errors"

var (
	// ErrNoLocation means no source in the resolution cascade had usable
	// coordinates. Clock-in/out cannot proceed until a location is configured.
	ErrNoLocation = errors.New("no GPS location configured for this shift; configure a business location")
)
