package business

import "time"

type Business struct {
	ID             string
	OwnerID        string
	Name           string
	Latitude       *float64
	Longitude      *float64
	RadiusMeters   *float64
	LocationActive bool
	LocationName   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
