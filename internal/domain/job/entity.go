package job

import "time"

type Job struct {
	ID           string
	BusinessID   string
	Title        string
	Description  *string
	HourlyRate   float64
	Latitude     *float64
	Longitude    *float64
	RadiusMeters *float64
	LocationName *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
