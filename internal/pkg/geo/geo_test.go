package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters_Identity(t *testing.T) {
	assert.Equal(t, 0.0, DistanceMeters(28.6139, 77.2090, 28.6139, 77.2090))
}

func TestDistanceMeters_Symmetry(t *testing.T) {
	pairs := [][4]float64{
		{28.6139, 77.2090, 12.9716, 77.5946},
		{-33.8688, 151.2093, 51.5074, -0.1278},
		{0, 0, 0.001, 0.001},
	}
	for _, p := range pairs {
		ab := DistanceMeters(p[0], p[1], p[2], p[3])
		ba := DistanceMeters(p[2], p[3], p[0], p[1])
		assert.InDelta(t, ab, ba, 1e-9)
	}
}

func TestDistanceMeters_KnownDistances(t *testing.T) {
	// One degree of latitude is roughly 111.2 km.
	d := DistanceMeters(0, 0, 1, 0)
	assert.InDelta(t, 111195, d, 50)

	// Two nearby points in Bangalore, ~15 m apart.
	d = DistanceMeters(12.9716, 77.5946, 12.9717, 77.5947)
	assert.Greater(t, d, 10.0)
	assert.Less(t, d, 20.0)
}

func TestDistanceMeters_NonFinitePropagates(t *testing.T) {
	assert.True(t, math.IsNaN(DistanceMeters(math.NaN(), 0, 0, 0)))
}

func TestIsFiniteCoordinate(t *testing.T) {
	assert.True(t, IsFiniteCoordinate(28.6139, 77.2090))
	assert.False(t, IsFiniteCoordinate(math.NaN(), 77.2090))
	assert.False(t, IsFiniteCoordinate(28.6139, math.Inf(1)))
	assert.False(t, IsFiniteCoordinate(91, 0))
	assert.False(t, IsFiniteCoordinate(0, -181))
}
