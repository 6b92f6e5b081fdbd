package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"museum-buddy/geo"
)

func TestBoundingBoxOf(t *testing.T) {
	points := []geo.Point{
		{Lat: 52.3600, Lng: 4.8852},
		{Lat: 52.3738, Lng: 4.9123},
		{Lat: 52.3584, Lng: 4.8811},
	}

	box, ok := BoundingBoxOf(points)

	require.True(t, ok)
	assert.Equal(t, 52.3584, box.LatMin)
	assert.Equal(t, 52.3738, box.LatMax)
	assert.Equal(t, 4.8811, box.LngMin)
	assert.Equal(t, 4.9123, box.LngMax)
	assert.InDelta(t, 52.3661, box.Lat, 1e-9)
	assert.InDelta(t, 4.8967, box.Lng, 1e-9)
	for _, p := range points {
		assert.True(t, box.Contains(p))
	}
	assert.False(t, box.Contains(geo.Point{Lat: 51.9143, Lng: 4.4731}))

	corners := box.Corners()
	require.Len(t, corners, 5)
	assert.Equal(t, corners[0], corners[4])
}

func TestBoundingBoxOf_Empty(t *testing.T) {
	_, ok := BoundingBoxOf(nil)
	assert.False(t, ok)
}
