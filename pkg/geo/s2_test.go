package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaddedBoundingBox(t *testing.T) {
	origin := NewCoordinate(-12.11797, -76.98541)
	destination := NewCoordinate(-12.10000, -76.99000)

	bb := NewPaddedBoundingBox(origin, destination, 0.05)

	assert.InDelta(t, -12.16797, bb.MinLat(), 1e-9)
	assert.InDelta(t, -12.05, bb.MaxLat(), 1e-9)
	assert.InDelta(t, -77.04, bb.MinLon(), 1e-9)
	assert.InDelta(t, -76.93541, bb.MaxLon(), 1e-9)

	assert.True(t, bb.Contains(origin))
	assert.True(t, bb.Contains(destination))
	assert.False(t, bb.Contains(NewCoordinate(-12.5, -77.0)))

	assert.Equal(t, "-12.167970,-77.040000,-12.050000,-76.935410", bb.OverpassString())
}

func TestPaddedBoundingBoxArgumentOrder(t *testing.T) {
	a := NewCoordinate(1, 2)
	b := NewCoordinate(-1, -2)

	assert.Equal(t, NewPaddedBoundingBox(a, b, 0.1).OverpassString(), NewPaddedBoundingBox(b, a, 0.1).OverpassString())
}

func TestPaddedBoundingBoxNearPole(t *testing.T) {
	bb := NewPaddedBoundingBox(NewCoordinate(89.98, 10), NewCoordinate(89.97, 11), 0.05)

	assert.InDelta(t, 89.92, bb.MinLat(), 1e-9)
	assert.InDelta(t, 90, bb.MaxLat(), 1e-9)
	assert.InDelta(t, -180, bb.MinLon(), 1e-9)
	assert.InDelta(t, 180, bb.MaxLon(), 1e-9)
	assert.True(t, bb.Contains(NewCoordinate(89.99, -120)))
}

func TestPolylineRoundTrip(t *testing.T) {
	path := []Coordinate{
		NewCoordinate(38.5, -120.2),
		NewCoordinate(40.7, -120.95),
		NewCoordinate(43.252, -126.453),
	}

	encoded := PolylineFromCoords(path)
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", encoded)

	decoded, err := CoordsFromPolyline(encoded)
	assert.NoError(t, err)
	assert.Len(t, decoded, len(path))
	for i := range path {
		assert.InDelta(t, path[i].Lat, decoded[i].Lat, 1e-5)
		assert.InDelta(t, path[i].Lon, decoded[i].Lon, 1e-5)
	}
}
