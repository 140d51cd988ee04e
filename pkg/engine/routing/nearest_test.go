package routing

import (
	"errors"
	"testing"

	da "github.com/lintang-b-s/routeopt/pkg/datastructure"
	"github.com/lintang-b-s/routeopt/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodeTable(points ...da.GeoPoint) *da.NodeTable {
	nt := da.NewNodeTable(len(points))
	for _, p := range points {
		nt.Insert(p)
	}
	return nt
}

func TestNearestNode(t *testing.T) {
	nodes := nodeTable(
		da.NewGeoPoint(1, 0, 0),
		da.NewGeoPoint(2, 0, 1),
		da.NewGeoPoint(3, 0, 2),
	)

	testCases := []struct {
		name     string
		lat, lon float64
		want     int64
	}{
		{name: "near A", lat: 0.1, lon: 0.1, want: 1},
		{name: "near C", lat: 0.1, lon: 1.9, want: 3},
		{name: "exact B", lat: 0, lon: 1, want: 2},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NearestNode(nodes, tt.lat, tt.lon)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNearestNodeExactMatchHasZeroDistance(t *testing.T) {
	nodes := nodeTable(da.NewGeoPoint(7, -12.05, -77.04), da.NewGeoPoint(8, -12.06, -77.03))

	id, dist, err := NearestNodeWithDistance(nodes, -12.06, -77.03)
	require.NoError(t, err)
	assert.Equal(t, int64(8), id)
	assert.Equal(t, 0.0, dist)
}

func TestNearestNodeTieBreaksOnSmallestID(t *testing.T) {
	// inserted largest id first, both at the same distance from the equator query
	nodes := nodeTable(da.NewGeoPoint(20, 1, 0), da.NewGeoPoint(10, -1, 0))

	got, err := NearestNode(nodes, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got)
}

func TestNearestNodeEmptyTable(t *testing.T) {
	_, err := NearestNode(da.NewNodeTable(0), 0, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoNodes)

	var uerr *util.Error
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, util.ErrNotFound, uerr.Code())
}
