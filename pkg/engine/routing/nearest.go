package routing

import (
	"errors"

	da "github.com/lintang-b-s/routeopt/pkg/datastructure"
	"github.com/lintang-b-s/routeopt/pkg/geo"
	"github.com/lintang-b-s/routeopt/pkg/util"
)

var ErrNoNodes = errors.New("node table is empty")

// NearestNode returns the identifier of the point closest to (lat, lon) by haversine distance.
// Equal distances resolve to the smallest identifier.
func NearestNode(nodes *da.NodeTable, lat, lon float64) (int64, error) {
	id, _, err := NearestNodeWithDistance(nodes, lat, lon)
	return id, err
}

// NearestNodeWithDistance also returns the distance in km from the query to the chosen point.
func NearestNodeWithDistance(nodes *da.NodeTable, lat, lon float64) (int64, float64, error) {
	if nodes == nil || nodes.Len() == 0 {
		return 0, 0, util.WrapErrorf(ErrNoNodes, util.ErrNotFound, "no node near (%f, %f)", lat, lon)
	}

	bestID := int64(0)
	bestDist := 0.0
	first := true
	nodes.ForEach(func(p da.GeoPoint) {
		d := geo.CalculateHaversineDistance(lat, lon, p.Lat, p.Lon)
		if first || d < bestDist || (d == bestDist && p.ID < bestID) {
			bestID, bestDist = p.ID, d
			first = false
		}
	})

	return bestID, bestDist, nil
}
