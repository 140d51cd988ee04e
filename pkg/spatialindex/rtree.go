package spatialindex

import (
	"github.com/lintang-b-s/routeopt/pkg/datastructure"
	"github.com/lintang-b-s/routeopt/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

const (
	initialSearchRadius = 0.5    // km
	maxSearchRadius     = 1000.0 // km
)

type Rtree struct {
	tr *rtree.RTreeG[datastructure.GeoPoint]
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[datastructure.GeoPoint]
	return &Rtree{
		tr: &tr,
	}
}

// Build inserts every point of the node table as a degenerate (point) rectangle, in ascending id order.
func (rt *Rtree) Build(nodes *datastructure.NodeTable, log *zap.Logger) {
	log.Info("Building R-tree spatial index...", zap.Int("points", nodes.Len()))
	for _, id := range nodes.SortedIDs() {
		p, _ := nodes.Get(id)
		pos := [2]float64{p.Lon, p.Lat}
		rt.tr.Insert(pos, pos, p)
	}
	log.Info("R-tree spatial index built.")
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}

// SearchWithinRadius returns every point inside the bounding box of the circle of radius km around
// (qLat, qLon), so every point within radius is included. ok is false when the circle reaches a pole
// or crosses the antimeridian.
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64) ([]datastructure.GeoPoint, bool) {
	minLat, minLon, maxLat, maxLon, ok := geo.CircleBounds(qLat, qLon, radius)
	if !ok {
		return nil, false
	}

	results := make([]datastructure.GeoPoint, 0, 10)
	rt.tr.Search([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat},
		func(min, max [2]float64, data datastructure.GeoPoint) bool {
			results = append(results, data)
			return true
		})
	return results, true
}

// Nearest returns the point with the smallest haversine distance to (qLat, qLon), ties going to the
// smallest identifier. The search circle doubles until its best candidate lies strictly inside it; every
// point at least as close is then inside the searched box too. ok is false when the index cannot answer
// exactly (empty index, pole, antimeridian, nothing within maxSearchRadius); callers fall back to a linear scan.
func (rt *Rtree) Nearest(qLat, qLon float64) (datastructure.GeoPoint, float64, bool) {
	if rt.tr.Len() == 0 {
		return datastructure.GeoPoint{}, 0, false
	}

	for radius := initialSearchRadius; radius <= maxSearchRadius; radius *= 2 {
		candidates, ok := rt.SearchWithinRadius(qLat, qLon, radius)
		if !ok {
			return datastructure.GeoPoint{}, 0, false
		}
		if len(candidates) == 0 {
			continue
		}

		best := candidates[0]
		bestDist := geo.CalculateHaversineDistance(qLat, qLon, best.Lat, best.Lon)
		for _, p := range candidates[1:] {
			d := geo.CalculateHaversineDistance(qLat, qLon, p.Lat, p.Lon)
			if d < bestDist || (d == bestDist && p.ID < best.ID) {
				best, bestDist = p, d
			}
		}

		if bestDist < radius {
			return best, bestDist, true
		}
	}

	return datastructure.GeoPoint{}, 0, false
}
