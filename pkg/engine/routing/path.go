package routing

import (
	"errors"

	da "github.com/lintang-b-s/routeopt/pkg/datastructure"
	"github.com/lintang-b-s/routeopt/pkg/util"
)

var ErrBrokenPredecessorChain = errors.New("predecessor chain does not lead back to the source")

// ReconstructPath walks the predecessor relation from t back to s and returns the vertices from s to t.
// The walk takes at most numVertices steps, so a cyclic or truncated relation fails instead of looping.
func ReconstructPath(pred Predecessors, s, t da.Index, numVertices int) ([]da.Index, error) {
	if s == t {
		return []da.Index{s}, nil
	}

	path := make([]da.Index, 0, 16)
	cur := t
	path = append(path, cur)
	for steps := 0; cur != s; steps++ {
		if steps >= numVertices {
			return nil, util.WrapErrorf(ErrBrokenPredecessorChain, util.ErrInternalServerError,
				"path from %d to %d exceeds %d vertices", s, t, numVertices)
		}
		prev, ok := pred.Get(cur)
		if !ok {
			return nil, util.WrapErrorf(ErrBrokenPredecessorChain, util.ErrInternalServerError,
				"vertex %d has no predecessor", cur)
		}
		cur = prev
		path = append(path, cur)
	}

	return util.ReverseG(path), nil
}

// PathCoordinates translates vertex indices back into map points.
func PathCoordinates(graph *da.Graph, path []da.Index) []da.GeoPoint {
	points := make([]da.GeoPoint, 0, len(path))
	for _, v := range path {
		lat, lon := graph.GetVertexCoordinates(v)
		points = append(points, da.NewGeoPoint(graph.GetOsmID(v), lat, lon))
	}
	return points
}
