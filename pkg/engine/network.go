package engine

import (
	"fmt"

	da "github.com/lintang-b-s/routeopt/pkg/datastructure"
	"github.com/lintang-b-s/routeopt/pkg/engine/routing"
	"github.com/lintang-b-s/routeopt/pkg/spatialindex"
	"github.com/lintang-b-s/routeopt/pkg/util"
	"go.uber.org/zap"
)

// RoadNetwork is a built graph with its node table. It is never mutated after construction.
type RoadNetwork struct {
	nodes     *da.NodeTable
	graph     *da.Graph
	nodeIDMap map[int64]da.Index
	index     *spatialindex.Rtree
}

func NewRoadNetwork(nodes *da.NodeTable, graph *da.Graph, nodeIDMap map[int64]da.Index) *RoadNetwork {
	return &RoadNetwork{
		nodes:     nodes,
		graph:     graph,
		nodeIDMap: nodeIDMap,
	}
}

func (rn *RoadNetwork) Graph() *da.Graph {
	return rn.graph
}

func (rn *RoadNetwork) Nodes() *da.NodeTable {
	return rn.nodes
}

// BuildSpatialIndex must be called before the network is shared between goroutines.
func (rn *RoadNetwork) BuildSpatialIndex(logger *zap.Logger) {
	rt := spatialindex.NewRtree()
	rt.Build(rn.nodes, logger)
	rn.index = rt
}

// Nearest snaps (lat, lon) to a point of the network and returns it with the snap distance in km.
func (rn *RoadNetwork) Nearest(lat, lon float64) (da.GeoPoint, float64, error) {
	if rn.index != nil {
		if p, dist, ok := rn.index.Nearest(lat, lon); ok {
			return p, dist, nil
		}
	}

	id, dist, err := routing.NearestNodeWithDistance(rn.nodes, lat, lon)
	if err != nil {
		return da.GeoPoint{}, 0, err
	}
	p, _ := rn.nodes.Get(id)
	return p, dist, nil
}

type Route struct {
	Found                   bool
	Distance                float64 // km
	Path                    []da.GeoPoint
	Start                   da.GeoPoint
	End                     da.GeoPoint
	SnapDistanceOrigin      float64
	SnapDistanceDestination float64
	SettledNodes            int
}

// Route snaps both coordinates to their nearest points and runs a shortest path search between them.
// An unreachable destination yields Route{Found: false} and a nil error.
func (rn *RoadNetwork) Route(origLat, origLon, dstLat, dstLon float64) (Route, error) {
	start, snapOrigin, err := rn.Nearest(origLat, origLon)
	if err != nil {
		return Route{}, err
	}
	end, snapDestination, err := rn.Nearest(dstLat, dstLon)
	if err != nil {
		return Route{}, err
	}

	route := Route{
		Start:                   start,
		End:                     end,
		SnapDistanceOrigin:      snapOrigin,
		SnapDistanceDestination: snapDestination,
	}

	s, okS := rn.nodeIDMap[start.ID]
	t, okT := rn.nodeIDMap[end.ID]
	if !okS || !okT {
		return Route{}, util.WrapErrorf(fmt.Errorf("point without vertex"), util.ErrInternalServerError,
			"points %d and %d are not both in the graph", start.ID, end.ID)
	}

	dist, pred, found, settled := routing.NewDijkstra(rn.graph).ShortestPathWithStats(s, t)
	route.SettledNodes = settled
	if !found {
		return route, nil
	}

	path, err := routing.ReconstructPath(pred, s, t, rn.graph.NumberOfVertices())
	if err != nil {
		return Route{}, err
	}

	route.Found = true
	route.Distance = dist
	route.Path = routing.PathCoordinates(rn.graph, path)
	return route, nil
}
