package osmparser

import (
	"github.com/lintang-b-s/routeopt/pkg/datastructure"
	"github.com/lintang-b-s/routeopt/pkg/geo"
	"go.uber.org/zap"
)

type BuildStats struct {
	Points          int
	DuplicatePoints int
	Segments        int
	Edges           int
	SkippedPairs    int // pairs with an endpoint missing from the node table
	IgnoredRecords  int
}

type GraphBuilder struct {
	log *zap.Logger
}

func NewGraphBuilder(log *zap.Logger) *GraphBuilder {
	if log == nil {
		log = zap.NewNop()
	}
	return &GraphBuilder{log: log}
}

// BuildGraph converts raw records into the node table, the road graph and the point id -> vertex index map.
func (gb *GraphBuilder) BuildGraph(records []Record) (*datastructure.NodeTable, *datastructure.Graph,
	map[int64]datastructure.Index, error) {
	nodes, graph, nodeIDMap, _, err := gb.BuildGraphWithStats(records)
	return nodes, graph, nodeIDMap, err
}

func (gb *GraphBuilder) BuildGraphWithStats(records []Record) (*datastructure.NodeTable, *datastructure.Graph,
	map[int64]datastructure.Index, BuildStats, error) {
	var stats BuildStats

	numPoints := 0
	for _, r := range records {
		if r.Type == POINT_RECORD {
			numPoints++
		}
	}

	nodes := datastructure.NewNodeTable(numPoints)
	graph := datastructure.NewGraph(numPoints)
	nodeIDMap := make(map[int64]datastructure.Index, numPoints)

	// first pass: points -> vertices
	for _, r := range records {
		if r.Type != POINT_RECORD {
			continue
		}
		p, err := r.toGeoPoint()
		if err != nil {
			return nil, nil, nil, stats, err
		}
		if !nodes.Insert(p) {
			stats.DuplicatePoints++
			continue
		}
		nodeIDMap[p.ID] = graph.AddVertex(p.ID, p.Lat, p.Lon)
		stats.Points++
	}

	// second pass: consecutive segment points -> edges
	for _, r := range records {
		switch r.Type {
		case POINT_RECORD:
			continue
		case SEGMENT_RECORD:
		default:
			stats.IgnoredRecords++
			continue
		}

		segment, err := r.toRoadSegment()
		if err != nil {
			return nil, nil, nil, stats, err
		}
		stats.Segments++

		for i := 0; i+1 < len(segment.Points); i++ {
			fromID, toID := segment.Points[i], segment.Points[i+1]
			u, okU := nodeIDMap[fromID]
			v, okV := nodeIDMap[toID]
			if !okU || !okV {
				stats.SkippedPairs++
				continue
			}

			from, _ := nodes.Get(fromID)
			to, _ := nodes.Get(toID)
			dist := geo.CalculateHaversineDistance(from.Lat, from.Lon, to.Lat, to.Lon)
			if err := graph.AddEdge(u, v, dist); err != nil {
				return nil, nil, nil, stats, err
			}
			stats.Edges++
		}
	}

	gb.log.Debug("road graph built",
		zap.Int("points", stats.Points),
		zap.Int("segments", stats.Segments),
		zap.Int("edges", stats.Edges),
		zap.Int("skippedPairs", stats.SkippedPairs),
		zap.Int("duplicatePoints", stats.DuplicatePoints))

	return nodes, graph, nodeIDMap, stats, nil
}
