package engine

import (
	"context"
	"errors"

	"github.com/lintang-b-s/routeopt/pkg/osmparser"
	"go.uber.org/zap"
)

var ErrNoPrebuiltNetwork = errors.New("engine has no prebuilt road network")

// Engine builds road networks from raw map records. When created from an OpenStreetMap extract it also
// keeps one prebuilt network that is shared read-only by every query.
type Engine struct {
	builder  *osmparser.GraphBuilder
	prebuilt *RoadNetwork
	logger   *zap.Logger
}

func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{
		builder: osmparser.NewGraphBuilder(logger),
		logger:  logger,
	}
}

// NewEngineFromFile loads mapFile (.osm.pbf or .osm) once and indexes its points for nearest node lookups.
func NewEngineFromFile(ctx context.Context, mapFile string, logger *zap.Logger) (*Engine, error) {
	logger.Info("Reading openstreetmap extract...", zap.String("mapFile", mapFile))
	records, err := osmparser.LoadRecordsFromFile(ctx, mapFile, logger)
	if err != nil {
		return nil, err
	}

	e := NewEngine(logger)
	network, err := e.BuildNetwork(records)
	if err != nil {
		return nil, err
	}
	network.BuildSpatialIndex(logger)
	e.prebuilt = network

	logger.Info("prebuilt road network ready",
		zap.Int("vertices", network.Graph().NumberOfVertices()),
		zap.Int("edges", network.Graph().NumberOfEdges()))
	return e, nil
}

// BuildNetwork turns raw records into a fresh road network owned by the caller.
func (e *Engine) BuildNetwork(records []osmparser.Record) (*RoadNetwork, error) {
	nodes, graph, nodeIDMap, err := e.builder.BuildGraph(records)
	if err != nil {
		return nil, err
	}
	return NewRoadNetwork(nodes, graph, nodeIDMap), nil
}

func (e *Engine) HasPrebuiltNetwork() bool {
	return e.prebuilt != nil
}

func (e *Engine) PrebuiltNetwork() (*RoadNetwork, error) {
	if e.prebuilt == nil {
		return nil, ErrNoPrebuiltNetwork
	}
	return e.prebuilt, nil
}
