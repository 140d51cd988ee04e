package usecases

import (
	"context"
	"time"

	"github.com/lintang-b-s/routeopt/pkg/engine"
	"github.com/lintang-b-s/routeopt/pkg/geo"
	"github.com/lintang-b-s/routeopt/pkg/osmparser"
)

type RouteEngine interface {
	BuildNetwork(records []osmparser.Record) (*engine.RoadNetwork, error)
	HasPrebuiltNetwork() bool
	PrebuiltNetwork() (*engine.RoadNetwork, error)
}

type RecordSource interface {
	FetchRecords(ctx context.Context, origin, destination geo.Coordinate) ([]osmparser.Record, error)
}

type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

type QueryMetrics interface {
	ObserveRoute(outcome string, duration time.Duration, settledNodes, vertices int)
}
