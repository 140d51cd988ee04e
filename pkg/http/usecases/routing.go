package usecases

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/lintang-b-s/routeopt/pkg/concurrent"
	da "github.com/lintang-b-s/routeopt/pkg/datastructure"
	"github.com/lintang-b-s/routeopt/pkg/engine"
	"github.com/lintang-b-s/routeopt/pkg/geo"
	"github.com/lintang-b-s/routeopt/pkg/mapdata"
	"github.com/lintang-b-s/routeopt/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrInvalidCoordinate = errors.New("coordinate out of range")

type Location struct {
	Point   da.GeoPoint
	Address string
}

type RouteResult struct {
	Found                   bool
	Distance                float64 // km
	Path                    []da.GeoPoint
	Polyline                string
	Start                   Location
	End                     Location
	SnapDistanceOrigin      float64
	SnapDistanceDestination float64
	NumNodes                int
	NumEdges                int
}

type RouteQuery struct {
	OriginLat      float64
	OriginLon      float64
	DestinationLat float64
	DestinationLon float64
}

type BatchRouteResult struct {
	Result RouteResult
	Err    error
}

type RoutingService struct {
	log          *zap.Logger
	engine       RouteEngine
	source       RecordSource
	geocoder     ReverseGeocoder
	metrics      QueryMetrics
	batchWorkers int
}

// NewRoutingService: source may be nil when engine has a prebuilt network, metrics may be nil.
func NewRoutingService(log *zap.Logger, engine RouteEngine, source RecordSource, geocoder ReverseGeocoder,
	metrics QueryMetrics, batchWorkers int) *RoutingService {
	return &RoutingService{
		log:          log,
		engine:       engine,
		source:       source,
		geocoder:     geocoder,
		metrics:      metrics,
		batchWorkers: batchWorkers,
	}
}

// ShortestPath computes the shortest road route between the nodes nearest to the origin and the destination.
// An unreachable destination is reported with Found == false, not with an error.
func (rs *RoutingService) ShortestPath(ctx context.Context, origLat, origLon, dstLat, dstLon float64) (RouteResult,
	error) {
	start := time.Now()
	result, settled, err := rs.shortestPath(ctx, origLat, origLon, dstLat, dstLon)

	if rs.metrics != nil {
		outcome := "found"
		switch {
		case err != nil:
			outcome = "error"
		case !result.Found:
			outcome = "no_path"
		}
		rs.metrics.ObserveRoute(outcome, time.Since(start), settled, result.NumNodes)
	}
	return result, err
}

func (rs *RoutingService) shortestPath(ctx context.Context, origLat, origLon, dstLat, dstLon float64) (RouteResult,
	int, error) {
	if err := validateCoordinate(origLat, origLon); err != nil {
		return RouteResult{}, 0, err
	}
	if err := validateCoordinate(dstLat, dstLon); err != nil {
		return RouteResult{}, 0, err
	}

	network, err := rs.network(ctx, geo.NewCoordinate(origLat, origLon), geo.NewCoordinate(dstLat, dstLon))
	if err != nil {
		return RouteResult{}, 0, err
	}

	route, err := network.Route(origLat, origLon, dstLat, dstLon)
	if err != nil {
		return RouteResult{}, 0, err
	}

	result := RouteResult{
		Found:                   route.Found,
		Distance:                route.Distance,
		Path:                    route.Path,
		Start:                   Location{Point: route.Start},
		End:                     Location{Point: route.End},
		SnapDistanceOrigin:      route.SnapDistanceOrigin,
		SnapDistanceDestination: route.SnapDistanceDestination,
		NumNodes:                network.Graph().NumberOfVertices(),
		NumEdges:                network.Graph().NumberOfEdges(),
	}

	if !route.Found {
		rs.log.Info("no route found",
			zap.Int64("start", route.Start.ID), zap.Int64("end", route.End.ID))
		return result, route.SettledNodes, nil
	}

	coords := make([]geo.Coordinate, 0, len(route.Path))
	for _, p := range route.Path {
		coords = append(coords, geo.NewCoordinate(p.Lat, p.Lon))
	}
	result.Polyline = geo.PolylineFromCoords(coords)

	result.Start.Address, result.End.Address = rs.addresses(ctx, route.Start, route.End)
	return result, route.SettledNodes, nil
}

func (rs *RoutingService) network(ctx context.Context, origin, destination geo.Coordinate) (*engine.RoadNetwork,
	error) {
	if rs.engine.HasPrebuiltNetwork() {
		return rs.engine.PrebuiltNetwork()
	}
	if rs.source == nil {
		return nil, util.WrapErrorf(errors.New("no map data source"), util.ErrInternalServerError,
			"routing service has neither a prebuilt network nor a map data source")
	}

	records, err := rs.source.FetchRecords(ctx, origin, destination)
	if err != nil {
		return nil, err
	}
	return rs.engine.BuildNetwork(records)
}

// addresses reverse geocodes both endpoints concurrently. A failed lookup degrades to a placeholder.
func (rs *RoutingService) addresses(ctx context.Context, start, end da.GeoPoint) (string, string) {
	var startAddress, endAddress string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		startAddress = rs.reverseGeocode(gctx, start)
		return nil
	})
	g.Go(func() error {
		endAddress = rs.reverseGeocode(gctx, end)
		return nil
	})
	_ = g.Wait()
	return startAddress, endAddress
}

func (rs *RoutingService) reverseGeocode(ctx context.Context, p da.GeoPoint) string {
	if rs.geocoder == nil {
		return mapdata.AddressNotFound(p.Lat, p.Lon)
	}
	address, err := rs.geocoder.ReverseGeocode(ctx, p.Lat, p.Lon)
	if err != nil {
		rs.log.Warn("reverse geocoding failed", zap.Int64("node", p.ID), zap.Error(err))
		return mapdata.AddressNotFound(p.Lat, p.Lon)
	}
	return address
}

// BatchShortestPath answers several route queries concurrently; results keep the order of queries.
func (rs *RoutingService) BatchShortestPath(ctx context.Context, queries []RouteQuery) []BatchRouteResult {
	return concurrent.MapOrdered(ctx, rs.batchWorkers, queries,
		func(ctx context.Context, q RouteQuery) BatchRouteResult {
			res, err := rs.ShortestPath(ctx, q.OriginLat, q.OriginLon, q.DestinationLat, q.DestinationLon)
			return BatchRouteResult{Result: res, Err: err}
		},
		func(q RouteQuery, err error) BatchRouteResult {
			return BatchRouteResult{Err: util.WrapErrorf(err, util.ErrInternalServerError, "batch cancelled")}
		})
}

func validateCoordinate(lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 || math.IsNaN(lat) || math.IsNaN(lon) {
		return util.WrapErrorf(ErrInvalidCoordinate, util.ErrBadParamInput, "invalid coordinate (%v, %v)", lat, lon)
	}
	return nil
}
