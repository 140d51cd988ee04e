package controllers

import (
	"context"

	"github.com/lintang-b-s/routeopt/pkg/http/usecases"
)

type RoutingService interface {
	ShortestPath(ctx context.Context, origLat, origLon, dstLat, dstLon float64) (usecases.RouteResult, error)
	BatchShortestPath(ctx context.Context, queries []usecases.RouteQuery) []usecases.BatchRouteResult
}
