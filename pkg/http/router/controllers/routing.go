package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/routeopt/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/routeopt/pkg/http/usecases"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type routingAPI struct {
	routingService RoutingService
	log            *zap.Logger
}

func New(routingService RoutingService, log *zap.Logger) *routingAPI {
	return &routingAPI{
		routingService: routingService,
		log:            log,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.GET("/computeRoutes", api.shortestPath)
	group.POST("/computeRoutesBatch", api.batchShortestPath)
}

// shortestPath
//
//	@Summary		shortest road route between two coordinates.
//	@Description	snaps origin and destination to the nearest road nodes and returns the shortest route between them in km.
//	@Tags			routing
//	@Param			origin_lat		query	number	true	"origin latitude"
//	@Param			origin_lon		query	number	true	"origin longitude"
//	@Param			destination_lat	query	number	true	"destination latitude"
//	@Param			destination_lon	query	number	true	"destination longitude"
//	@Produce		application/json
//	@Router			/computeRoutes [get]
//	@Success		200	{object}	shortestPathResponse
//	@Failure		400	{object}	errorResponse
//	@Failure		404	{object}	errorResponse
//	@Failure		502	{object}	errorResponse
//	@Failure		500	{object}	errorResponse
func (api *routingAPI) shortestPath(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request shortestPathRequest
		err     error
	)

	if request.OriginLat, err = parseFloatParam(r, "origin_lat"); err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if request.OriginLon, err = parseFloatParam(r, "origin_lon"); err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if request.DestinationLat, err = parseFloatParam(r, "destination_lat"); err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if request.DestinationLon, err = parseFloatParam(r, "destination_lon"); err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := validateStruct(request); err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	res, err := api.routingService.ShortestPath(r.Context(), request.OriginLat, request.OriginLon,
		request.DestinationLat, request.DestinationLon)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"data": NewShortestPathResponse(res)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

// batchShortestPath
//
//	@Summary		several shortest route queries in one request.
//	@Description	every query is answered independently; a failed query carries its own error.
//	@Tags			routing
//	@Param			body	body	batchRouteRequest	true	"route queries"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/computeRoutesBatch [post]
//	@Success		200	{object}	batchRouteResponse
//	@Failure		400	{object}	errorResponse
//	@Failure		500	{object}	errorResponse
func (api *routingAPI) batchShortestPath(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request batchRouteRequest

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	if err := validateStruct(request); err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if maxQueries := viper.GetInt("BATCH_MAX_QUERIES"); maxQueries > 0 && len(request.Queries) > maxQueries {
		api.getStatusCode(w, r, badParam("at most %d queries per batch, got %d", maxQueries, len(request.Queries)))
		return
	}

	queries := make([]usecases.RouteQuery, 0, len(request.Queries))
	for _, q := range request.Queries {
		queries = append(queries, q.toQuery())
	}

	results := api.routingService.BatchShortestPath(r.Context(), queries)

	if err := writeJSON(w, http.StatusOK, envelope{"data": NewBatchRouteResponse(results)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}
