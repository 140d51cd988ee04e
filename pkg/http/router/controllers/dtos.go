package controllers

import (
	"github.com/lintang-b-s/routeopt/pkg/http/usecases"
	"github.com/lintang-b-s/routeopt/pkg/util"
)

type shortestPathRequest struct {
	OriginLat      float64 `json:"origin_lat" validate:"gte=-90,lte=90"`
	OriginLon      float64 `json:"origin_lon" validate:"gte=-180,lte=180"`
	DestinationLat float64 `json:"destination_lat" validate:"gte=-90,lte=90"`
	DestinationLon float64 `json:"destination_lon" validate:"gte=-180,lte=180"`
}

func (r shortestPathRequest) toQuery() usecases.RouteQuery {
	return usecases.RouteQuery{
		OriginLat:      r.OriginLat,
		OriginLon:      r.OriginLon,
		DestinationLat: r.DestinationLat,
		DestinationLon: r.DestinationLon,
	}
}

type batchRouteRequest struct {
	Queries []shortestPathRequest `json:"queries" validate:"required,min=1,dive"`
}

type pointResponse struct {
	ID  int64   `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type locationResponse struct {
	pointResponse
	Address string `json:"address"`
}

type shortestPathResponse struct {
	Found                   bool              `json:"found"`
	Distance                float64           `json:"distance"` // km
	Path                    string            `json:"path,omitempty"`
	Route                   []pointResponse   `json:"route,omitempty"`
	Start                   *locationResponse `json:"start,omitempty"`
	End                     *locationResponse `json:"end,omitempty"`
	SnapDistanceOrigin      float64           `json:"snap_distance_origin"`
	SnapDistanceDestination float64           `json:"snap_distance_destination"`
	NumNodes                int               `json:"num_nodes"`
	NumEdges                int               `json:"num_edges"`
}

func NewShortestPathResponse(res usecases.RouteResult) shortestPathResponse {
	resp := shortestPathResponse{
		Found:                   res.Found,
		Distance:                util.RoundFloat(res.Distance, 3),
		Path:                    res.Polyline,
		SnapDistanceOrigin:      util.RoundFloat(res.SnapDistanceOrigin, 3),
		SnapDistanceDestination: util.RoundFloat(res.SnapDistanceDestination, 3),
		NumNodes:                res.NumNodes,
		NumEdges:                res.NumEdges,
	}
	if !res.Found {
		return resp
	}

	resp.Route = make([]pointResponse, 0, len(res.Path))
	for _, p := range res.Path {
		resp.Route = append(resp.Route, pointResponse{ID: p.ID, Lat: p.Lat, Lon: p.Lon})
	}
	resp.Start = newLocationResponse(res.Start)
	resp.End = newLocationResponse(res.End)
	return resp
}

func newLocationResponse(l usecases.Location) *locationResponse {
	return &locationResponse{
		pointResponse: pointResponse{ID: l.Point.ID, Lat: l.Point.Lat, Lon: l.Point.Lon},
		Address:       l.Address,
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type batchRouteItem struct {
	Route *shortestPathResponse `json:"route,omitempty"`
	Error *errorBody            `json:"error,omitempty"`
}

type batchRouteResponse struct {
	Routes []batchRouteItem `json:"routes"`
}

func NewBatchRouteResponse(results []usecases.BatchRouteResult) batchRouteResponse {
	resp := batchRouteResponse{Routes: make([]batchRouteItem, 0, len(results))}
	for _, r := range results {
		if r.Err != nil {
			status := statusCodeOf(r.Err)
			resp.Routes = append(resp.Routes, batchRouteItem{Error: &errorBody{
				Code:    statusText(status),
				Message: r.Err.Error(),
			}})
			continue
		}
		route := NewShortestPathResponse(r.Result)
		resp.Routes = append(resp.Routes, batchRouteItem{Route: &route})
	}
	return resp
}
