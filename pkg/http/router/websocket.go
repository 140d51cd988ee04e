package router

import (
	"context"

	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/routeopt/pkg/http/router/controllers"
	"go.uber.org/zap"
)

// websocketRoutes serves streamed route queries on the api port. Connections are closed when ctx is done.
func (api *API) websocketRoutes(ctx context.Context, router *httprouter.Router,
	routingService controllers.RoutingService) {
	api.hub = controllers.NewHub(routingService, api.log)
	router.GET("/ws/routes", api.hub.HandleWebsocket)

	go func() {
		<-ctx.Done()
		api.log.Info("closing websocket connections", zap.Int("connections", api.hub.Len()))
		api.hub.RemoveAllUser()
	}()
}
