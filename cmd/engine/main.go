package main

import (
	"context"
	"flag"

	"github.com/lintang-b-s/routeopt/pkg/engine"
	"github.com/lintang-b-s/routeopt/pkg/http"
	"github.com/lintang-b-s/routeopt/pkg/http/usecases"
	"github.com/lintang-b-s/routeopt/pkg/kv"
	"github.com/lintang-b-s/routeopt/pkg/logger"
	"github.com/lintang-b-s/routeopt/pkg/mapdata"
	"github.com/lintang-b-s/routeopt/pkg/metrics"
	"github.com/lintang-b-s/routeopt/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	useRateLimit = flag.Bool("ratelimit", false, "enable per client ip rate limiting")
	osmFile      = flag.String("osm_file", "", "prebuild the road network from this .osm/.osm.pbf file instead of querying overpass")
)

func main() {
	flag.Parse()
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	if *osmFile != "" {
		viper.Set("OSM_FILE", *osmFile)
	}

	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}

	var routingEngine *engine.Engine
	if path := viper.GetString("OSM_FILE"); path != "" {
		routingEngine, err = engine.NewEngineFromFile(ctx, path, logger)
		if err != nil {
			logger.Fatal("failed to build road network", zap.String("osm_file", path), zap.Error(err))
		}
	} else {
		routingEngine = engine.NewEngine(logger)
	}

	var mapCache mapdata.MapCache
	if dir := viper.GetString("MAP_CACHE_DIR"); dir != "" {
		cache, err := kv.OpenMapCache(dir, viper.GetDuration("MAP_CACHE_TTL"))
		if err != nil {
			logger.Fatal("failed to open map cache", zap.String("dir", dir), zap.Error(err))
		}
		defer cache.Close()
		mapCache = cache
	}

	retryCount := viper.GetInt("HTTP_CLIENT_RETRY_COUNT")
	overpass := mapdata.NewOverpassClient(
		mapdata.NewHTTPClient(viper.GetDuration("OVERPASS_TIMEOUT"), retryCount),
		viper.GetString("OVERPASS_URL"), viper.GetFloat64("OVERPASS_BBOX_PADDING"), mapCache, logger)

	geocoder, err := mapdata.NewGeocoder(
		mapdata.NewHTTPClient(viper.GetDuration("NOMINATIM_TIMEOUT"), retryCount),
		viper.GetString("NOMINATIM_URL"), viper.GetString("NOMINATIM_USER_AGENT"),
		viper.GetString("NOMINATIM_COUNTRY_CODES"), viper.GetInt("GEOCODE_CACHE_SIZE"), logger)
	if err != nil {
		logger.Fatal("failed to create geocoder", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	routingService := usecases.NewRoutingService(logger, routingEngine, overpass, geocoder, m,
		viper.GetInt("BATCH_WORKERS"))

	api := http.NewServer(logger)
	if _, err := api.Use(ctx, logger, *useRateLimit, routingService, reg, m); err != nil {
		logger.Fatal("failed to start api", zap.Error(err))
	}

	signal := http.GracefulShutdown()
	logger.Info("routeopt server stopping", zap.String("signal", signal.String()))
	cleanup()

	if err := api.Wait(); err != nil {
		logger.Error("api stopped with error", zap.Error(err))
	}
	logger.Info("routeopt server stopped")
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
