package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lintang-b-s/routeopt/pkg/engine"
	"github.com/lintang-b-s/routeopt/pkg/http/usecases"
	"github.com/lintang-b-s/routeopt/pkg/logger"
	"github.com/lintang-b-s/routeopt/pkg/mapdata"
	"github.com/lintang-b-s/routeopt/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	osmFile = flag.String("osm_file", "", "route over this .osm/.osm.pbf file instead of querying overpass")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <lat,lon> <lat,lon>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	origLat, origLon, err := util.ParseLatLon(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	dstLat, dstLon, err := util.ParseLatLon(flag.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := util.ReadConfig(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	viper.Set("LOG_LEVEL", "warn")
	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := run(ctx, log, origLat, origLon, dstLat, dstLon)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if !res.Found {
		fmt.Println("no route found")
		return
	}
	fmt.Printf("distance: %.2f km\n", res.Distance)
	fmt.Printf("start: %v, %v (%s)\n", res.Start.Point.Lat, res.Start.Point.Lon, res.Start.Address)
	fmt.Printf("end: %v, %v (%s)\n", res.End.Point.Lat, res.End.Point.Lon, res.End.Address)
}

func run(ctx context.Context, log *zap.Logger, origLat, origLon, dstLat, dstLon float64) (usecases.RouteResult, error) {
	var (
		routingEngine *engine.Engine
		source        usecases.RecordSource
		err           error
	)
	retryCount := viper.GetInt("HTTP_CLIENT_RETRY_COUNT")

	if *osmFile != "" {
		routingEngine, err = engine.NewEngineFromFile(ctx, *osmFile, log)
		if err != nil {
			return usecases.RouteResult{}, err
		}
	} else {
		routingEngine = engine.NewEngine(log)
		source = mapdata.NewOverpassClient(
			mapdata.NewHTTPClient(viper.GetDuration("OVERPASS_TIMEOUT"), retryCount),
			viper.GetString("OVERPASS_URL"), viper.GetFloat64("OVERPASS_BBOX_PADDING"), nil, log)
	}

	geocoder, err := mapdata.NewGeocoder(
		mapdata.NewHTTPClient(viper.GetDuration("NOMINATIM_TIMEOUT"), retryCount),
		viper.GetString("NOMINATIM_URL"), viper.GetString("NOMINATIM_USER_AGENT"),
		viper.GetString("NOMINATIM_COUNTRY_CODES"), viper.GetInt("GEOCODE_CACHE_SIZE"), log)
	if err != nil {
		return usecases.RouteResult{}, err
	}

	routingService := usecases.NewRoutingService(log, routingEngine, source, geocoder, nil, 1)
	return routingService.ShortestPath(ctx, origLat, origLon, dstLat, dstLon)
}
