package mapdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gojek/heimdall/v7"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/routeopt/pkg"
	"github.com/lintang-b-s/routeopt/pkg/util"
	"go.uber.org/zap"
)

type nominatimReverseResponse struct {
	DisplayName *string `json:"display_name"`
}

// Geocoder resolves coordinates to street addresses with the nominatim reverse endpoint.
type Geocoder struct {
	client       heimdall.Doer
	baseURL      string
	userAgent    string
	countryCodes string
	cache        *lru.Cache[string, string]
	logger       *zap.Logger
}

func NewGeocoder(client heimdall.Doer, baseURL, userAgent, countryCodes string, cacheSize int,
	logger *zap.Logger) (*Geocoder, error) {
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Geocoder{
		client:       client,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		userAgent:    userAgent,
		countryCodes: countryCodes,
		cache:        cache,
		logger:       logger,
	}, nil
}

func AddressNotFound(lat, lon float64) string {
	return fmt.Sprintf("%s for %v, %v", pkg.ADDRESS_NOT_FOUND, lat, lon)
}

// ReverseGeocode returns the display name of the place at (lat, lon). A response without a display name
// yields the AddressNotFound placeholder and no error; transport and decode failures are returned.
func (g *Geocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	key := strconv.FormatFloat(lat, 'f', 6, 64) + "," + strconv.FormatFloat(lon, 'f', 6, 64)
	if address, ok := g.cache.Get(key); ok {
		return address, nil
	}

	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	if g.countryCodes != "" {
		params.Set("countrycodes", g.countryCodes)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		return "", util.WrapErrorf(err, util.ErrInternalServerError, "build nominatim request")
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return "", util.WrapErrorf(err, util.ErrBadGateway, "nominatim request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", util.WrapErrorf(fmt.Errorf("status %d", resp.StatusCode), util.ErrBadGateway,
			"nominatim request failed")
	}

	var res nominatimReverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", util.WrapErrorf(err, util.ErrBadGateway, "decode nominatim response")
	}

	if res.DisplayName == nil || *res.DisplayName == "" {
		g.logger.Debug("nominatim returned no display name", zap.Float64("lat", lat), zap.Float64("lon", lon))
		return AddressNotFound(lat, lon), nil
	}

	g.cache.Add(key, *res.DisplayName)
	return *res.DisplayName, nil
}
