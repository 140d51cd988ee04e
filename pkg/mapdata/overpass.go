package mapdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gojek/heimdall/v7"
	"github.com/lintang-b-s/routeopt/pkg/geo"
	"github.com/lintang-b-s/routeopt/pkg/osmparser"
	"github.com/lintang-b-s/routeopt/pkg/util"
	"go.uber.org/zap"
)

type MapCache interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, payload []byte) error
}

type overpassElement struct {
	Type  string   `json:"type"`
	ID    *int64   `json:"id"`
	Lat   *float64 `json:"lat"`
	Lon   *float64 `json:"lon"`
	Nodes []int64  `json:"nodes"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

// OverpassClient downloads the road network around an origin/destination pair from an overpass interpreter.
type OverpassClient struct {
	client  heimdall.Doer
	url     string
	padding float64 // degrees
	cache   MapCache
	logger  *zap.Logger
}

// NewOverpassClient: cache may be nil.
func NewOverpassClient(client heimdall.Doer, url string, padding float64, cache MapCache,
	logger *zap.Logger) *OverpassClient {
	return &OverpassClient{
		client:  client,
		url:     url,
		padding: padding,
		cache:   cache,
		logger:  logger,
	}
}

func BuildOverpassQuery(bbox geo.BoundingBox) string {
	b := bbox.OverpassString()
	return fmt.Sprintf("[out:json];(way[highway](%s);node(w););out body;>;out skel qt;", b)
}

// FetchRecords returns every highway way inside the padded bounding box of origin and destination as
// segment records, together with their nodes as point records.
func (oc *OverpassClient) FetchRecords(ctx context.Context, origin, destination geo.Coordinate) ([]osmparser.Record,
	error) {
	bbox := geo.NewPaddedBoundingBox(origin, destination, oc.padding)
	payload, err := oc.fetch(ctx, bbox)
	if err != nil {
		return nil, err
	}

	records, err := DecodeOverpassRecords(payload)
	if err != nil {
		return nil, err
	}

	oc.logger.Debug("overpass data fetched",
		zap.String("bbox", bbox.OverpassString()), zap.Int("records", len(records)))
	return records, nil
}

func (oc *OverpassClient) fetch(ctx context.Context, bbox geo.BoundingBox) ([]byte, error) {
	cacheKey := "overpass:" + bbox.OverpassString()
	if oc.cache != nil {
		payload, ok, err := oc.cache.Get(cacheKey)
		if err != nil {
			oc.logger.Warn("map cache read failed", zap.String("key", cacheKey), zap.Error(err))
		} else if ok {
			return payload, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, oc.url,
		bytes.NewBufferString(BuildOverpassQuery(bbox)))
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "build overpass request")
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := oc.client.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, util.WrapErrorf(err, util.ErrBadGateway, "overpass request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, util.WrapErrorf(fmt.Errorf("status %d", resp.StatusCode), util.ErrBadGateway,
			"overpass request failed")
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadGateway, "read overpass response")
	}

	if oc.cache != nil {
		if err := oc.cache.Set(cacheKey, payload); err != nil {
			oc.logger.Warn("map cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return payload, nil
}

// DecodeOverpassRecords maps overpass json elements onto records: node -> point, way -> segment.
// Other element types are dropped. Missing fields are kept missing so the graph builder rejects them.
func DecodeOverpassRecords(payload []byte) ([]osmparser.Record, error) {
	var res overpassResponse
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, util.WrapErrorf(fmt.Errorf("%w: %v", osmparser.ErrParse, err), util.ErrBadGateway,
			"decode overpass response")
	}

	records := make([]osmparser.Record, 0, len(res.Elements))
	for _, el := range res.Elements {
		switch el.Type {
		case "node":
			records = append(records, osmparser.Record{
				Type: osmparser.POINT_RECORD,
				ID:   el.ID,
				Lat:  el.Lat,
				Lon:  el.Lon,
			})
		case "way":
			records = append(records, osmparser.Record{
				Type:   osmparser.SEGMENT_RECORD,
				ID:     el.ID,
				Points: el.Nodes,
			})
		}
	}
	return records, nil
}
