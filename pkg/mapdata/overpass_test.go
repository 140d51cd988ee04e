package mapdata

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lintang-b-s/routeopt/pkg/geo"
	"github.com/lintang-b-s/routeopt/pkg/osmparser"
	"github.com/lintang-b-s/routeopt/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const overpassPayload = `{
  "version": 0.6,
  "elements": [
    {"type": "way", "id": 100, "nodes": [1, 2, 3], "tags": {"highway": "residential"}},
    {"type": "node", "id": 1, "lat": -12.05, "lon": -77.04},
    {"type": "node", "id": 2, "lat": -12.06, "lon": -77.03},
    {"type": "node", "id": 3, "lat": -12.07, "lon": -77.02},
    {"type": "relation", "id": 9}
  ]
}`

type memCache struct {
	entries map[string][]byte
}

func (m *memCache) Get(key string) ([]byte, bool, error) {
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *memCache) Set(key string, payload []byte) error {
	m.entries[key] = payload
	return nil
}

type closeTrackingBody struct {
	io.Reader
	closed bool
}

func (b *closeTrackingBody) Close() error {
	b.closed = true
	return nil
}

// retriesExhaustedDoer answers like heimdall after its last retry got a 5xx: a response and an error.
type retriesExhaustedDoer struct {
	body *closeTrackingBody
}

func (d *retriesExhaustedDoer) Do(req *http.Request) (*http.Response, error) {
	return &http.Response{StatusCode: http.StatusServiceUnavailable, Body: d.body}, errors.New("connection reset")
}

func TestBuildOverpassQuery(t *testing.T) {
	bbox := geo.NewPaddedBoundingBox(geo.NewCoordinate(-12.05, -77.04), geo.NewCoordinate(-12.10, -77.00), 0.05)
	assert.Equal(t,
		"[out:json];(way[highway](-12.150000,-77.090000,-12.000000,-76.950000);node(w););out body;>;out skel qt;",
		BuildOverpassQuery(bbox))
}

func TestFetchRecords(t *testing.T) {
	var calls int32
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		body, _ := io.ReadAll(r.Body)
		gotQuery = string(body)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, overpassPayload)
	}))
	defer srv.Close()

	cache := &memCache{entries: map[string][]byte{}}
	oc := NewOverpassClient(NewHTTPClient(2*time.Second, 0), srv.URL, 0.05, cache, zap.NewNop())

	origin, destination := geo.NewCoordinate(-12.05, -77.04), geo.NewCoordinate(-12.07, -77.02)
	records, err := oc.FetchRecords(context.Background(), origin, destination)
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Contains(t, gotQuery, "way[highway]")

	assert.Equal(t, osmparser.SEGMENT_RECORD, records[0].Type)
	assert.Equal(t, []int64{1, 2, 3}, records[0].Points)
	assert.Equal(t, osmparser.POINT_RECORD, records[1].Type)
	assert.Equal(t, -12.05, *records[1].Lat)

	_, graph, _, err := osmparser.NewGraphBuilder(nil).BuildGraph(records)
	require.NoError(t, err)
	assert.Equal(t, 2, graph.NumberOfEdges())

	// second call served from the cache
	_, err = oc.FetchRecords(context.Background(), origin, destination)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchRecordsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	oc := NewOverpassClient(NewHTTPClient(2*time.Second, 0), srv.URL, 0.05, nil, zap.NewNop())
	_, err := oc.FetchRecords(context.Background(), geo.NewCoordinate(0, 0), geo.NewCoordinate(0, 1))
	require.Error(t, err)

	var uerr *util.Error
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, util.ErrBadGateway, uerr.Code())
}

func TestFetchRecordsClosesBodyOnRetryError(t *testing.T) {
	doer := &retriesExhaustedDoer{body: &closeTrackingBody{Reader: strings.NewReader("busy")}}

	oc := NewOverpassClient(doer, "http://overpass.invalid", 0.05, nil, zap.NewNop())
	_, err := oc.FetchRecords(context.Background(), geo.NewCoordinate(0, 0), geo.NewCoordinate(0, 1))

	var uerr *util.Error
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, util.ErrBadGateway, uerr.Code())
	assert.True(t, doer.body.closed)
}

func TestDecodeOverpassRecordsMalformed(t *testing.T) {
	_, err := DecodeOverpassRecords([]byte(`{"elements": [`))
	assert.ErrorIs(t, err, osmparser.ErrParse)

	// a node without coordinates decodes, the graph builder rejects it
	records, err := DecodeOverpassRecords([]byte(`{"elements": [{"type": "node", "id": 1}]}`))
	require.NoError(t, err)
	_, _, _, err = osmparser.NewGraphBuilder(nil).BuildGraph(records)
	assert.ErrorIs(t, err, osmparser.ErrParse)
}
