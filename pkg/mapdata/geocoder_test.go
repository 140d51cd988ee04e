package mapdata

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReverseGeocode(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "pe", r.URL.Query().Get("countrycodes"))
		assert.Equal(t, "routeopt-test", r.Header.Get("User-Agent"))
		io.WriteString(w, `{"place_id": 1, "display_name": "Avenida Arequipa, Lima, Peru"}`)
	}))
	defer srv.Close()

	g, err := NewGeocoder(NewHTTPClient(2*time.Second, 0), srv.URL+"/", "routeopt-test", "pe", 16, zap.NewNop())
	require.NoError(t, err)

	address, err := g.ReverseGeocode(context.Background(), -12.0464, -77.0428)
	require.NoError(t, err)
	assert.Equal(t, "Avenida Arequipa, Lima, Peru", address)

	address, err = g.ReverseGeocode(context.Background(), -12.0464, -77.0428)
	require.NoError(t, err)
	assert.Equal(t, "Avenida Arequipa, Lima, Peru", address)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestReverseGeocodeWithoutDisplayName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error": "Unable to geocode"}`)
	}))
	defer srv.Close()

	g, err := NewGeocoder(NewHTTPClient(2*time.Second, 0), srv.URL, "routeopt-test", "", 16, zap.NewNop())
	require.NoError(t, err)

	address, err := g.ReverseGeocode(context.Background(), 1.5, 2.25)
	require.NoError(t, err)
	assert.Equal(t, "address not found for 1.5, 2.25", address)
}

func TestReverseGeocodeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	g, err := NewGeocoder(NewHTTPClient(2*time.Second, 0), srv.URL, "routeopt-test", "pe", 16, zap.NewNop())
	require.NoError(t, err)

	_, err = g.ReverseGeocode(context.Background(), 0, 0)
	assert.Error(t, err)
}

func TestReverseGeocodeClosesBodyOnRetryError(t *testing.T) {
	doer := &retriesExhaustedDoer{body: &closeTrackingBody{Reader: strings.NewReader("busy")}}

	g, err := NewGeocoder(doer, "http://nominatim.invalid", "routeopt-test", "pe", 16, zap.NewNop())
	require.NoError(t, err)

	_, err = g.ReverseGeocode(context.Background(), 0, 0)
	assert.Error(t, err)
	assert.True(t, doer.body.closed)
}
