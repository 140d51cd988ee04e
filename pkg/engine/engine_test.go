package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lintang-b-s/routeopt/pkg/engine/routing"
	"github.com/lintang-b-s/routeopt/pkg/osmparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func abcRecords() []osmparser.Record {
	return []osmparser.Record{
		osmparser.NewPointRecord(1, 0, 0),
		osmparser.NewPointRecord(2, 0, 1),
		osmparser.NewPointRecord(3, 0, 2),
		osmparser.NewPointRecord(4, 5, 5),
		osmparser.NewSegmentRecord(10, []int64{1, 2}),
		osmparser.NewSegmentRecord(11, []int64{2, 3}),
	}
}

func TestRoadNetworkRoute(t *testing.T) {
	e := NewEngine(zap.NewNop())
	network, err := e.BuildNetwork(abcRecords())
	require.NoError(t, err)

	route, err := network.Route(0.01, 0.01, 0.01, 1.99)
	require.NoError(t, err)
	require.True(t, route.Found)

	assert.InDelta(t, 222.39, route.Distance, 0.01)
	require.Len(t, route.Path, 3)
	assert.Equal(t, int64(1), route.Path[0].ID)
	assert.Equal(t, int64(3), route.Path[2].ID)
	assert.Equal(t, int64(1), route.Start.ID)
	assert.Equal(t, int64(3), route.End.ID)
	assert.Greater(t, route.SnapDistanceOrigin, 0.0)
}

func TestRoadNetworkRouteUnreachable(t *testing.T) {
	network, err := NewEngine(zap.NewNop()).BuildNetwork(abcRecords())
	require.NoError(t, err)

	route, err := network.Route(0, 0, 5, 5)
	require.NoError(t, err)
	assert.False(t, route.Found)
	assert.Equal(t, int64(4), route.End.ID)
	assert.Empty(t, route.Path)
}

func TestRoadNetworkRouteEmpty(t *testing.T) {
	network, err := NewEngine(zap.NewNop()).BuildNetwork(nil)
	require.NoError(t, err)

	_, err = network.Route(0, 0, 1, 1)
	assert.ErrorIs(t, err, routing.ErrNoNodes)
}

func TestBuildNetworkParseError(t *testing.T) {
	_, err := NewEngine(zap.NewNop()).BuildNetwork([]osmparser.Record{osmparser.NewSegmentRecord(1, []int64{1})})
	assert.ErrorIs(t, err, osmparser.ErrParse)
}

const extract = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6">
 <node id="1" lat="0.0" lon="0.0"/>
 <node id="2" lat="0.0" lon="1.0"/>
 <node id="3" lat="0.0" lon="2.0"/>
 <way id="10">
  <nd ref="1"/>
  <nd ref="2"/>
  <nd ref="3"/>
  <tag k="highway" v="primary"/>
 </way>
</osm>`

func TestNewEngineFromFile(t *testing.T) {
	mapFile := filepath.Join(t.TempDir(), "line.osm")
	require.NoError(t, os.WriteFile(mapFile, []byte(extract), 0o644))

	e, err := NewEngineFromFile(context.Background(), mapFile, zap.NewNop())
	require.NoError(t, err)
	require.True(t, e.HasPrebuiltNetwork())

	network, err := e.PrebuiltNetwork()
	require.NoError(t, err)
	assert.Equal(t, 3, network.Graph().NumberOfVertices())

	p, dist, err := network.Nearest(0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.ID)
	assert.Equal(t, 0.0, dist)

	route, err := network.Route(0, 0, 0, 2)
	require.NoError(t, err)
	assert.True(t, route.Found)
	assert.InDelta(t, 222.39, route.Distance, 0.01)
}

func TestPrebuiltNetworkMissing(t *testing.T) {
	_, err := NewEngine(zap.NewNop()).PrebuiltNetwork()
	assert.ErrorIs(t, err, ErrNoPrebuiltNetwork)
}
