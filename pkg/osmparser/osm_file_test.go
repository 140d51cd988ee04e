package osmparser

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallExtract = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
 <node id="1" lat="0.0" lon="0.0"/>
 <node id="2" lat="0.0" lon="1.0"/>
 <node id="3" lat="0.0" lon="2.0"/>
 <node id="4" lat="5.0" lon="5.0"/>
 <node id="5" lat="6.0" lon="6.0"/>
 <way id="10">
  <nd ref="1"/>
  <nd ref="2"/>
  <nd ref="3"/>
  <tag k="highway" v="residential"/>
 </way>
 <way id="11">
  <nd ref="3"/>
  <nd ref="4"/>
  <tag k="building" v="yes"/>
 </way>
</osm>`

func TestLoadRecordsFromXML(t *testing.T) {
	records, err := LoadRecords(context.Background(), strings.NewReader(smallExtract), false, nil)
	require.NoError(t, err)

	var points, segments []Record
	for _, r := range records {
		switch r.Type {
		case POINT_RECORD:
			points = append(points, r)
		case SEGMENT_RECORD:
			segments = append(segments, r)
		}
	}

	require.Len(t, segments, 1)
	assert.Equal(t, int64(10), *segments[0].ID)
	assert.Equal(t, []int64{1, 2, 3}, segments[0].Points)

	require.Len(t, points, 3, "only nodes of highway ways are kept")
	assert.Equal(t, int64(1), *points[0].ID)
	assert.Equal(t, 1.0, *points[1].Lon)

	_, graph, _, err := NewGraphBuilder(nil).BuildGraph(records)
	require.NoError(t, err)
	assert.Equal(t, 2, graph.NumberOfEdges())
}

func TestIsPBF(t *testing.T) {
	assert.True(t, isPBF("./data/lima.osm.pbf"))
	assert.True(t, isPBF("LIMA.OSM.PBF"))
	assert.False(t, isPBF("./data/lima.osm"))
}
