package routing

import (
	"math/rand"
	"testing"

	da "github.com/lintang-b-s/routeopt/pkg/datastructure"
	"github.com/lintang-b-s/routeopt/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineGraph: A(0,0) - B(0,1) - C(0,2)
func lineGraph(t *testing.T) *da.Graph {
	g := da.NewGraph(3)
	a := g.AddVertex(1, 0, 0)
	b := g.AddVertex(2, 0, 1)
	c := g.AddVertex(3, 0, 2)
	require.NoError(t, g.AddEdge(a, b, geo.CalculateHaversineDistance(0, 0, 0, 1)))
	require.NoError(t, g.AddEdge(b, c, geo.CalculateHaversineDistance(0, 1, 0, 2)))
	return g
}

func TestShortestPathLine(t *testing.T) {
	g := lineGraph(t)

	dist, pred, found := NewDijkstra(g).ShortestPath(0, 2)
	require.True(t, found)

	want := geo.CalculateHaversineDistance(0, 0, 0, 1) + geo.CalculateHaversineDistance(0, 1, 0, 2)
	assert.InDelta(t, want, dist, 1e-9)
	assert.InDelta(t, 222.39, dist, 0.01)

	path, err := ReconstructPath(pred, 0, 2, g.NumberOfVertices())
	require.NoError(t, err)
	assert.Equal(t, []da.Index{0, 1, 2}, path)
}

func TestShortestPathSameSourceAndTarget(t *testing.T) {
	g := lineGraph(t)

	dist, pred, found := NewDijkstra(g).ShortestPath(1, 1)
	require.True(t, found)
	assert.Equal(t, 0.0, dist)

	path, err := ReconstructPath(pred, 1, 1, g.NumberOfVertices())
	require.NoError(t, err)
	assert.Equal(t, []da.Index{1}, path)
}

func TestShortestPathDisconnected(t *testing.T) {
	g := lineGraph(t)
	d := g.AddVertex(4, 10, 10)
	e := g.AddVertex(5, 10, 11)
	require.NoError(t, g.AddEdge(d, e, geo.CalculateHaversineDistance(10, 10, 10, 11)))

	dist, pred, found := NewDijkstra(g).ShortestPath(0, e)
	assert.False(t, found)
	assert.Equal(t, 0.0, dist)
	assert.Nil(t, pred)
}

func TestShortestPathPrefersCheaperDetour(t *testing.T) {
	g := da.NewGraph(4)
	for i := 0; i < 4; i++ {
		g.AddVertex(int64(i), 0, float64(i))
	}
	require.NoError(t, g.AddEdge(0, 3, 10))
	require.NoError(t, g.AddEdge(0, 1, 1))
	require.NoError(t, g.AddEdge(1, 2, 1))
	require.NoError(t, g.AddEdge(2, 3, 1))

	dist, pred, found, settled := NewDijkstra(g).ShortestPathWithStats(0, 3)
	require.True(t, found)
	assert.Equal(t, 3.0, dist)
	assert.Greater(t, settled, 0)

	path, err := ReconstructPath(pred, 0, 3, g.NumberOfVertices())
	require.NoError(t, err)
	assert.Equal(t, []da.Index{0, 1, 2, 3}, path)
}

func TestShortestPathParallelEdges(t *testing.T) {
	g := da.NewGraph(2)
	g.AddVertex(1, 0, 0)
	g.AddVertex(2, 0, 1)
	require.NoError(t, g.AddEdge(0, 1, 5))
	require.NoError(t, g.AddEdge(0, 1, 2))

	dist, _, found := NewDijkstra(g).ShortestPath(1, 0)
	require.True(t, found)
	assert.Equal(t, 2.0, dist)
}

func TestShortestPathInvalidVertex(t *testing.T) {
	g := lineGraph(t)
	_, _, found := NewDijkstra(g).ShortestPath(0, 42)
	assert.False(t, found)
}

// randomGrid builds a rows x cols lattice around (lat0, lon0) with random jitter and random missing edges.
func randomGrid(t *testing.T, rnd *rand.Rand, rows, cols int) *da.Graph {
	g := da.NewGraph(rows * cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			lat := -12.1 + float64(r)*0.001 + rnd.Float64()*0.0004
			lon := -77.0 + float64(c)*0.001 + rnd.Float64()*0.0004
			g.AddVertex(int64(r*cols+c), lat, lon)
		}
	}

	addEdge := func(u, v da.Index) {
		uLat, uLon := g.GetVertexCoordinates(u)
		vLat, vLon := g.GetVertexCoordinates(v)
		require.NoError(t, g.AddEdge(u, v, geo.CalculateHaversineDistance(uLat, uLon, vLat, vLon)))
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			u := da.Index(r*cols + c)
			if c+1 < cols && rnd.Float64() < 0.8 {
				addEdge(u, u+1)
			}
			if r+1 < rows && rnd.Float64() < 0.8 {
				addEdge(u, u+da.Index(cols))
			}
		}
	}
	return g
}

func TestShortestPathCostEqualsPathLength(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	for i := 0; i < 20; i++ {
		g := randomGrid(t, rnd, 8, 8)
		n := g.NumberOfVertices()
		s := da.Index(rnd.Intn(n))
		tt := da.Index(rnd.Intn(n))

		dist, pred, found := NewDijkstra(g).ShortestPath(s, tt)
		if !found {
			continue
		}

		path, err := ReconstructPath(pred, s, tt, n)
		require.NoError(t, err)
		require.Equal(t, s, path[0])
		require.Equal(t, tt, path[len(path)-1])

		coords := make([]geo.Coordinate, 0, len(path))
		for _, v := range path {
			lat, lon := g.GetVertexCoordinates(v)
			coords = append(coords, geo.NewCoordinate(lat, lon))
		}
		assert.InDelta(t, geo.PathLength(coords), dist, 1e-9)

		// reverse direction has the same cost on an undirected graph
		back, _, found := NewDijkstra(g).ShortestPath(tt, s)
		require.True(t, found)
		assert.InDelta(t, dist, back, 1e-9)
	}
}
