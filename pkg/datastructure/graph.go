package datastructure

import (
	"fmt"
	"math"
)

type Index uint32

const (
	INVALID_VERTEX_ID Index = math.MaxUint32
)

type Vertex struct {
	lat   float64
	lon   float64
	osmID int64
}

func NewVertex(lat, lon float64, osmID int64) Vertex {
	return Vertex{
		lat:   lat,
		lon:   lon,
		osmID: osmID,
	}
}

// Edge is one direction of an undirected road edge, stored in the adjacency list of its tail.
type Edge struct {
	head   Index
	weight float64 // km
}

func NewEdge(head Index, weight float64) Edge {
	return Edge{head: head, weight: weight}
}

func (e *Edge) GetHead() Index {
	return e.head
}

func (e *Edge) GetWeight() float64 {
	return e.weight
}

// Graph is an undirected weighted graph over a dense vertex index space.
// Vertices live in an arena indexed by Index, adjacency lists are kept per vertex in insertion order.
type Graph struct {
	vertices []Vertex
	adj      [][]Edge
	numEdges int
}

func NewGraph(vertexCapacity int) *Graph {
	return &Graph{
		vertices: make([]Vertex, 0, vertexCapacity),
		adj:      make([][]Edge, 0, vertexCapacity),
	}
}

// AddVertex allocates the next index. Indices are never reused.
func (g *Graph) AddVertex(osmID int64, lat, lon float64) Index {
	id := Index(len(g.vertices))
	g.vertices = append(g.vertices, NewVertex(lat, lon, osmID))
	g.adj = append(g.adj, nil)
	return id
}

// AddEdge adds the undirected edge {u,v}. Parallel edges are allowed.
func (g *Graph) AddEdge(u, v Index, weight float64) error {
	if !g.IsValidVertex(u) || !g.IsValidVertex(v) {
		return fmt.Errorf("edge (%d,%d) references unknown vertex, number of vertices: %d", u, v, len(g.vertices))
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("edge (%d,%d) has invalid weight %v", u, v, weight)
	}

	g.adj[u] = append(g.adj[u], NewEdge(v, weight))
	if u != v {
		g.adj[v] = append(g.adj[v], NewEdge(u, weight))
	}
	g.numEdges++
	return nil
}

func (g *Graph) IsValidVertex(u Index) bool {
	return int(u) < len(g.vertices)
}

func (g *Graph) NumberOfVertices() int {
	return len(g.vertices)
}

// NumberOfEdges counts undirected edges, parallel edges included.
func (g *Graph) NumberOfEdges() int {
	return g.numEdges
}

func (g *Graph) GetVertexCoordinates(u Index) (float64, float64) {
	return g.vertices[u].lat, g.vertices[u].lon
}

func (g *Graph) GetOsmID(u Index) int64 {
	return g.vertices[u].osmID
}

func (g *Graph) GetDegree(u Index) int {
	return len(g.adj[u])
}

func (g *Graph) ForEdgesOf(u Index, handle func(e *Edge)) {
	for i := range g.adj[u] {
		handle(&g.adj[u][i])
	}
}
