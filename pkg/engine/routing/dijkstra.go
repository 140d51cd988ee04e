package routing

import (
	"github.com/lintang-b-s/routeopt/pkg"
	da "github.com/lintang-b-s/routeopt/pkg/datastructure"
)

// Predecessors holds, for every vertex settled or labelled by a search, the vertex it was reached from.
// Unreached vertices and the source map to da.INVALID_VERTEX_ID.
type Predecessors []da.Index

func (p Predecessors) Get(v da.Index) (da.Index, bool) {
	if int(v) >= len(p) || p[v] == da.INVALID_VERTEX_ID {
		return da.INVALID_VERTEX_ID, false
	}
	return p[v], true
}

// Dijkstra is a point-to-point search over an undirected road graph.
// The graph is only read, so one Dijkstra can serve concurrent queries.
type Dijkstra struct {
	graph *da.Graph
}

func NewDijkstra(graph *da.Graph) *Dijkstra {
	return &Dijkstra{
		graph: graph,
	}
}

// ShortestPath returns the cost of a minimum cost path from s to t in km and the predecessor relation.
// found is false when t is not reachable from s; that is a normal outcome, not an error.
func (us *Dijkstra) ShortestPath(s, t da.Index) (float64, Predecessors, bool) {
	sp, pred, found, _ := us.shortestPath(s, t)
	return sp, pred, found
}

// ShortestPathWithStats is ShortestPath plus the number of vertices settled by the search.
func (us *Dijkstra) ShortestPathWithStats(s, t da.Index) (float64, Predecessors, bool, int) {
	return us.shortestPath(s, t)
}

func (us *Dijkstra) shortestPath(s, t da.Index) (float64, Predecessors, bool, int) {
	if !us.graph.IsValidVertex(s) || !us.graph.IsValidVertex(t) {
		return 0, nil, false, 0
	}

	n := us.graph.NumberOfVertices()
	dist := make([]float64, n)
	pred := make(Predecessors, n)
	for v := 0; v < n; v++ {
		dist[v] = pkg.INF_WEIGHT
		pred[v] = da.INVALID_VERTEX_ID
	}

	pq := da.NewFourAryHeap[da.Index]()
	pq.Preallocate(n)

	dist[s] = 0
	pq.Insert(da.NewPriorityQueueNode(0, s))

	numSettledNodes := 0
	for !pq.IsEmpty() {
		node, _ := pq.ExtractMin()
		u := node.GetItem()
		if u == t {
			return dist[t], pred, true, numSettledNodes + 1
		}

		if node.GetRank() > dist[u] {
			// stale entry, u was settled with a smaller cost
			continue
		}
		numSettledNodes++

		us.graph.ForEdgesOf(u, func(e *da.Edge) {
			v := e.GetHead()
			newDist := dist[u] + e.GetWeight()
			if newDist < dist[v] {
				dist[v] = newDist
				pred[v] = u
				pq.Insert(da.NewPriorityQueueNode(newDist, v))
			}
		})
	}

	return 0, nil, false, numSettledNodes
}
