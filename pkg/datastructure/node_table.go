package datastructure

import "sort"

type GeoPoint struct {
	ID  int64   `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewGeoPoint(id int64, lat, lon float64) GeoPoint {
	return GeoPoint{ID: id, Lat: lat, Lon: lon}
}

// NodeTable maps point identifiers to points. It is filled once by the graph builder and read-only afterwards.
type NodeTable struct {
	points map[int64]GeoPoint
	order  []int64 // insertion order
}

func NewNodeTable(capacity int) *NodeTable {
	return &NodeTable{
		points: make(map[int64]GeoPoint, capacity),
		order:  make([]int64, 0, capacity),
	}
}

// Insert returns false when the identifier is already present; the first point wins.
func (nt *NodeTable) Insert(p GeoPoint) bool {
	if _, ok := nt.points[p.ID]; ok {
		return false
	}
	nt.points[p.ID] = p
	nt.order = append(nt.order, p.ID)
	return true
}

func (nt *NodeTable) Get(id int64) (GeoPoint, bool) {
	p, ok := nt.points[id]
	return p, ok
}

func (nt *NodeTable) Len() int {
	return len(nt.order)
}

func (nt *NodeTable) ForEach(handle func(p GeoPoint)) {
	for _, id := range nt.order {
		handle(nt.points[id])
	}
}

// SortedIDs returns a copy of the identifiers in ascending order.
func (nt *NodeTable) SortedIDs() []int64 {
	ids := make([]int64, len(nt.order))
	copy(ids, nt.order)
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})
	return ids
}
