package geo

import (
	"fmt"
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s2"
)

var validLatRange = r1.Interval{Lo: -math.Pi / 2, Hi: math.Pi / 2}

// BoundingBox is the map window requested from the map data provider.
type BoundingBox struct {
	rect s2.Rect
}

// NewPaddedBoundingBox returns the smallest box containing both points, grown by padding degrees on every side.
func NewPaddedBoundingBox(a, b Coordinate, padding float64) BoundingBox {
	rect := s2.RectFromLatLng(s2.LatLngFromDegrees(a.Lat, a.Lon))
	rect = rect.AddPoint(s2.LatLngFromDegrees(b.Lat, b.Lon))
	if padding > 0 {
		margin := s2.LatLngFromDegrees(padding, padding)
		rect = s2.Rect{
			Lat: rect.Lat.Expanded(margin.Lat.Radians()).Intersection(validLatRange),
			Lng: rect.Lng.Expanded(margin.Lng.Radians()),
		}
	}
	return BoundingBox{rect: rect.PolarClosure()}
}

func (bb BoundingBox) MinLat() float64 {
	return bb.rect.Lo().Lat.Degrees()
}

func (bb BoundingBox) MinLon() float64 {
	return bb.rect.Lo().Lng.Degrees()
}

func (bb BoundingBox) MaxLat() float64 {
	return bb.rect.Hi().Lat.Degrees()
}

func (bb BoundingBox) MaxLon() float64 {
	return bb.rect.Hi().Lng.Degrees()
}

func (bb BoundingBox) Contains(c Coordinate) bool {
	return bb.rect.ContainsLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon))
}

// OverpassString formats the box as south,west,north,east.
func (bb BoundingBox) OverpassString() string {
	return fmt.Sprintf("%.6f,%.6f,%.6f,%.6f", bb.MinLat(), bb.MinLon(), bb.MaxLat(), bb.MaxLon())
}
