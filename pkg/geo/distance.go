package geo

import (
	"math"

	"github.com/lintang-b-s/routeopt/pkg/util"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinate) GetLat() float64 {
	return c.Lat
}

func (c Coordinate) GetLon() float64 {
	return c.Lon
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

const (
	earthRadiusKM = 6371.0
)

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

// CalculateHaversineDistance. calculate haversine distance in km.
// Edge weights and nearest node search both go through this function, keep it that way.
func CalculateHaversineDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	latOne = util.DegreeToRadians(latOne)
	longOne = util.DegreeToRadians(longOne)
	latTwo = util.DegreeToRadians(latTwo)
	longTwo = util.DegreeToRadians(longTwo)

	a := havFunction(latOne-latTwo) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(longOne-longTwo)
	if a > 1 {
		a = 1
	} else if a < 0 {
		a = 0
	}
	c := 2.0 * math.Asin(math.Sqrt(a))
	return earthRadiusKM * c
}

// PathLength sums the haversine distance of consecutive coordinates.
func PathLength(coords []Coordinate) float64 {
	total := 0.0
	for i := 0; i+1 < len(coords); i++ {
		total += CalculateHaversineDistance(coords[i].Lat, coords[i].Lon, coords[i+1].Lat, coords[i+1].Lon)
	}
	return total
}

// GetDestinationPoint returns the destination point given the starting point, bearing and distance
// dist in km
func GetDestinationPoint(lat1, lon1 float64, bearing float64, dist float64) (float64, float64) {

	dr := dist / earthRadiusKM

	bearing = util.DegreeToRadians(bearing)

	lat1 = util.DegreeToRadians(lat1)
	lon1 = util.DegreeToRadians(lon1)

	lat2Part1 := math.Sin(lat1) * math.Cos(dr)
	lat2Part2 := math.Cos(lat1) * math.Sin(dr) * math.Cos(bearing)

	lat2 := math.Asin(lat2Part1 + lat2Part2)

	lon2Part1 := math.Sin(bearing) * math.Sin(dr) * math.Cos(lat1)
	lon2Part2 := math.Cos(dr) - (math.Sin(lat1) * math.Sin(lat2))

	lon2 := lon1 + math.Atan2(lon2Part1, lon2Part2)

	return util.RadiansToDegree(lat2), normalizeLongitude(util.RadiansToDegree(lon2))
}

// normalizeLongitude. long in degree
func normalizeLongitude(long float64) float64 {
	return math.Mod((long+540), 360) - 180.0
}

// CircleBounds returns the smallest lat/lon box holding every point within radius km of (lat, lon).
// ok is false when the circle reaches a pole or crosses the antimeridian.
func CircleBounds(lat, lon, radius float64) (minLat, minLon, maxLat, maxLon float64, ok bool) {
	dr := radius / earthRadiusKM
	latRad := util.DegreeToRadians(lat)
	if latRad+dr >= math.Pi/2 || latRad-dr <= -math.Pi/2 {
		return 0, 0, 0, 0, false
	}

	maxLat, _ = GetDestinationPoint(lat, lon, 0, radius)
	minLat, _ = GetDestinationPoint(lat, lon, 180, radius)

	// widest longitude offset of the circle, at its tangent meridians
	dLon := util.RadiansToDegree(math.Asin(math.Sin(dr) / math.Cos(latRad)))
	minLon, maxLon = lon-dLon, lon+dLon
	if minLon < -180 || maxLon > 180 {
		return 0, 0, 0, 0, false
	}
	return minLat, minLon, maxLat, maxLon, true
}
