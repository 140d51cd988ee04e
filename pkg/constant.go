package pkg

import "math"

const (
	// INF_WEIGHT is the tentative distance of a vertex the search has not reached yet.
	INF_WEIGHT = math.MaxFloat64

	// degrees added on every side of the origin/destination box before querying map data
	DEFAULT_BBOX_PADDING_DEGREE = 0.05

	OVERPASS_INTERPRETER_URL = "https://overpass-api.de/api/interpreter"
	NOMINATIM_URL            = "https://nominatim.openstreetmap.org"
	NOMINATIM_USER_AGENT     = "routeopt/1.0"
	NOMINATIM_COUNTRY_CODES  = "pe"
)

const (
	ADDRESS_NOT_FOUND = "address not found"
)
