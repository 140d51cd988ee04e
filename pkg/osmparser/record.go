package osmparser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	da "github.com/lintang-b-s/routeopt/pkg/datastructure"
	"github.com/lintang-b-s/routeopt/pkg/util"
)

// ErrParse marks a structurally invalid point or segment record.
var ErrParse = errors.New("malformed map record")

type RecordType string

const (
	POINT_RECORD   RecordType = "point"
	SEGMENT_RECORD RecordType = "segment"
)

// Record is one tagged element of raw map data: either a point or a road segment.
// Fields are pointers so that a missing field can be told apart from a zero value.
type Record struct {
	Type   RecordType `json:"type"`
	ID     *int64     `json:"id,omitempty"`
	Lat    *float64   `json:"lat,omitempty"`
	Lon    *float64   `json:"lon,omitempty"`
	Points []int64    `json:"points,omitempty"`
}

func NewPointRecord(id int64, lat, lon float64) Record {
	return Record{Type: POINT_RECORD, ID: &id, Lat: &lat, Lon: &lon}
}

func NewSegmentRecord(id int64, points []int64) Record {
	return Record{Type: SEGMENT_RECORD, ID: &id, Points: points}
}

// RoadSegment is a polyline of point identifiers, consecutive pairs become edges.
type RoadSegment struct {
	ID     int64
	Points []int64
}

func (r Record) toGeoPoint() (da.GeoPoint, error) {
	if r.ID == nil {
		return da.GeoPoint{}, util.WrapErrorf(ErrParse, util.ErrBadGateway, "point record without id")
	}
	if r.Lat == nil || r.Lon == nil {
		return da.GeoPoint{}, util.WrapErrorf(ErrParse, util.ErrBadGateway, "point record %d without coordinates", *r.ID)
	}
	if !isFinite(*r.Lat) || !isFinite(*r.Lon) {
		return da.GeoPoint{}, util.WrapErrorf(ErrParse, util.ErrBadGateway, "point record %d has non finite coordinates", *r.ID)
	}
	return da.NewGeoPoint(*r.ID, *r.Lat, *r.Lon), nil
}

func (r Record) toRoadSegment() (RoadSegment, error) {
	if r.ID == nil {
		return RoadSegment{}, util.WrapErrorf(ErrParse, util.ErrBadGateway, "segment record without id")
	}
	if r.Points == nil {
		return RoadSegment{}, util.WrapErrorf(ErrParse, util.ErrBadGateway, "segment record %d without points", *r.ID)
	}
	if len(r.Points) < 2 {
		return RoadSegment{}, util.WrapErrorf(ErrParse, util.ErrBadGateway, "segment record %d has %d points, need at least 2",
			*r.ID, len(r.Points))
	}
	return RoadSegment{ID: *r.ID, Points: r.Points}, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// DecodeRecords reads either a JSON array of records or an object holding them under "records".
func DecodeRecords(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)

	var records []Record
	if len(data) > 0 && data[0] == '{' {
		var wrapped struct {
			Records []Record `json:"records"`
		}
		err = json.Unmarshal(data, &wrapped)
		records = wrapped.Records
	} else {
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, util.WrapErrorf(fmt.Errorf("%w: %v", ErrParse, err), util.ErrBadGateway, "decode map records")
	}
	return records, nil
}
