package util

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// error

type Error struct {
	orig error
	msg  string
	code error
}

func (e *Error) Error() string {
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}

	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

func WrapErrorf(orig error, code error, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

func (e *Error) Code() error {
	return e.code
}

var (
	ErrInternalServerError = errors.New("internal Server Error")
	ErrNotFound            = errors.New("your requested Item is not found")
	ErrConflict            = errors.New("your Item already exist")
	ErrBadParamInput       = errors.New("given Param is not valid")
	ErrBadGateway          = errors.New("upstream service returned an invalid response")
)

var MessageInternalServerError string = "internal server error"

func DegreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

func RadiansToDegree(rad float64) float64 {
	return 180.0 * rad / math.Pi
}

func StringToFloat64(str string) (float64, error) {
	val, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil {
		return 0, err
	}
	return val, nil
}

// ParseLatLon parses a "lat,lon" pair.
func ParseLatLon(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, WrapErrorf(nil, ErrBadParamInput, "invalid coordinate %q, expected 'lat,lon'", s)
	}
	lat, err := StringToFloat64(parts[0])
	if err != nil {
		return 0, 0, WrapErrorf(err, ErrBadParamInput, "invalid latitude in %q", s)
	}
	lon, err := StringToFloat64(parts[1])
	if err != nil {
		return 0, 0, WrapErrorf(err, ErrBadParamInput, "invalid longitude in %q", s)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, WrapErrorf(nil, ErrBadParamInput, "coordinate %q out of range", s)
	}
	return lat, lon, nil
}

func RoundFloat[T constraints.Float](val T, precision uint) T {
	ratio := math.Pow(10, float64(precision))
	return T(math.Round(float64(val)*ratio) / ratio)
}

func ReverseG[T any](arr []T) []T {
	copyArr := make([]T, len(arr)) // should do on the copy )
	copy(copyArr, arr)
	for i, j := 0, len(copyArr)-1; i < j; i, j = i+1, j-1 {
		copyArr[i], copyArr[j] = copyArr[j], copyArr[i]
	}
	return copyArr
}
