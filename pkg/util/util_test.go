package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLatLon(t *testing.T) {
	testCases := []struct {
		name    string
		in      string
		lat     float64
		lon     float64
		wantErr bool
	}{
		{name: "valid", in: "-12.046,-77.042", lat: -12.046, lon: -77.042},
		{name: "spaces", in: " 1.5 , 2.5 ", lat: 1.5, lon: 2.5},
		{name: "missing lon", in: "1.5", wantErr: true},
		{name: "not a number", in: "a,2", wantErr: true},
		{name: "latitude out of range", in: "91,0", wantErr: true},
		{name: "longitude out of range", in: "0,-181", wantErr: true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon, err := ParseLatLon(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				var uerr *Error
				require.True(t, errors.As(err, &uerr))
				assert.ErrorIs(t, uerr.Code(), ErrBadParamInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.lat, lat)
			assert.Equal(t, tt.lon, lon)
		})
	}
}

func TestWrapErrorf(t *testing.T) {
	orig := errors.New("boom")
	err := WrapErrorf(orig, ErrBadGateway, "fetch %s", "x")
	assert.Equal(t, "fetch x: boom", err.Error())
	assert.ErrorIs(t, err, orig)

	err = WrapErrorf(nil, ErrNotFound, "missing")
	assert.Equal(t, "missing", err.Error())
}

func TestReverseG(t *testing.T) {
	in := []int{1, 2, 3}
	assert.Equal(t, []int{3, 2, 1}, ReverseG(in))
	assert.Equal(t, []int{1, 2, 3}, in)
	assert.Empty(t, ReverseG([]int{}))
}

func TestRoundFloat(t *testing.T) {
	assert.Equal(t, 222.39, RoundFloat(222.38985, 2))
}
