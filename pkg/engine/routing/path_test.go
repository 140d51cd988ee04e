package routing

import (
	"testing"

	da "github.com/lintang-b-s/routeopt/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstructPath(t *testing.T) {
	inv := da.INVALID_VERTEX_ID

	testCases := []struct {
		name    string
		pred    Predecessors
		s, t    da.Index
		want    []da.Index
		wantErr bool
	}{
		{
			name: "chain",
			pred: Predecessors{inv, 0, 1, 2},
			s:    0,
			t:    3,
			want: []da.Index{0, 1, 2, 3},
		},
		{
			name: "source equals target",
			pred: nil,
			s:    2,
			t:    2,
			want: []da.Index{2},
		},
		{
			name:    "missing predecessor",
			pred:    Predecessors{inv, inv, 1},
			s:       0,
			t:       2,
			wantErr: true,
		},
		{
			name:    "cycle",
			pred:    Predecessors{inv, 2, 1},
			s:       0,
			t:       2,
			wantErr: true,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			path, err := ReconstructPath(tt.pred, tt.s, tt.t, 4)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBrokenPredecessorChain)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, path)
		})
	}
}

func TestPathCoordinates(t *testing.T) {
	g := lineGraph(t)
	points := PathCoordinates(g, []da.Index{0, 1, 2})
	require.Len(t, points, 3)
	assert.Equal(t, da.NewGeoPoint(2, 0, 1), points[1])
}
