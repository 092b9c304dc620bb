package flatzinc_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pbsmol/internal/flatzinc"
)

const sampleFZN = `{
	"variables": {
		"v": {"domain": [[0, 7]]},
		"w": {"domain": [[-4, 3]]}
	},
	"arrays": {
		"coeffs": {"contents": [1, 2, 3]}
	},
	"constraints": [
		{"id": "int_lin_le", "args": [[1, 2], ["v", "w"], 10]}
	]
}`

func TestLoadAndQuery(t *testing.T) {
	fzn, err := flatzinc.Load([]byte(sampleFZN))
	require.NoError(t, err)

	v, ok := fzn.Variable("v")
	require.True(t, ok)
	min, max, ok := v.Domain.MinMax()
	require.True(t, ok)
	assert.Equal(t, int64(0), min)
	assert.Equal(t, int64(7), max)

	w, ok := fzn.Variable("w")
	require.True(t, ok)
	min, max, ok = w.Domain.MinMax()
	require.True(t, ok)
	assert.Equal(t, int64(-4), min)
	assert.Equal(t, int64(3), max)

	arr, ok := fzn.ArrayByName("coeffs")
	require.True(t, ok)
	assert.Len(t, arr.Contents, 3)
	assert.True(t, arr.Contents[0].IsInt)
	assert.Equal(t, int64(1), arr.Contents[0].Int)

	c, ok := fzn.ConstraintByLine(0)
	require.True(t, ok)
	assert.Equal(t, "int_lin_le", c.ID)
	require.Len(t, c.Args, 3)
	assert.True(t, c.Args[0].IsArray)
	assert.True(t, c.Args[1].IsArray)
	assert.False(t, c.Args[1].Array[0].IsInt)
	assert.Equal(t, "v", c.Args[1].Array[0].Ident)
	assert.False(t, c.Args[2].IsArray)
	assert.Equal(t, int64(10), c.Args[2].Lit.Int)

	_, ok = fzn.ConstraintByLine(99)
	assert.False(t, ok)
}

func TestDomainWithHole(t *testing.T) {
	var d flatzinc.Domain
	err := d.UnmarshalJSON([]byte(`[[0, 3], [8, 10]]`))
	require.NoError(t, err)
	min, max, ok := d.MinMax()
	require.True(t, ok)
	assert.Equal(t, int64(0), min)
	assert.Equal(t, int64(10), max)
}

// Domain's interval set is a plain struct slice with no exported identity
// beyond its fields, so a structural diff is clearer than a field-by-field
// assert when the whole set matters, as it does here across a hole.
func TestDomainIntervalsRoundTrip(t *testing.T) {
	var d flatzinc.Domain
	require.NoError(t, d.UnmarshalJSON([]byte(`[[0, 3], [8, 10]]`)))

	want := flatzinc.Domain{Intervals: []flatzinc.Interval{{Lo: 0, Hi: 3}, {Lo: 8, Hi: 10}}}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("domain intervals mismatch (-want +got):\n%s", diff)
	}
}
