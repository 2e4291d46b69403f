package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformRangeRows(t *testing.T) {
	rng := NewRNG(42)
	rows := rng.UniformRangeRows(3, 16)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Len(t, row, 16)
		for _, v := range row {
			assert.GreaterOrEqual(t, v, float32(-1))
			assert.Less(t, v, float32(1))
		}
	}

	// Rows are contiguous.
	assert.Same(t, &rows[0][:17][16], &rows[1][0])
}

func TestReset(t *testing.T) {
	rng := NewRNG(7)
	a := rng.Float64Samples(8)
	rng.Reset()
	b := rng.Float64Samples(8)
	assert.Equal(t, a, b)
	assert.Equal(t, int64(7), rng.Seed())
}

func TestFlatten(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, Flatten([][]int{{1}, {2, 3}}))
}

func TestReferenceAlphaNorm(t *testing.T) {
	assert.InDelta(t, math.Sqrt(7.5), ReferenceAlphaNorm([][]float32{{1, 2, 3, 4}}, 2), 1e-12)
	assert.InDelta(t, 2.5, ReferenceAlphaNorm([][]float32{{1, -2, 3, -4}}, 1), 1e-12)
}
