package fvec_test

import (
	"math"
	"testing"

	"github.com/hupe1980/fvec"
	"github.com/hupe1980/fvec/ndarray"
	"github.com/hupe1980/fvec/resource"
	"github.com/hupe1980/fvec/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphaNorm_Known(t *testing.T) {
	arr, err := ndarray.New([]float32{1, 2, 3, 4})
	require.NoError(t, err)

	got, err := fvec.AlphaNorm(arr, 2)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(7.5), got, 1e-6)

	got, err = fvec.AlphaNorm(arr, 1)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, got, 1e-6)
}

func TestAlphaNorm_Reference(t *testing.T) {
	rng := testutil.NewRNG(42)

	for _, alpha := range []float32{0.5, 1, 2, 3} {
		for _, channels := range []int{1, 2, 5} {
			rows := rng.UniformRangeRows(channels, 257)
			arr, err := ndarray.FromRows(rows)
			require.NoError(t, err)

			got, err := fvec.AlphaNorm(arr, alpha)
			require.NoError(t, err)

			want := testutil.ReferenceAlphaNorm(rows, float64(alpha))
			assert.InEpsilon(t, want, got, 1e-4, "alpha=%v channels=%d", alpha, channels)
		}
	}
}

func TestAlphaNorm_DivisorIsLength(t *testing.T) {
	one, err := ndarray.New([]float32{1, 2, 3})
	require.NoError(t, err)
	two, err := ndarray.New([]float32{1, 2, 3, 1, 2, 3}, 2, 3)
	require.NoError(t, err)

	a, err := fvec.AlphaNorm(one, 2)
	require.NoError(t, err)
	b, err := fvec.AlphaNorm(two, 2)
	require.NoError(t, err)

	// Two identical channels double the sum but not the divisor.
	assert.InDelta(t, a*math.Sqrt2, b, 1e-6)
}

func TestAlphaNorm_SensitiveToEveryChannel(t *testing.T) {
	base := [][]float32{{1, 2, 3}, {4, 5, 6}}
	arr, err := ndarray.FromRows(base)
	require.NoError(t, err)
	ref, err := fvec.AlphaNorm(arr, 2)
	require.NoError(t, err)

	changed := [][]float32{{1, 2, 3}, {4, 5, 7}}
	arr, err = ndarray.FromRows(changed)
	require.NoError(t, err)
	got, err := fvec.AlphaNorm(arr, 2)
	require.NoError(t, err)

	assert.Greater(t, got, ref)
	assert.InDelta(t, testutil.ReferenceAlphaNorm(changed, 2), got, 1e-5)
}

func TestAlphaNorm_Float64Input(t *testing.T) {
	rng := testutil.NewRNG(7)
	samples := rng.Float64Samples(64)
	arr, err := ndarray.New(samples, 2, 32)
	require.NoError(t, err)

	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20})
	got, err := fvec.AlphaNorm(arr, 2, fvec.WithResources(rc))
	require.NoError(t, err)
	assert.Zero(t, rc.MemoryUsage())

	rows := make([][]float32, 2)
	for c := range rows {
		rows[c] = make([]float32, 32)
		for i := range rows[c] {
			rows[c][i] = float32(samples[c*32+i])
		}
	}
	assert.InEpsilon(t, testutil.ReferenceAlphaNorm(rows, 2), got, 1e-5)
}

func TestAlphaNorm_VectorInputIsNotReleased(t *testing.T) {
	v, err := fvec.Allocate(2, 1)
	require.NoError(t, err)
	defer v.Release()
	require.NoError(t, v.Set(0, 0, 3))
	require.NoError(t, v.Set(0, 1, 4))

	got, err := fvec.AlphaNorm(v, 2)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(12.5), got, 1e-6)
	assert.False(t, v.Released())
}

func TestAlphaNorm_Errors(t *testing.T) {
	ints, err := ndarray.New([]int64{1, 2})
	require.NoError(t, err)

	_, err = fvec.AlphaNorm(ints, 2)
	assert.ErrorIs(t, err, fvec.ErrType)

	_, err = fvec.AlphaNorm("samples", 2)
	assert.ErrorIs(t, err, fvec.ErrType)

	_, err = fvec.ComputeAlphaNorm(nil, 2)
	assert.ErrorIs(t, err, fvec.ErrType)
}

func TestAdapter_ComputeMetrics(t *testing.T) {
	mc := &fvec.BasicMetricsCollector{}
	a := fvec.NewAdapter(fvec.WithMetricsCollector(mc))

	arr, err := ndarray.New([]float32{1, 1})
	require.NoError(t, err)
	_, err = a.AlphaNorm(arr, 2)
	require.NoError(t, err)
	_, err = a.AlphaNorm(3, 2)
	require.Error(t, err)

	s := mc.GetStats()
	assert.Equal(t, int64(2), s.AdaptCount)
	assert.Equal(t, int64(1), s.AdaptErrors)
	assert.Equal(t, int64(1), s.ZeroCopyCount)
	assert.Equal(t, int64(1), s.ComputeCount)
	assert.Zero(t, s.ComputeErrors)
}

func BenchmarkAlphaNorm(b *testing.B) {
	rng := testutil.NewRNG(1)
	arr, err := ndarray.FromRows(rng.UniformRangeRows(2, 4096))
	require.NoError(b, err)
	a := fvec.NewAdapter()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := a.AlphaNorm(arr, 2); err != nil {
			b.Fatal(err)
		}
	}
}
