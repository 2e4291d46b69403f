package math32

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbs(t *testing.T) {
	assert.Equal(t, float32(3), Abs(-3))
	assert.Equal(t, float32(3), Abs(3))
	assert.Equal(t, float32(0), Abs(float32(math.Copysign(0, -1))))
}

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Positive values", []float32{1, 2, 3}, []float32{4, 5, 6}, 32.0},
		{"Negative values", []float32{-1, -2, -3}, []float32{-4, -5, -6}, 32.0},
		{"Mixed values", []float32{1, -2, 3}, []float32{-4, 5, -6}, -32.0},
		{"Zero values", []float32{0, 0, 0}, []float32{0, 0, 0}, 0.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Dot(tc.a, tc.b))
		})
	}
}

func TestSumPow(t *testing.T) {
	a := []float32{1, -2, 3, -4}

	assert.Equal(t, float32(10), SumPow(a, 1))
	assert.Equal(t, float32(30), SumPow(a, 2))
	assert.InDelta(t, 100.0, float64(SumPow(a, 3)), 1e-4)
	assert.InDelta(t, 4.0, float64(SumPow(a, 0)), 1e-6)
}

func TestSumPow_FastPathsMatchGeneric(t *testing.T) {
	rng := rand.New(rand.NewSource(4711))
	a := make([]float32, 257)
	for i := range a {
		a[i] = rng.Float32()*2 - 1
	}

	for _, alpha := range []float32{1, 2} {
		var generic float32
		for _, v := range a {
			generic += Pow(Abs(v), alpha)
		}
		assert.InDelta(t, float64(generic), float64(SumPow(a, alpha)), 1e-3)
	}
}

func TestAlphaNorm(t *testing.T) {
	tests := []struct {
		name   string
		data   [][]float32
		length int
		alpha  float32
		want   float64
	}{
		{"single channel l2", [][]float32{{1, 2, 3, 4}}, 4, 2, math.Sqrt(30.0 / 4)},
		{"single channel l1", [][]float32{{1, -2, 3, -4}}, 4, 1, 10.0 / 4},
		{"two channels share one sum", [][]float32{{1, 2, 3}, {4, 5, 6}}, 3, 2, math.Sqrt(91.0 / 3)},
		{"zeros", [][]float32{{0, 0}}, 2, 2, 0},
		{"cubic", [][]float32{{2, 2}}, 2, 3, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := AlphaNorm(tc.data, tc.length, tc.alpha)
			assert.InDelta(t, tc.want, float64(got), 1e-5)
		})
	}
}

func TestAlphaNorm_ChannelOrderIrrelevant(t *testing.T) {
	a := [][]float32{{1, 2, 3}, {-4, 5, 0.5}}
	b := [][]float32{a[1], a[0]}
	assert.Equal(t, AlphaNorm(a, 3, 2), AlphaNorm(b, 3, 2))
}

func BenchmarkAlphaNorm(b *testing.B) {
	const size = 1 << 16
	data := [][]float32{make([]float32, size), make([]float32, size)}

	for _, ch := range data {
		for i := range ch {
			ch[i] = rand.Float32() // nolint gosec
		}
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = AlphaNorm(data, size, 1.5)
	}
}
