package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float32, minVal, maxVal float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float32()*span
	}
}

// UniformRangeRows generates channels rows of length samples in [-1, 1).
// Rows share a single contiguous backing array in row-major order.
func (r *RNG) UniformRangeRows(channels, length int) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, channels*length)
	rows := make([][]float32, channels)

	for i := range channels {
		row := data[i*length : (i+1)*length]
		for j := range row {
			row[j] = r.rand.Float32()*2 - 1
		}
		rows[i] = row
	}

	return rows
}

// Float64Samples generates n float64 samples in [-1, 1) with full
// float64 precision (most are not representable as float32).
func (r *RNG) Float64Samples(n int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]float64, n)
	for i := range out {
		out[i] = r.rand.Float64()*2 - 1
	}
	return out
}

// Flatten concatenates rows in row-major order.
func Flatten[T any](rows [][]T) []T {
	var out []T
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}

// ReferenceAlphaNorm evaluates
//
//	(sum_c sum_j |rows[c][j]|^alpha / len(rows[0])) ^ (1/alpha)
//
// in float64, independently of the float32 kernel.
func ReferenceAlphaNorm(rows [][]float32, alpha float64) float64 {
	var sum float64
	for _, row := range rows {
		for _, v := range row {
			sum += math.Pow(math.Abs(float64(v)), alpha)
		}
	}
	return math.Pow(sum/float64(len(rows[0])), 1/alpha)
}
