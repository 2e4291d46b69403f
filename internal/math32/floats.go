// Package math32 provides the float32 kernels behind fvec statistics.
// This is an internal package - external users should call fvec.ComputeAlphaNorm.
package math32

import "math"

// Abs returns the absolute value of x.
func Abs(x float32) float32 {
	return math.Float32frombits(math.Float32bits(x) &^ (1 << 31))
}

// Pow returns x**y in float32 precision.
func Pow(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}

// Dot calculates the dot product of two vectors.
func Dot(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i] * b[i]
	}

	return ret
}

// SumPow returns the sum of |a[i]|**alpha.
//
// alpha 1 and 2 take multiplication-only paths; they agree with the generic
// path up to float32 rounding of math.Pow.
func SumPow(a []float32, alpha float32) float32 {
	switch alpha {
	case 1:
		var sum float32
		for _, v := range a {
			sum += Abs(v)
		}
		return sum
	case 2:
		return Dot(a, a)
	}

	var sum float32
	for _, v := range a {
		sum += Pow(Abs(v), alpha)
	}
	return sum
}

// AlphaNorm computes the alpha normalisation factor of a multi-channel
// buffer:
//
//	(sum_c sum_j |data[c][j]|^alpha / length) ^ (1/alpha)
//
// Every channel contributes to a single sum, which is normalised by the
// per-channel length, not by the total sample count. Each channel must hold
// at least length samples; extra samples are ignored.
func AlphaNorm(data [][]float32, length int, alpha float32) float32 {
	var tmp float32
	for _, ch := range data {
		tmp += SumPow(ch[:length], alpha)
	}
	return Pow(tmp/float32(length), 1/alpha)
}
