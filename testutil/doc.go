// Package testutil provides testing utilities for fvec.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded generators for multi-channel sample buffers and a
// float64 reference of the alpha norm formula.
//
// # Random Buffers
//
//	rng := testutil.NewRNG(seed)
//	rows := rng.UniformRangeRows(2, 512)   // 2 channels in [-1, 1)
//	flat := rng.Float64Samples(1024)       // float64 samples in [-1, 1)
//
// # Reference
//
//	want := testutil.ReferenceAlphaNorm(rows, 2)
package testutil
