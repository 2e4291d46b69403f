// Package ndarray provides an in-memory, row-major array over Go slices
// that implements fvec.Array.
//
// Float32 data is exposed to the adapter without copying:
//
//	samples := []float32{1, 2, 3, 4, 5, 6}
//	arr, _ := ndarray.New(samples, 2, 3) // 2 channels x 3 samples
//	v, _ := fvec.Adapt(arr)              // v aliases samples
//	defer v.Release()
//
// Other element types are supported so callers can hand over whatever they
// hold; the adapter casts float16 and float64 and rejects the rest.
package ndarray
