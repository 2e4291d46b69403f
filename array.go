package fvec

// Array is the capability set the adapter needs from an externally supplied
// array. Implementations live in sub-packages, one per representation
// (ndarray for Go slices, npy for NumPy payloads).
type Array interface {
	// NDim returns the number of dimensions (0 for scalars).
	NDim() int
	// Shape returns the per-dimension sizes. Callers must not modify it.
	Shape() []int
	// DType returns the element type.
	DType() DType
	// Row returns the contiguous float32 data of row i without copying.
	// A 1-dimensional array has a single implicit row 0.
	// Only valid when DType() is Float32 and NDim() is 1 or 2.
	Row(i int) ([]float32, error)
	// Cast returns a new array of identical shape with element type to.
	Cast(to DType) (Array, error)
}

// Retainer is implemented by arrays whose memory has an explicit lifetime,
// such as memory-mapped files. A borrowing Vector retains its source when it
// is created and releases it exactly once in Vector.Release.
type Retainer interface {
	Retain()
	Release() error
}

// Size returns the number of elements described by shape. A 0-dimensional
// shape describes a single element.
func Size(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}
