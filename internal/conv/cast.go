package conv

import (
	"fmt"
	"math"
)

// ShapeElems returns the product of the dimensions in shape.
// Negative dimensions and products that overflow int are rejected.
func ShapeElems(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("invalid dimension %d in shape %v", d, shape)
		}
		if d != 0 && n > math.MaxInt/d {
			return 0, fmt.Errorf("integer overflow: shape %v has too many elements", shape)
		}
		n *= d
	}
	return n, nil
}

// ShapeBytes returns the byte size of a buffer holding shape elements of
// elemSize bytes each.
func ShapeBytes(shape []int, elemSize int) (int64, error) {
	n, err := ShapeElems(shape)
	if err != nil {
		return 0, err
	}
	if elemSize < 0 {
		return 0, fmt.Errorf("invalid element size %d", elemSize)
	}
	if elemSize != 0 && int64(n) > math.MaxInt64/int64(elemSize) {
		return 0, fmt.Errorf("integer overflow: shape %v of %d-byte elements", shape, elemSize)
	}
	return int64(n) * int64(elemSize), nil
}
