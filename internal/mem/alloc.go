// Package mem provides memory allocation utilities.
package mem

import (
	"math"
	"unsafe"
)

// Alignment is the byte alignment required for AVX-512 (64 bytes).
const Alignment = 64

// MaxAllocSize is the largest buffer AllocAligned is asked for. Larger
// requests exceed the address space of current 64-bit platforms (48 bits)
// or of int on 32-bit ones; callers reject them before allocating.
const MaxAllocSize = min(math.MaxInt, 1<<48) - Alignment

// AllocAligned allocates a byte slice of the given size with 64-byte alignment.
// The returned slice is guaranteed to start at a memory address divisible by 64.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	buf := make([]byte, size+Alignment)

	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment
	offset := int((Alignment - (addr & (Alignment - 1))) & (Alignment - 1))

	return buf[offset : offset+size : offset+size]
}

// AllocAlignedFloat32 allocates a zeroed float32 slice of the given length
// with 64-byte alignment.
func AllocAlignedFloat32(size int) []float32 {
	if size <= 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&AllocAligned(size * 4)[0])), size) //nolint:gosec // unsafe is required for memory alignment
}

// View reinterprets b as native-endian T values without copying. T must be
// a fixed-size numeric type. It returns false if b is not aligned for T or
// its length is not a multiple of the size of T.
func View[T any](b []byte) ([]T, bool) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 || len(b)%size != 0 {
		return nil, false
	}
	if len(b) == 0 {
		return []T{}, true
	}
	ptr := unsafe.Pointer(&b[0]) //nolint:gosec // reinterpretation of caller-owned memory
	if uintptr(ptr)%unsafe.Alignof(zero) != 0 {
		return nil, false
	}
	return unsafe.Slice((*T)(ptr), len(b)/size), true
}

// AsBytes reinterprets s as native-endian bytes without copying.
func AsBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(s[0]))) //nolint:gosec // reinterpretation of caller-owned memory
}
