// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Provides 64-byte aligned allocation for channel buffers (AVX-512 friendly).
//
// # Views
//
// View and AsBytes reinterpret memory between []byte and typed slices
// without copying. They back the zero-copy path for NumPy payloads.
package mem
