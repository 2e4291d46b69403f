// Package npy reads and writes NumPy .npy files as fvec arrays.
//
// Decode works directly on a byte slice and aliases it whenever the payload
// is already in native byte order, C order and suitably aligned, which is
// the common case for files written by numpy.save on little-endian hosts.
// Fortran-ordered, byte-swapped or misaligned payloads are copied into a
// C-ordered native buffer instead.
//
// Open memory-maps a file so that float32 samples reach the adapter without
// a single copy:
//
//	f, err := npy.Open("samples.npy")
//	if err != nil { ... }
//	defer f.Close()
//
//	v, err := fvec.Adapt(f) // retains f until v.Release
//
// Format versions 1.0, 2.0 and 3.0 are understood. Encode always writes
// version 1.0 with a 64-byte aligned header. Structured, object, string and
// complex dtypes are rejected with ErrUnsupportedDType.
package npy
