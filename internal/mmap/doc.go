// Package mmap maps sample files read-only into memory so that NumPy
// payloads can be adapted without copying.
//
//	m, err := mmap.Open("samples.npy")
//	if err != nil { ... }
//	defer m.Close()
//
//	m.Advise(mmap.AccessSequential)
//	payload, _ := m.Slice(128, m.Size()-128)
//
// Unix systems use mmap(2) and madvise(2); on Windows the file is mapped
// with MapViewOfFile and Advise is a no-op.
//
// A Mapping is safe for concurrent reads. Close is idempotent, but callers
// must guarantee that no slice obtained from Bytes or Slice is used after it
// returns.
package mmap
