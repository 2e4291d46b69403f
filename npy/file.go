package npy

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/hupe1980/fvec"
	"github.com/hupe1980/fvec/internal/mmap"
	"github.com/hupe1980/fvec/ndarray"
)

// ErrReleased is returned when a File is released more often than retained.
var ErrReleased = errors.New("npy: file already released")

// File is an npy file opened with Open.
//
// File is reference counted: Open hands out one reference which Close
// drops, and every borrowing vector adapted from the file holds another.
// The mapping is unmapped when the last reference is released, so a vector
// stays valid after the file itself has been closed.
type File struct {
	*ndarray.Array

	path   string
	header *Header
	m      *mmap.Mapping
	refs   atomic.Int64
	closed atomic.Bool
}

var (
	_ fvec.Array    = (*File)(nil)
	_ fvec.Retainer = (*File)(nil)
)

// Open memory-maps the npy file at path.
//
// If the payload can be aliased the array reads straight from the mapping.
// Otherwise it is decoded into a private copy and the mapping is dropped
// immediately.
func Open(path string) (*File, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("npy: %w", err)
	}

	h, arr, aliased, err := decode(m.Bytes())
	if err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	f := &File{Array: arr, path: path, header: h}
	f.refs.Store(1)

	if !aliased {
		if err := m.Close(); err != nil {
			return nil, fmt.Errorf("npy: %w", err)
		}
		return f, nil
	}
	_ = m.Advise(mmap.AccessSequential)
	f.m = m
	return f, nil
}

// Path returns the path the file was opened from.
func (f *File) Path() string { return f.path }

// Header returns the decoded header.
func (f *File) Header() *Header { return f.header }

// Mapped reports whether the array reads directly from the memory mapping.
func (f *File) Mapped() bool { return f.m != nil }

// Retain adds a reference. It must not be called once the last reference
// has been released.
func (f *File) Retain() { f.refs.Add(1) }

// Release drops a reference and unmaps the file when it was the last one.
func (f *File) Release() error {
	switch n := f.refs.Add(-1); {
	case n > 0:
		return nil
	case n < 0:
		f.refs.Add(1)
		return ErrReleased
	}

	if f.m == nil {
		return nil
	}
	return f.m.Close()
}

// Close drops the reference handed out by Open. It is idempotent.
func (f *File) Close() error {
	if f.closed.Swap(true) {
		return nil
	}
	return f.Release()
}
