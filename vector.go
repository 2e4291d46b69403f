package fvec

import (
	"fmt"

	"github.com/hupe1980/fvec/internal/conv"
	"github.com/hupe1980/fvec/internal/mem"
	"github.com/hupe1980/fvec/resource"
)

// Mode distinguishes the two lifecycle modes of a Vector.
type Mode uint8

const (
	// Owning vectors allocated their channel buffers themselves.
	Owning Mode = iota + 1
	// Borrowing vectors alias the rows of a source Array.
	Borrowing
)

func (m Mode) String() string {
	switch m {
	case Owning:
		return "owning"
	case Borrowing:
		return "borrowing"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Vector is the canonical multi-channel float32 buffer: channels slices of
// exactly length samples each.
//
// A Vector is either Owning or Borrowing. Borrowing vectors keep a handle to
// their source Array, so the aliased memory stays reachable for as long as
// the vector is; they never write to it.
//
// Vectors are not safe for concurrent mutation.
type Vector struct {
	channels int
	length   int
	data     [][]float32
	store    storage
	released bool
}

// storage is the ownership variant of a Vector.
type storage interface {
	mode() Mode
	release() error
}

// owned accounts the channel buffers allocated by Allocate.
type owned struct {
	rc    *resource.Controller
	bytes int64
}

func (o *owned) mode() Mode { return Owning }

func (o *owned) release() error {
	o.rc.ReleaseMemory(o.bytes)
	return nil
}

// borrowed pins the source of a borrowing vector.
//
// When the adapter had to cast, source is a temporary the vector owns and
// bytes is its reservation. retained is set when the source implements
// Retainer.
type borrowed struct {
	source   Array
	retained Retainer
	rc       *resource.Controller
	bytes    int64
}

func (b *borrowed) mode() Mode { return Borrowing }

func (b *borrowed) release() error {
	b.rc.ReleaseMemory(b.bytes)
	b.source = nil
	if b.retained != nil {
		return b.retained.Release()
	}
	return nil
}

// Allocate returns an owning vector of channels buffers holding length
// float32 samples each. Buffers are 64-byte aligned and currently zeroed,
// but callers must not rely on the initial contents.
//
// The buffer size is reserved against the controller configured with
// WithResources; Allocate fails with ErrAllocation if length or channels is
// not positive or the reservation does not fit.
func Allocate(length, channels int, opts ...Option) (*Vector, error) {
	o := applyOptions(opts)
	return allocate(length, channels, o.resources)
}

func allocate(length, channels int, rc *resource.Controller) (*Vector, error) {
	if length <= 0 || channels <= 0 {
		return nil, &AllocationError{Length: length, Channels: channels, Msg: "length and channels must be positive"}
	}

	bytes, err := conv.ShapeBytes([]int{channels, length}, 4)
	if err != nil {
		return nil, &AllocationError{Length: length, Channels: channels, Msg: "size overflow", cause: err}
	}
	if bytes > mem.MaxAllocSize {
		return nil, &AllocationError{Length: length, Channels: channels, Msg: "size exceeds addressable memory"}
	}
	if err := rc.TryAcquireMemory(bytes); err != nil {
		return nil, &AllocationError{Length: length, Channels: channels, Msg: "memory budget exhausted", cause: err}
	}

	data := make([][]float32, channels)
	for i := range data {
		data[i] = mem.AllocAlignedFloat32(length)
	}

	return &Vector{
		channels: channels,
		length:   length,
		data:     data,
		store:    &owned{rc: rc, bytes: bytes},
	}, nil
}

// newBorrowing wraps rows of source. rows must hold channels slices of
// exactly length samples.
func newBorrowing(source Array, rows [][]float32, length int, rc *resource.Controller, tempBytes int64) *Vector {
	b := &borrowed{source: source, rc: rc, bytes: tempBytes}
	if r, ok := source.(Retainer); ok {
		r.Retain()
		b.retained = r
	}
	return &Vector{
		channels: len(rows),
		length:   length,
		data:     rows,
		store:    b,
	}
}

// Channels returns the number of channels.
func (v *Vector) Channels() int { return v.channels }

// Length returns the number of samples per channel.
func (v *Vector) Length() int { return v.length }

// Mode returns the lifecycle mode, or 0 for a zero Vector.
func (v *Vector) Mode() Mode {
	if v.store == nil {
		return 0
	}
	return v.store.mode()
}

// Released reports whether Release has been called.
func (v *Vector) Released() bool { return v.released }

// Source returns the array a borrowing vector aliases: either the array
// passed to the adapter or the float32 temporary the adapter cast it to.
// It returns nil for owning or released vectors.
func (v *Vector) Source() Array {
	if b, ok := v.store.(*borrowed); ok {
		return b.source
	}
	return nil
}

// Release drops the vector's storage. Owning vectors return their buffers
// and reservation; borrowing vectors drop their row table, return the
// reservation of a cast temporary and release a retained source. The
// aliased data itself is never modified.
//
// Release is meant to be called once; further calls are no-ops, as is
// releasing a zero Vector.
func (v *Vector) Release() error {
	if v.released || v.store == nil {
		return nil
	}
	v.released = true
	v.data = nil
	return v.store.release()
}

// Channel returns the samples of channel index. For borrowing vectors the
// slice aliases the source and must be treated as read-only.
func (v *Vector) Channel(index int) ([]float32, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	if index < 0 || index >= v.channels {
		return nil, &IndexError{What: "channel", Index: index, Limit: v.channels}
	}
	return v.data[index], nil
}

// Get returns sample i of channel ch.
func (v *Vector) Get(ch, i int) (float32, error) {
	data, err := v.Channel(ch)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= v.length {
		return 0, &IndexError{What: "sample", Index: i, Limit: v.length}
	}
	return data[i], nil
}

// Set stores x as sample i of channel ch. Borrowing vectors are read-only.
func (v *Vector) Set(ch, i int, x float32) error {
	if err := v.writable(); err != nil {
		return err
	}
	if ch < 0 || ch >= v.channels {
		return &IndexError{What: "channel", Index: ch, Limit: v.channels}
	}
	if i < 0 || i >= v.length {
		return &IndexError{What: "sample", Index: i, Limit: v.length}
	}
	v.data[ch][i] = x
	return nil
}

// Zero sets every sample to 0. Borrowing vectors are read-only.
func (v *Vector) Zero() error {
	if err := v.writable(); err != nil {
		return err
	}
	for _, ch := range v.data {
		clear(ch)
	}
	return nil
}

// Clone returns an owning deep copy of v.
func (v *Vector) Clone(opts ...Option) (*Vector, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	c, err := allocate(v.length, v.channels, o.resources)
	if err != nil {
		return nil, err
	}
	for i, ch := range v.data {
		copy(c.data[i], ch)
	}
	return c, nil
}

func (v *Vector) String() string {
	if v == nil {
		return "fvec.Vector(nil)"
	}
	if v.store == nil {
		return "fvec.Vector(uninitialised)"
	}
	state := v.store.mode().String()
	if v.released {
		state = "released"
	}
	return fmt.Sprintf("fvec.Vector(channels=%d, length=%d, %s)", v.channels, v.length, state)
}

func (v *Vector) check() error {
	if v == nil {
		return &TypeError{Msg: "nil vector"}
	}
	if v.store == nil {
		return &TypeError{Msg: "uninitialised vector"}
	}
	if v.released {
		return &TypeError{Msg: "vector has been released"}
	}
	return nil
}

func (v *Vector) writable() error {
	if err := v.check(); err != nil {
		return err
	}
	if v.Mode() == Borrowing {
		return &TypeError{Msg: "borrowing vector is read-only"}
	}
	return nil
}
