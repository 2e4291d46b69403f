package fvec

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/hupe1980/fvec/internal/conv"
	"github.com/hupe1980/fvec/internal/mem"
)

// Path is the conversion path an adaptation took.
type Path uint8

const (
	// PathNone is reported for failed adaptations.
	PathNone Path = iota
	// PathIdentity: the input already was a Vector and is returned as is.
	PathIdentity
	// PathZeroCopy: the vector aliases the rows of a float32 input.
	PathZeroCopy
	// PathCast: the input was cast to a float32 temporary owned by the vector.
	PathCast
)

func (p Path) String() string {
	switch p {
	case PathIdentity:
		return "identity"
	case PathZeroCopy:
		return "zero-copy"
	case PathCast:
		return "cast"
	default:
		return "none"
	}
}

// Adapter converts external arrays into canonical vectors.
//
// Adapter holds configuration only; it is safe to share between goroutines
// as long as each input is adapted by one goroutine at a time.
type Adapter struct {
	opts options
}

// NewAdapter creates an Adapter.
func NewAdapter(opts ...Option) *Adapter {
	return &Adapter{opts: applyOptions(opts)}
}

// Adapt converts input into a canonical vector with the default options.
// See Adapter.Adapt.
func Adapt(input any, opts ...Option) (*Vector, error) {
	return NewAdapter(opts...).Adapt(input)
}

// Adapt converts input into a canonical vector.
//
// A *Vector is returned unchanged. Any other input must implement Array,
// have 1 or 2 non-empty dimensions and a float element type:
//
//   - shape (N) becomes 1 channel of length N,
//   - shape (C, N) becomes C channels of length N.
//
// Float32 input is aliased without copying. Other float types are cast to a
// float32 temporary first; the returned vector owns that temporary and
// returns its reservation on Release. In both cases the result is a
// borrowing vector which the caller must Release once done. On failure no
// vector is returned and every reservation has been returned.
func (a *Adapter) Adapt(input any) (*Vector, error) {
	start := time.Now()
	v, path, err := a.adapt(input)
	a.opts.metrics.RecordAdapt(path, time.Since(start), err)

	if err != nil {
		a.opts.logger.Debug("adapt failed", "kind", KindOf(err), "error", err)
		return nil, err
	}
	if a.opts.logger.Enabled(context.Background(), slog.LevelDebug) {
		a.opts.logger.WithShape(v.channels, v.length).Debug("adapted input", "path", path.String())
	}
	return v, nil
}

func (a *Adapter) adapt(input any) (*Vector, Path, error) {
	switch in := input.(type) {
	case *Vector:
		if err := in.check(); err != nil {
			return nil, PathNone, err
		}
		return in, PathIdentity, nil
	case Array:
		return a.adaptArray(in)
	default:
		return nil, PathNone, &TypeError{Msg: fmt.Sprintf("unsupported input kind %T", input)}
	}
}

func (a *Adapter) adaptArray(in Array) (*Vector, Path, error) {
	shape := slices.Clone(in.Shape())
	nd := in.NDim()
	switch {
	case nd == 0:
		return nil, PathNone, &ShapeError{Msg: "scalar input", Shape: shape}
	case nd > 2:
		return nil, PathNone, &ShapeError{Msg: "too many dimensions", Shape: shape}
	case len(shape) != nd:
		return nil, PathNone, &ShapeError{Msg: fmt.Sprintf("shape does not match %d dimensions", nd), Shape: shape}
	}

	dt := in.DType()
	if !dt.IsFloat() {
		return nil, PathNone, &TypeError{Msg: fmt.Sprintf("non-float input (%s)", dt)}
	}

	for _, d := range shape {
		if d <= 0 {
			return nil, PathNone, &ShapeError{Msg: "empty input", Shape: shape}
		}
	}
	channels, length := 1, shape[0]
	if nd == 2 {
		channels, length = shape[0], shape[1]
	}

	src := in
	path := PathZeroCopy
	var tempBytes int64
	if dt != Float32 {
		var err error
		if src, tempBytes, err = a.cast(in, shape); err != nil {
			return nil, PathNone, err
		}
		path = PathCast
	}

	rows := make([][]float32, channels)
	for i := range rows {
		row, err := src.Row(i)
		if err == nil && len(row) != length {
			err = fmt.Errorf("row %d has %d samples, want %d", i, len(row), length)
		}
		if err != nil {
			a.opts.resources.ReleaseMemory(tempBytes)
			return nil, PathNone, &ConversionError{From: src.DType(), To: Float32, cause: err}
		}
		rows[i] = row[:length:length]
	}

	return newBorrowing(src, rows, length, a.opts.resources, tempBytes), path, nil
}

// cast converts in to a float32 temporary of identical shape. The
// temporary's size is reserved before the cast and returned on failure.
func (a *Adapter) cast(in Array, shape []int) (Array, int64, error) {
	channels, length := 1, shape[0]
	if len(shape) == 2 {
		channels, length = shape[0], shape[1]
	}

	bytes, err := conv.ShapeBytes(shape, Float32.Size())
	if err != nil {
		return nil, 0, &AllocationError{Length: length, Channels: channels, Msg: "size overflow", cause: err}
	}
	if bytes > mem.MaxAllocSize {
		return nil, 0, &AllocationError{Length: length, Channels: channels, Msg: "size exceeds addressable memory"}
	}
	if err := a.opts.resources.TryAcquireMemory(bytes); err != nil {
		return nil, 0, &AllocationError{Length: length, Channels: channels, Msg: "no budget for float32 temporary", cause: err}
	}

	out, err := in.Cast(Float32)
	if err == nil && (out == nil || out.DType() != Float32 || !slices.Equal(out.Shape(), shape)) {
		err = fmt.Errorf("cast returned a different array (%v)", describe(out))
	}
	if err != nil {
		a.opts.resources.ReleaseMemory(bytes)
		return nil, 0, &ConversionError{From: in.DType(), To: Float32, cause: err}
	}
	return out, bytes, nil
}

func describe(a Array) string {
	if a == nil {
		return "nil"
	}
	return fmt.Sprintf("%s %v", a.DType(), a.Shape())
}
