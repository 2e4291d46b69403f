package ndarray

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hupe1980/fvec"
	"github.com/hupe1980/fvec/internal/conv"
	"github.com/hupe1980/fvec/internal/f16"
)

var (
	// ErrShapeMismatch is returned when a shape does not describe the data length.
	ErrShapeMismatch = errors.New("ndarray: shape does not match data length")
	// ErrRaggedRows is returned by FromRows when rows differ in length.
	ErrRaggedRows = errors.New("ndarray: rows differ in length")
	// ErrUnsupportedCast is returned when Cast targets a type other than float32 or float64.
	ErrUnsupportedCast = errors.New("ndarray: unsupported cast")
	// ErrNoRows is returned by Row for arrays that do not expose float32 rows.
	ErrNoRows = errors.New("ndarray: rows are only available for 1- or 2-dimensional float32 arrays")
)

// Float16 is a raw IEEE-754 binary16 value.
type Float16 = f16.Bits

// Element enumerates the Go types an Array can hold.
type Element interface {
	bool | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | Float16 | float32 | float64
}

// Array is a contiguous, row-major n-dimensional array.
type Array struct {
	dtype fvec.DType
	shape []int
	data  any
}

var _ fvec.Array = (*Array)(nil)

// New wraps data without copying. Without a shape the array is
// 1-dimensional; otherwise the product of shape must equal len(data).
func New[T Element](data []T, shape ...int) (*Array, error) {
	if len(shape) == 0 {
		shape = []int{len(data)}
	}
	n, err := conv.ShapeElems(shape)
	if err != nil {
		return nil, fmt.Errorf("ndarray: %w", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: shape %v needs %d elements, got %d", ErrShapeMismatch, shape, n, len(data))
	}
	return &Array{
		dtype: dtypeOf(data),
		shape: slices.Clone(shape),
		data:  data,
	}, nil
}

// Scalar returns a 0-dimensional array holding v.
func Scalar[T Element](v T) *Array {
	data := []T{v}
	return &Array{dtype: dtypeOf(data), shape: []int{}, data: data}
}

// FromRows copies rows into a new (len(rows), len(rows[0])) float32 array.
func FromRows(rows [][]float32) (*Array, error) {
	return fromRows(rows)
}

// FromRows64 copies rows into a new (len(rows), len(rows[0])) float64 array.
func FromRows64(rows [][]float64) (*Array, error) {
	return fromRows(rows)
}

func fromRows[T float32 | float64](rows [][]T) (*Array, error) {
	if len(rows) == 0 {
		return New([]T{}, 0, 0)
	}
	n := len(rows[0])
	data := make([]T, 0, len(rows)*n)
	for i, r := range rows {
		if len(r) != n {
			return nil, fmt.Errorf("%w: row %d has %d elements, row 0 has %d", ErrRaggedRows, i, len(r), n)
		}
		data = append(data, r...)
	}
	return New(data, len(rows), n)
}

// NDim returns the number of dimensions.
func (a *Array) NDim() int { return len(a.shape) }

// Shape returns the per-dimension sizes.
func (a *Array) Shape() []int { return a.shape }

// DType returns the element type.
func (a *Array) DType() fvec.DType { return a.dtype }

// Len returns the number of elements.
func (a *Array) Len() int { return fvec.Size(a.shape) }

// Data returns the backing slice ([]float32, []float64, ...).
func (a *Array) Data() any { return a.data }

// Reshape returns a view of a with a different shape sharing the same data.
func (a *Array) Reshape(shape ...int) (*Array, error) {
	n, err := conv.ShapeElems(shape)
	if err != nil {
		return nil, fmt.Errorf("ndarray: %w", err)
	}
	if n != a.Len() {
		return nil, fmt.Errorf("%w: cannot reshape %v to %v", ErrShapeMismatch, a.shape, shape)
	}
	return &Array{dtype: a.dtype, shape: slices.Clone(shape), data: a.data}, nil
}

// Row returns row i of a 1- or 2-dimensional float32 array without copying.
func (a *Array) Row(i int) ([]float32, error) {
	data, ok := a.data.([]float32)
	if !ok || a.NDim() < 1 || a.NDim() > 2 {
		return nil, ErrNoRows
	}
	rows, n := 1, a.shape[0]
	if a.NDim() == 2 {
		rows, n = a.shape[0], a.shape[1]
	}
	if i < 0 || i >= rows {
		return nil, fmt.Errorf("ndarray: row %d out of range [0, %d)", i, rows)
	}
	return data[i*n : (i+1)*n : (i+1)*n], nil
}

// Cast returns a copy of a converted to float32 or float64.
// Float16 values convert exactly; float64 to float32 rounds to nearest.
func (a *Array) Cast(to fvec.DType) (fvec.Array, error) {
	var out any
	switch to {
	case fvec.Float32:
		out = convert[float32](a.data)
	case fvec.Float64:
		out = convert[float64](a.data)
	default:
		return nil, fmt.Errorf("%w: %s to %s", ErrUnsupportedCast, a.dtype, to)
	}
	return &Array{dtype: to, shape: slices.Clone(a.shape), data: out}, nil
}

func (a *Array) String() string {
	return fmt.Sprintf("ndarray.Array(%s, %v)", a.dtype, a.shape)
}

func convert[D float32 | float64](data any) []D {
	switch s := data.(type) {
	case []float32:
		return convertSlice[D](s)
	case []float64:
		return convertSlice[D](s)
	case []Float16:
		out := make([]D, len(s))
		for i, h := range s {
			out[i] = D(f16.ToFloat32(h))
		}
		return out
	case []int8:
		return convertSlice[D](s)
	case []int16:
		return convertSlice[D](s)
	case []int32:
		return convertSlice[D](s)
	case []int64:
		return convertSlice[D](s)
	case []uint8:
		return convertSlice[D](s)
	case []uint16:
		return convertSlice[D](s)
	case []uint32:
		return convertSlice[D](s)
	case []uint64:
		return convertSlice[D](s)
	case []bool:
		out := make([]D, len(s))
		for i, b := range s {
			if b {
				out[i] = 1
			}
		}
		return out
	default:
		panic(fmt.Sprintf("ndarray: unexpected backing type %T", data))
	}
}

type number interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

func convertSlice[D float32 | float64, S number](s []S) []D {
	out := make([]D, len(s))
	for i, v := range s {
		out[i] = D(v)
	}
	return out
}

func dtypeOf[T Element](data []T) fvec.DType {
	switch any(data).(type) {
	case []bool:
		return fvec.Bool
	case []int8:
		return fvec.Int8
	case []int16:
		return fvec.Int16
	case []int32:
		return fvec.Int32
	case []int64:
		return fvec.Int64
	case []uint8:
		return fvec.Uint8
	case []uint16:
		return fvec.Uint16
	case []uint32:
		return fvec.Uint32
	case []uint64:
		return fvec.Uint64
	case []Float16:
		return fvec.Float16
	case []float32:
		return fvec.Float32
	case []float64:
		return fvec.Float64
	default:
		return fvec.Invalid
	}
}
