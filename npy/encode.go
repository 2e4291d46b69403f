package npy

import (
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/fvec"
)

// headerAlign is the alignment of the payload in files written by Encode.
const headerAlign = 64

// Encode writes a as a version 1.0 npy file in little-endian C order.
//
// Arrays exposing their backing slice through Data (like ndarray.Array)
// are written with their own dtype; any other fvec.Array is written as
// float32, casting it first if needed.
func Encode(w io.Writer, a fvec.Array) error {
	dt := a.DType()
	data, err := payloadOf(a)
	if err != nil {
		return err
	}
	if _, ok := data.([]float32); ok {
		dt = fvec.Float32
	}

	header, err := encodeHeader(dt, a.Shape())
	if err != nil {
		return err
	}
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("npy: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("npy: %w", err)
	}
	return nil
}

func payloadOf(a fvec.Array) (any, error) {
	if d, ok := a.(interface{ Data() any }); ok {
		return d.Data(), nil
	}

	if a.NDim() < 1 || a.NDim() > 2 {
		return nil, fmt.Errorf("%w: cannot encode %d-dimensional %T", ErrUnsupportedDType, a.NDim(), a)
	}
	if a.DType() != fvec.Float32 {
		cast, err := a.Cast(fvec.Float32)
		if err != nil {
			return nil, fmt.Errorf("npy: %w", err)
		}
		a = cast
	}

	rows := 1
	if a.NDim() == 2 {
		rows = a.Shape()[0]
	}
	out := make([]float32, 0, fvec.Size(a.Shape()))
	for i := 0; i < rows; i++ {
		row, err := a.Row(i)
		if err != nil {
			return nil, fmt.Errorf("npy: %w", err)
		}
		out = append(out, row...)
	}
	return out, nil
}

func encodeHeader(dt fvec.DType, shape []int) ([]byte, error) {
	if dt.Kind() == fvec.KindInvalid || dt.Kind() == fvec.KindComplex {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDType, dt)
	}

	order := "<"
	if dt.Size() == 1 {
		order = "|"
	}

	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = strconv.Itoa(d)
	}
	tuple := "(" + strings.Join(dims, ", ")
	if len(shape) == 1 {
		tuple += ","
	}
	tuple += ")"

	dict := fmt.Sprintf("{'descr': '%s%s', 'fortran_order': False, 'shape': %s, }", order, dt.TypeCode(), tuple)
	total := preambleLen + len(dict) + 1
	pad := (headerAlign - total%headerAlign) % headerAlign
	hlen := len(dict) + pad + 1
	if hlen > 0xFFFF {
		return nil, fmt.Errorf("%w: header of %d bytes does not fit version 1.0", ErrInvalidHeader, hlen)
	}

	out := make([]byte, 0, preambleLen+hlen)
	out = append(out, magic...)
	out = append(out, 1, 0)
	out = binary.LittleEndian.AppendUint16(out, uint16(hlen))
	out = append(out, dict...)
	out = append(out, strings.Repeat(" ", pad)...)
	out = append(out, '\n')
	return out, nil
}
