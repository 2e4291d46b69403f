package npy

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/hupe1980/fvec"
	"github.com/hupe1980/fvec/internal/mem"
	"github.com/hupe1980/fvec/ndarray"
)

// maxHeaderLen bounds the header dictionary of version 2.0 and 3.0 files.
const maxHeaderLen = 1 << 20

var hostOrder binary.ByteOrder = func() binary.ByteOrder {
	if binary.NativeEndian.Uint16([]byte{1, 0}) == 1 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}()

func isNative(o binary.ByteOrder) bool {
	return o == binary.NativeEndian || o == hostOrder
}

// Decode parses the npy file held in data.
//
// The returned array aliases data when the payload needs no conversion;
// data must then stay valid and unmodified for the lifetime of the array.
func Decode(data []byte) (*ndarray.Array, error) {
	_, arr, _, err := decode(data)
	return arr, err
}

// DecodeHeader parses only the header of the npy file held in data.
func DecodeHeader(data []byte) (*Header, error) {
	h, _, err := parseHeader(data)
	return h, err
}

func decode(data []byte) (*Header, *ndarray.Array, bool, error) {
	h, off, err := parseHeader(data)
	if err != nil {
		return nil, nil, false, err
	}
	arr, aliased, err := h.decodePayload(data[off:])
	if err != nil {
		return nil, nil, false, err
	}
	return h, arr, aliased, nil
}

// Read reads an npy file from r. The payload is read into a 64-byte aligned
// buffer owned by the returned array.
func Read(r io.Reader) (*ndarray.Array, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	return h.ReadPayload(r)
}

// ReadPayload reads the payload described by h from r, which must be
// positioned right after the header (see ReadHeader).
//
// The buffer grows with the bytes actually read, so a header claiming more
// data than r holds fails with ErrTruncated without allocating the claimed
// size.
func (h *Header) ReadPayload(r io.Reader) (*ndarray.Array, error) {
	payload, err := readPayload(r, h.PayloadSize())
	if err != nil {
		return nil, err
	}
	arr, _, err := h.decodePayload(payload)
	return arr, err
}

// payloadChunk is the initial buffer size of readPayload.
const payloadChunk = 1 << 20

// readPayload reads exactly size bytes into a 64-byte aligned buffer that
// doubles as data arrives.
func readPayload(r io.Reader, size int) ([]byte, error) {
	buf := mem.AllocAligned(min(size, payloadChunk))
	for n := 0; n < size; {
		if n == len(buf) {
			grown := mem.AllocAligned(min(size, 2*len(buf)))
			copy(grown, buf)
			buf = grown
		}
		m, err := io.ReadFull(r, buf[n:])
		n += m
		if err != nil {
			return nil, readErr(err)
		}
	}
	return buf, nil
}

// ReadHeader reads the preamble and header dictionary from r, leaving r
// positioned at the start of the payload.
func ReadHeader(r io.Reader) (*Header, error) {
	head := make([]byte, preambleLen, preambleLen+2)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, readErr(err)
	}
	if string(head[:len(magic)]) != magic {
		return nil, ErrInvalidMagic
	}
	if major := head[6]; major == 2 || major == 3 {
		head = head[:preambleLen+2]
		if _, err := io.ReadFull(r, head[preambleLen:]); err != nil {
			return nil, readErr(err)
		}
	}

	_, end, err := headerSpan(head)
	if err != nil {
		return nil, err
	}

	full := make([]byte, end)
	copy(full, head)
	if _, err := io.ReadFull(r, full[len(head):]); err != nil {
		return nil, readErr(err)
	}
	h, _, err := parseHeader(full)
	return h, err
}

func readErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return fmt.Errorf("npy: %w", err)
}

// decodePayload converts payload into an array. The boolean result reports
// whether the array aliases payload.
func (h *Header) decodePayload(payload []byte) (*ndarray.Array, bool, error) {
	need := h.PayloadSize()
	if len(payload) < need {
		return nil, false, fmt.Errorf("%w: payload has %d bytes, want %d", ErrTruncated, len(payload), need)
	}
	payload = payload[:need:need]

	switch h.DType {
	case fvec.Bool:
		return decodeBool(h, payload)
	case fvec.Int8:
		return decodeAs[int8](h, payload)
	case fvec.Int16:
		return decodeAs[int16](h, payload)
	case fvec.Int32:
		return decodeAs[int32](h, payload)
	case fvec.Int64:
		return decodeAs[int64](h, payload)
	case fvec.Uint8:
		return decodeAs[uint8](h, payload)
	case fvec.Uint16:
		return decodeAs[uint16](h, payload)
	case fvec.Uint32:
		return decodeAs[uint32](h, payload)
	case fvec.Uint64:
		return decodeAs[uint64](h, payload)
	case fvec.Float16:
		return decodeAs[ndarray.Float16](h, payload)
	case fvec.Float32:
		return decodeAs[float32](h, payload)
	case fvec.Float64:
		return decodeAs[float64](h, payload)
	default:
		return nil, false, fmt.Errorf("%w: %s", ErrUnsupportedDType, h.DType)
	}
}

func decodeAs[T ndarray.Element](h *Header, payload []byte) (*ndarray.Array, bool, error) {
	size := h.DType.Size()
	swap := size > 1 && !isNative(h.ByteOrder)

	data, aliased := mem.View[T](payload)
	if !aliased || swap {
		buf := mem.AllocAligned(len(payload))
		copy(buf, payload)
		if swap {
			swapBytes(buf, size)
		}
		data, _ = mem.View[T](buf)
		aliased = false
	}

	if h.FortranOrder && len(h.Shape) > 1 {
		data = fortranToC(data, h.Shape)
		aliased = false
	}
	arr, err := build(data, h.Shape)
	return arr, aliased, err
}

func decodeBool(h *Header, payload []byte) (*ndarray.Array, bool, error) {
	data := make([]bool, len(payload))
	for i, b := range payload {
		data[i] = b != 0
	}
	if h.FortranOrder && len(h.Shape) > 1 {
		data = fortranToC(data, h.Shape)
	}
	arr, err := build(data, h.Shape)
	return arr, false, err
}

func build[T ndarray.Element](data []T, shape []int) (*ndarray.Array, error) {
	if len(shape) == 0 {
		return ndarray.Scalar(data[0]), nil
	}
	return ndarray.New(data, shape...)
}

func swapBytes(buf []byte, size int) {
	for i := 0; i+size <= len(buf); i += size {
		slices.Reverse(buf[i : i+size])
	}
}

// fortranToC returns the C-ordered copy of the column-major data src.
func fortranToC[T any](src []T, shape []int) []T {
	out := make([]T, len(src))
	if len(src) == 0 {
		return out
	}

	strides := make([]int, len(shape))
	s := 1
	for i, d := range shape {
		strides[i] = s
		s *= d
	}

	idx := make([]int, len(shape))
	for c := range out {
		f := 0
		for k, i := range idx {
			f += i * strides[k]
		}
		out[c] = src[f]

		for k := len(idx) - 1; k >= 0; k-- {
			idx[k]++
			if idx[k] < shape[k] {
				break
			}
			idx[k] = 0
		}
	}
	return out
}
