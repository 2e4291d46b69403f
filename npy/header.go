package npy

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/fvec"
	"github.com/hupe1980/fvec/internal/conv"
)

var (
	// ErrInvalidMagic is returned when the data does not start with the npy magic string.
	ErrInvalidMagic = errors.New("npy: invalid magic string")
	// ErrUnsupportedVersion is returned for format versions other than 1.0, 2.0 and 3.0.
	ErrUnsupportedVersion = errors.New("npy: unsupported format version")
	// ErrInvalidHeader is returned when the header dictionary cannot be parsed.
	ErrInvalidHeader = errors.New("npy: invalid header")
	// ErrTruncated is returned when the data ends before the header or payload does.
	ErrTruncated = errors.New("npy: truncated data")
	// ErrUnsupportedDType is returned for dtypes with no fvec equivalent.
	ErrUnsupportedDType = errors.New("npy: unsupported dtype")
)

const magic = "\x93NUMPY"

// preambleLen is the size of magic, version and the v1 header length.
const preambleLen = len(magic) + 2 + 2

// Header is the decoded header dictionary of an npy file.
type Header struct {
	Major        byte
	DType        fvec.DType
	ByteOrder    binary.ByteOrder
	FortranOrder bool
	Shape        []int
}

// Elems returns the number of elements described by the header.
func (h *Header) Elems() int { return fvec.Size(h.Shape) }

// PayloadSize returns the payload size in bytes.
func (h *Header) PayloadSize() int { return h.Elems() * h.DType.Size() }

// headerSpan returns the total size of magic, version, length field and
// header dictionary, given at least the first preambleLen+2 bytes.
func headerSpan(data []byte) (byte, int, error) {
	if len(data) < len(magic) || string(data[:len(magic)]) != magic {
		if len(data) < len(magic) && magic[:len(data)] == string(data) {
			return 0, 0, ErrTruncated
		}
		return 0, 0, ErrInvalidMagic
	}
	if len(data) < preambleLen {
		return 0, 0, ErrTruncated
	}

	major, minor := data[6], data[7]
	switch {
	case major == 1 && minor == 0:
		return major, preambleLen + int(binary.LittleEndian.Uint16(data[8:10])), nil
	case (major == 2 || major == 3) && minor == 0:
		if len(data) < preambleLen+2 {
			return 0, 0, ErrTruncated
		}
		n := binary.LittleEndian.Uint32(data[8:12])
		if n > maxHeaderLen {
			return 0, 0, fmt.Errorf("%w: header length %d", ErrInvalidHeader, n)
		}
		return major, preambleLen + 2 + int(n), nil
	default:
		return 0, 0, fmt.Errorf("%w: %d.%d", ErrUnsupportedVersion, major, minor)
	}
}

// parseHeader parses the preamble and header dictionary at the start of
// data and returns the header and the offset of the payload.
func parseHeader(data []byte) (*Header, int, error) {
	major, end, err := headerSpan(data)
	if err != nil {
		return nil, 0, err
	}
	if len(data) < end {
		return nil, 0, ErrTruncated
	}

	start := preambleLen
	if major > 1 {
		start += 2
	}
	dict, err := parseDict(string(data[start:end]))
	if err != nil {
		return nil, 0, err
	}

	h, err := headerFromDict(dict)
	if err != nil {
		return nil, 0, err
	}
	h.Major = major
	return h, end, nil
}

func headerFromDict(dict map[string]any) (*Header, error) {
	descr, ok := dict["descr"].(string)
	if !ok {
		if _, present := dict["descr"]; present {
			return nil, fmt.Errorf("%w: structured descr", ErrUnsupportedDType)
		}
		return nil, fmt.Errorf("%w: missing descr", ErrInvalidHeader)
	}
	fortran, ok := dict["fortran_order"].(bool)
	if !ok {
		return nil, fmt.Errorf("%w: missing fortran_order", ErrInvalidHeader)
	}
	shape, ok := dict["shape"].([]int)
	if !ok {
		return nil, fmt.Errorf("%w: missing shape", ErrInvalidHeader)
	}
	if _, err := conv.ShapeBytes(shape, 16); err != nil {
		return nil, fmt.Errorf("%w: shape %v: %v", ErrInvalidHeader, shape, err)
	}

	dt, order, err := parseDescr(descr)
	if err != nil {
		return nil, err
	}
	return &Header{DType: dt, ByteOrder: order, FortranOrder: fortran, Shape: shape}, nil
}

func parseDescr(descr string) (fvec.DType, binary.ByteOrder, error) {
	if descr == "" {
		return fvec.Invalid, nil, fmt.Errorf("%w: empty descr", ErrInvalidHeader)
	}

	var order binary.ByteOrder = binary.NativeEndian
	switch descr[0] {
	case '<':
		order = binary.LittleEndian
	case '>':
		order = binary.BigEndian
	}

	dt, ok := fvec.ParseDType(descr)
	if !ok || dt.Kind() == fvec.KindComplex {
		return fvec.Invalid, nil, fmt.Errorf("%w: %q", ErrUnsupportedDType, descr)
	}
	return dt, order, nil
}

// dictParser parses the Python literal subset numpy writes: a dict with
// string keys whose values are strings, booleans, integers, tuples or lists.
type dictParser struct {
	s   string
	pos int
}

func parseDict(s string) (map[string]any, error) {
	p := &dictParser{s: s}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	dict, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: not a dict", ErrInvalidHeader)
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return nil, p.errorf("trailing data")
	}
	return dict, nil
}

func (p *dictParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d", ErrInvalidHeader, fmt.Sprintf(format, args...), p.pos)
}

func (p *dictParser) skipSpace() {
	for p.pos < len(p.s) && strings.IndexByte(" \t\r\n", p.s[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *dictParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *dictParser) value() (any, error) {
	switch c := p.peek(); {
	case c == '{':
		return p.dict()
	case c == '(' || c == '[':
		return p.sequence(c)
	case c == '\'' || c == '"':
		return p.str()
	case c == '-' || (c >= '0' && c <= '9'):
		return p.integer()
	case strings.HasPrefix(p.s[p.pos:], "True"):
		p.pos += 4
		return true, nil
	case strings.HasPrefix(p.s[p.pos:], "False"):
		p.pos += 5
		return false, nil
	default:
		return nil, p.errorf("unexpected %q", c)
	}
}

func (p *dictParser) dict() (map[string]any, error) {
	p.pos++ // {
	out := make(map[string]any)
	for {
		if p.peek() == '}' {
			p.pos++
			return out, nil
		}
		key, err := p.str()
		if err != nil {
			return nil, err
		}
		if p.peek() != ':' {
			return nil, p.errorf("expected ':'")
		}
		p.pos++
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out[key] = v

		switch p.peek() {
		case ',':
			p.pos++
		case '}':
		default:
			return nil, p.errorf("expected ',' or '}'")
		}
	}
}

// sequence parses a tuple or list. Tuples of integers are returned as
// []int, anything else as []any.
func (p *dictParser) sequence(open byte) (any, error) {
	closing := byte(')')
	if open == '[' {
		closing = ']'
	}
	p.pos++

	var items []any
	allInts := true
	for {
		if p.peek() == closing {
			p.pos++
			break
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		if _, ok := v.(int); !ok {
			allInts = false
		}
		items = append(items, v)

		switch p.peek() {
		case ',':
			p.pos++
		case closing:
		default:
			return nil, p.errorf("expected ',' or %q", closing)
		}
	}

	if open == '(' && allInts {
		ints := make([]int, len(items))
		for i, v := range items {
			ints[i] = v.(int)
		}
		return ints, nil
	}
	return items, nil
}

func (p *dictParser) str() (string, error) {
	quote := p.peek()
	if quote != '\'' && quote != '"' {
		return "", p.errorf("expected string")
	}
	p.pos++
	end := strings.IndexByte(p.s[p.pos:], quote)
	if end < 0 {
		return "", p.errorf("unterminated string")
	}
	s := p.s[p.pos : p.pos+end]
	p.pos += end + 1
	return s, nil
}

func (p *dictParser) integer() (int, error) {
	start := p.pos
	if p.s[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
		p.pos++
	}
	// Python 2 era writers emit long literals such as 3L.
	lit := p.s[start:p.pos]
	if p.pos < len(p.s) && p.s[p.pos] == 'L' {
		p.pos++
	}
	n, err := strconv.Atoi(lit)
	if err != nil {
		return 0, p.errorf("invalid integer %q", lit)
	}
	return n, nil
}
