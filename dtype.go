package fvec

import (
	"fmt"
	"strings"
)

// Kind is the element family of a DType.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindComplex
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindComplex:
		return "complex"
	default:
		return "invalid"
	}
}

// DType describes the element type of an Array.
type DType uint8

const (
	Invalid DType = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float16
	Float32
	Float64
	Complex64
	Complex128
)

var dtypeInfo = [...]struct {
	name string
	kind Kind
	size int
	code byte // numpy type character
}{
	Invalid:    {"invalid", KindInvalid, 0, 0},
	Bool:       {"bool", KindBool, 1, 'b'},
	Int8:       {"int8", KindInt, 1, 'i'},
	Int16:      {"int16", KindInt, 2, 'i'},
	Int32:      {"int32", KindInt, 4, 'i'},
	Int64:      {"int64", KindInt, 8, 'i'},
	Uint8:      {"uint8", KindUint, 1, 'u'},
	Uint16:     {"uint16", KindUint, 2, 'u'},
	Uint32:     {"uint32", KindUint, 4, 'u'},
	Uint64:     {"uint64", KindUint, 8, 'u'},
	Float16:    {"float16", KindFloat, 2, 'f'},
	Float32:    {"float32", KindFloat, 4, 'f'},
	Float64:    {"float64", KindFloat, 8, 'f'},
	Complex64:  {"complex64", KindComplex, 8, 'c'},
	Complex128: {"complex128", KindComplex, 16, 'c'},
}

func (d DType) valid() bool { return d > Invalid && int(d) < len(dtypeInfo) }

// Kind returns the element family.
func (d DType) Kind() Kind {
	if !d.valid() {
		return KindInvalid
	}
	return dtypeInfo[d].kind
}

// Size returns the element width in bytes.
func (d DType) Size() int {
	if !d.valid() {
		return 0
	}
	return dtypeInfo[d].size
}

// IsFloat reports whether d belongs to the float family.
func (d DType) IsFloat() bool { return d.Kind() == KindFloat }

func (d DType) String() string {
	if !d.valid() {
		return fmt.Sprintf("invalid(%d)", uint8(d))
	}
	return dtypeInfo[d].name
}

// TypeCode returns the numpy array-protocol type string without byte order
// (e.g. "f4", "u1").
func (d DType) TypeCode() string {
	if !d.valid() {
		return ""
	}
	return fmt.Sprintf("%c%d", dtypeInfo[d].code, dtypeInfo[d].size)
}

// ParseDType parses a dtype name ("float32") or a numpy type string
// ("<f4", "f8", "|u1"). Byte order characters are accepted and ignored.
func ParseDType(s string) (DType, bool) {
	s = strings.TrimSpace(s)
	for d := Bool; int(d) < len(dtypeInfo); d++ {
		if strings.EqualFold(dtypeInfo[d].name, s) {
			return d, true
		}
	}
	s = strings.TrimLeft(s, "<>=|")
	if s == "?" {
		return Bool, true
	}
	for d := Bool; int(d) < len(dtypeInfo); d++ {
		if d.TypeCode() == s {
			return d, true
		}
	}
	return Invalid, false
}
