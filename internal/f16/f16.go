// Package f16 decodes IEEE-754 binary16 (float16) samples.
//
// Float16 is accepted as an input element type only; every computation
// runs on float32, so this package converts in one direction.
package f16

import (
	"encoding/binary"
	"math"
)

// Bits is the raw IEEE-754 binary16 bit-pattern.
//
// Layout:
//
//	sign: 1 bit
//	exp:  5 bits (bias 15)
//	frac: 10 bits
type Bits uint16

const (
	signMask Bits = 0x8000
	expMask  Bits = 0x7C00
	fracMask Bits = 0x03FF

	f32ExpMask uint32 = 0x7F800000

	// rebias is 2^(127-15): moves a binary16 exponent into float32 range.
	rebias float32 = 0x1p112
)

// ToFloat32 converts a binary16 bit-pattern to float32. The conversion is exact.
func ToFloat32(h Bits) float32 {
	sign := uint32(h&signMask) << 16
	em := uint32(h &^ signMask)

	if Bits(em)&expMask == expMask {
		// Inf/NaN keep their payload.
		return math.Float32frombits(sign | f32ExpMask | uint32(Bits(em)&fracMask)<<13)
	}

	// Placing exponent and fraction at the float32 position yields the value
	// scaled by 2^-112; subnormals land on float32 subnormals and are
	// normalised by the multiplication.
	f := math.Float32frombits(em<<13) * rebias
	return math.Float32frombits(sign | math.Float32bits(f))
}

// Decode converts a slice of binary16 bit-patterns to float32.
// dst must have length >= len(src).
func Decode(dst []float32, src []Bits) {
	for i, h := range src {
		dst[i] = ToFloat32(h)
	}
}

// DecodeBytes converts packed binary16 values in the given byte order to
// float32. dst must have length >= len(src)/2.
func DecodeBytes(dst []float32, src []byte, order binary.ByteOrder) {
	for i := 0; i+1 < len(src); i += 2 {
		dst[i/2] = ToFloat32(Bits(order.Uint16(src[i:])))
	}
}
