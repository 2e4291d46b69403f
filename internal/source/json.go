package source

import (
	"errors"
	"fmt"

	"github.com/hupe1980/fvec/codec"
	"github.com/hupe1980/fvec/ndarray"
)

// ErrInvalidJSON is returned for JSON inputs that are not a number or a
// regular nest of lists of numbers.
var ErrInvalidJSON = errors.New("source: invalid json samples")

// maxJSONDepth is the deepest nesting accepted. Deeper than two levels
// still decodes, so the adapter can report the dimensionality.
const maxJSONDepth = 3

// decodeJSON decodes a number or nested lists of numbers into a float64
// array whose shape follows the nesting.
func decodeJSON(c codec.Codec, data []byte) (*ndarray.Array, error) {
	var v any
	if err := c.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	var shape []int
	for cur := v; ; {
		list, ok := cur.([]any)
		if !ok {
			break
		}
		shape = append(shape, len(list))
		if len(shape) > maxJSONDepth {
			return nil, fmt.Errorf("%w: nested deeper than %d levels", ErrInvalidJSON, maxJSONDepth)
		}
		if len(list) == 0 {
			break
		}
		cur = list[0]
	}

	n := 1
	for _, d := range shape {
		n *= d
	}
	out := make([]float64, 0, n)

	var walk func(v any, depth int) error
	walk = func(v any, depth int) error {
		if depth == len(shape) {
			f, ok := v.(float64)
			if !ok {
				return fmt.Errorf("%w: %T is not a number", ErrInvalidJSON, v)
			}
			out = append(out, f)
			return nil
		}
		list, ok := v.([]any)
		if !ok || len(list) != shape[depth] {
			return fmt.Errorf("%w: ragged nesting at depth %d", ErrInvalidJSON, depth)
		}
		for _, item := range list {
			if err := walk(item, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(v, 0); err != nil {
		return nil, err
	}

	if len(shape) == 0 {
		return ndarray.Scalar(out[0]), nil
	}
	return ndarray.New(out, shape...)
}
