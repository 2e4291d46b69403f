package source

import (
	"testing"

	"github.com/hupe1980/fvec"
	"github.com/hupe1980/fvec/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		in    string
		shape []int
		data  []float64
	}{
		{`2.5`, []int{}, []float64{2.5}},
		{`[1, 2, 3]`, []int{3}, []float64{1, 2, 3}},
		{`[[1, 2], [3, 4], [5, 6]]`, []int{3, 2}, []float64{1, 2, 3, 4, 5, 6}},
		{`[[[1], [2]]]`, []int{1, 2, 1}, []float64{1, 2}},
		{`[]`, []int{0}, []float64{}},
		{`[[], []]`, []int{2, 0}, []float64{}},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			arr, err := decodeJSON(codec.GoJSON{}, []byte(tc.in))
			require.NoError(t, err)
			assert.Equal(t, fvec.Float64, arr.DType())
			assert.Equal(t, tc.shape, arr.Shape())
			assert.Equal(t, tc.data, arr.Data())
		})
	}
}

func TestDecodeJSON_Invalid(t *testing.T) {
	for _, in := range []string{
		`{"a": 1}`,
		`[1, "two"]`,
		`[[1, 2], [3]]`,
		`[[1, 2], 3]`,
		`[1, [2]]`,
		`[[[[1]]]]`,
		`[1, 2`,
		`null`,
	} {
		_, err := decodeJSON(codec.JSON{}, []byte(in))
		assert.ErrorIs(t, err, ErrInvalidJSON, in)
	}
}
