package codec

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	Input string  `json:"input"`
	Value float64 `json:"value"`
	Kind  string  `json:"kind,omitempty"`
}

func TestCodecs_Agree(t *testing.T) {
	in := result{Input: "a.npy", Value: 2.7386127875258306}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			b, err := c.Marshal(in)
			require.NoError(t, err)
			assert.JSONEq(t, `{"input":"a.npy","value":2.7386127875258306}`, string(b))

			var out result
			require.NoError(t, c.Unmarshal(b, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestCodecs_NestedSamples(t *testing.T) {
	data := []byte(`[[1, 2.5, -3], [4e-3, 0, 1E2]]`)

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		var v any
		require.NoError(t, c.Unmarshal(data, &v), c.Name())
		assert.Equal(t, []any{
			[]any{1.0, 2.5, -3.0},
			[]any{4e-3, 0.0, 100.0},
		}, v, c.Name())
	}
}

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	c, ok = ByName("go-json")
	require.True(t, ok)
	assert.Equal(t, "go-json", c.Name())

	c, ok = ByName("")
	require.True(t, ok)
	assert.Equal(t, Default.Name(), c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

func TestGoJSON_Append(t *testing.T) {
	b, err := GoJSON{}.Append([]byte("x"), map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, `x{"a":1}`, string(b))
}

func BenchmarkUnmarshal_Samples(b *testing.B) {
	rows := make([][]float64, 2)
	for i := range rows {
		rows[i] = make([]float64, 4096)
		for j := range rows[i] {
			rows[i][j] = float64(j) / 7
		}
	}
	data, err := JSON{}.Marshal(rows)
	if err != nil {
		b.Fatal(err)
	}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		b.Run(c.Name(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for b.Loop() {
				var v any
				if err := c.Unmarshal(data, &v); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func TestLineWriter(t *testing.T) {
	for _, c := range []Codec{JSON{}, GoJSON{}, nil} {
		var buf bytes.Buffer
		lw := NewLineWriter(&buf, c)
		require.NoError(t, lw.Write(result{Input: "a.npy", Value: 1.5}))
		require.NoError(t, lw.Write(result{Input: "b.npy", Kind: "TypeError"}))
		assert.Equal(t, "{\"input\":\"a.npy\",\"value\":1.5}\n{\"input\":\"b.npy\",\"value\":0,\"kind\":\"TypeError\"}\n", buf.String())

		assert.Error(t, lw.Write(make(chan int)))
	}
}

func TestLineWriter_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	lw := NewLineWriter(&buf, nil)

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, lw.Write([]int{i, i, i}))
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 32)
	for _, l := range lines {
		var v []int
		require.NoError(t, JSON{}.Unmarshal([]byte(l), &v), l)
		require.Len(t, v, 3)
		assert.Equal(t, v[0], v[2])
	}
}
