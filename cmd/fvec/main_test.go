package main

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hupe1980/fvec/codec"
	"github.com/hupe1980/fvec/ndarray"
	"github.com/hupe1980/fvec/npy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) ([]map[string]any, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())

	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(stdout.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, codec.Default.Unmarshal([]byte(line), &m), line)
		lines = append(lines, m)
	}
	return lines, stderr.String(), err
}

func writeNPY(t *testing.T, dir, name string, arr *ndarray.Array) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, npy.Encode(&buf, arr))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestAlphaNorm(t *testing.T) {
	dir := t.TempDir()
	arr, err := ndarray.New([]float32{1, 2, 3, 4})
	require.NoError(t, err)
	f32 := writeNPY(t, dir, "a.npy", arr)
	f64 := writeFile(t, dir, "b.json", `[[1, 2], [3, 4]]`)

	lines, _, err := run(t, "alpha-norm", f32, f64)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, f32, lines[0]["input"])
	assert.Equal(t, float64(2), lines[0]["alpha"])
	assert.Equal(t, float64(1), lines[0]["channels"])
	assert.Equal(t, float64(4), lines[0]["length"])
	assert.Equal(t, "float32", lines[0]["dtype"])
	assert.Equal(t, "zero-copy", lines[0]["path"])
	assert.InDelta(t, math.Sqrt(7.5), lines[0]["value"], 1e-6)

	assert.Equal(t, float64(2), lines[1]["channels"])
	assert.Equal(t, float64(2), lines[1]["length"])
	assert.Equal(t, "float64", lines[1]["dtype"])
	assert.Equal(t, "cast", lines[1]["path"])
	assert.InDelta(t, math.Sqrt(15), lines[1]["value"], 1e-6)
}

func TestAlphaNorm_AlphaSources(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "x.json", `[1, 2, 3, 4]`)
	cfg := writeFile(t, dir, "fvec.yaml", "alpha: 1\n")

	lines, _, err := run(t, "--config", cfg, "alpha-norm", in)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, lines[0]["value"], 1e-6)

	lines, _, err = run(t, "--config", cfg, "alpha-norm", "--alpha", "2", "--workers", "2", in)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(7.5), lines[0]["value"], 1e-6)
}

func TestAlphaNorm_StdlibCodec(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "x.json", `[[1, 2], [3, 4]]`)
	cfg := writeFile(t, dir, "fvec.yaml", "codec: json\n")

	lines, _, err := run(t, "--config", cfg, "alpha-norm", in)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "cast", lines[0]["path"])
	assert.InDelta(t, math.Sqrt(15), lines[0]["value"], 1e-6)

	bad := writeFile(t, dir, "bad.yaml", "codec: msgpack\n")
	_, _, err = run(t, "--config", bad, "alpha-norm", in)
	assert.Error(t, err)
}

func TestAlphaNorm_Failures(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `[3, 4]`)
	ints, err := ndarray.New([]int32{1, 2})
	require.NoError(t, err)
	intPath := writeNPY(t, dir, "ints.npy", ints)
	scalar := writeFile(t, dir, "scalar.json", `7`)
	missing := filepath.Join(dir, "missing.npy")

	lines, stderr, err := run(t, "alpha-norm", missing, good, intPath, scalar, "minio://b/k.npy")
	require.ErrorIs(t, err, errInputsFailed)
	assert.Contains(t, stderr, "4 of 5")
	require.Len(t, lines, 5)

	assert.Equal(t, missing, lines[0]["input"])
	assert.Equal(t, "InputError", lines[0]["kind"])
	assert.NotEmpty(t, lines[0]["error"])
	assert.NotContains(t, lines[0], "value")

	assert.InDelta(t, math.Sqrt(12.5), lines[1]["value"], 1e-6)
	assert.Equal(t, "TypeError", lines[2]["kind"])
	assert.Equal(t, "ShapeError", lines[3]["kind"])
	assert.Contains(t, lines[4]["error"], "unknown scheme")
}

func TestAlphaNorm_MemoryLimit(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "x.json", `[1, 2, 3, 4, 5, 6, 7, 8, 9]`)
	cfg := writeFile(t, dir, "fvec.yaml", "resources:\n  memory_limit_bytes: 16\n")

	lines, _, err := run(t, "--config", cfg, "alpha-norm", in)
	require.ErrorIs(t, err, errInputsFailed)
	assert.Equal(t, "AllocationError", lines[0]["kind"])
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	arr, err := ndarray.New([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)
	path := writeNPY(t, dir, "a.npy", arr)
	js := writeFile(t, dir, "b.json", `[1.5]`)

	lines, _, err := run(t, "inspect", path, js)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, []any{float64(2), float64(3)}, lines[0]["shape"])
	assert.Equal(t, "float32", lines[0]["dtype"])
	assert.Equal(t, true, lines[0]["mapped"])
	assert.Equal(t, "npy", lines[0]["format"])
	assert.NotContains(t, lines[0], "value")

	assert.Equal(t, "float64", lines[1]["dtype"])
	assert.Equal(t, false, lines[1]["mapped"])
	assert.Equal(t, "json", lines[1]["format"])
}

func TestCommandErrors(t *testing.T) {
	_, _, err := run(t, "alpha-norm")
	assert.Error(t, err)

	_, _, err = run(t, "--log-format", "xml", "inspect", "x.npy")
	assert.Error(t, err)

	_, _, err = run(t, "alpha-norm", "--alpha=-1", "x.npy")
	assert.Error(t, err)

	_, _, err = run(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "inspect", "x.npy")
	assert.Error(t, err)
}

func TestDebugLogging(t *testing.T) {
	in := writeFile(t, t.TempDir(), "x.json", `[1, 2]`)
	_, stderr, err := run(t, "--log-level", "debug", "--log-format", "json", "alpha-norm", in)
	require.NoError(t, err)
	assert.Contains(t, stderr, `"msg":"adapted input"`)
	assert.Contains(t, stderr, `"path":"cast"`)
}

func TestNumber(t *testing.T) {
	assert.Equal(t, 1.5, number(1.5))
	assert.Equal(t, "NaN", number(math.NaN()))
	assert.Equal(t, "+Inf", number(math.Inf(1)))
	assert.Equal(t, "-Inf", number(math.Inf(-1)))
}
