package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/fvec"
	"github.com/hupe1980/fvec/blobstore"
	"github.com/hupe1980/fvec/codec"
	"github.com/hupe1980/fvec/npy"
	"github.com/hupe1980/fvec/resource"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ErrUnknownScheme is returned for URIs whose scheme has no configured store.
var ErrUnknownScheme = errors.New("source: unknown scheme")

// Loader opens inputs by URI.
type Loader struct {
	// Stores maps URI schemes to stores. The "file" scheme falls back to a
	// LocalStore with an empty root.
	Stores map[string]blobstore.Store
	// Resources accounts decoded payloads and throttles remote reads.
	// May be nil.
	Resources *resource.Controller
	// Codec decodes JSON inputs. Defaults to codec.Default.
	Codec codec.Codec
	// Logger receives debug events. Defaults to a no-op logger.
	Logger *fvec.Logger
}

// Input is a loaded input. Close it once every vector adapted from it has
// been released.
type Input struct {
	Location Location
	Array    fvec.Array
	// Mapped reports whether Array reads directly from a memory mapping.
	Mapped bool

	rc     *resource.Controller
	bytes  int64
	closer io.Closer
}

// Close returns the input's memory reservation and closes its file.
func (in *Input) Close() error {
	in.rc.ReleaseMemory(in.bytes)
	in.bytes = 0
	if in.closer == nil {
		return nil
	}
	c := in.closer
	in.closer = nil
	return c.Close()
}

// Load resolves uri and decodes it into an array.
func (l *Loader) Load(ctx context.Context, uri string) (*Input, error) {
	loc, err := Parse(uri)
	if err != nil {
		return nil, err
	}
	logger := l.Logger
	if logger == nil {
		logger = fvec.NoopLogger()
	}
	logger = logger.WithInput(uri)

	// Plain local npy files are mapped and aliased.
	if _, custom := l.Stores["file"]; loc.Scheme == "file" && !custom &&
		loc.Format == FormatNPY && loc.Compression == CompressionNone {
		f, err := npy.Open(loc.Name)
		if err != nil {
			return nil, err
		}
		logger.Debug("opened npy file", "mapped", f.Mapped())
		return &Input{Location: loc, Array: f, Mapped: f.Mapped(), closer: f}, nil
	}

	store, err := l.store(loc.Scheme)
	if err != nil {
		return nil, err
	}
	blob, err := store.Open(ctx, loc.Name)
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", loc, err)
	}
	defer blob.Close()

	var r io.Reader = resource.NewRateLimitedReader(ctx, blobstore.NewReader(ctx, blob), l.Resources)
	switch loc.Compression {
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("source: zstd: %w", err)
		}
		defer zr.Close()
		r = zr
	case CompressionLZ4:
		r = lz4.NewReader(r)
	}

	in := &Input{Location: loc, rc: l.Resources}
	switch loc.Format {
	case FormatJSON:
		err = l.loadJSON(in, r)
	default:
		err = l.loadNPY(in, r)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("loaded input", "format", string(loc.Format), "compression", string(loc.Compression), "bytes", in.bytes)
	return in, nil
}

func (l *Loader) store(scheme string) (blobstore.Store, error) {
	if s, ok := l.Stores[scheme]; ok {
		return s, nil
	}
	if scheme == "file" {
		return blobstore.NewLocalStore(""), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
}

func (l *Loader) loadNPY(in *Input, r io.Reader) error {
	h, err := npy.ReadHeader(r)
	if err != nil {
		return fmt.Errorf("%s: %w", in.Location, err)
	}
	if err := l.reserve(in, int64(h.PayloadSize()), h.Shape); err != nil {
		return err
	}
	arr, err := h.ReadPayload(r)
	if err != nil {
		in.rc.ReleaseMemory(in.bytes)
		return fmt.Errorf("%s: %w", in.Location, err)
	}
	in.Array = arr
	return nil
}

func (l *Loader) loadJSON(in *Input, r io.Reader) error {
	text, err := l.readText(in, r)
	if err != nil {
		return err
	}
	defer l.Resources.ReleaseMemory(int64(len(text)))

	c := l.Codec
	if c == nil {
		c = codec.Default
	}
	arr, err := decodeJSON(c, text)
	if err != nil {
		return fmt.Errorf("%s: %w", in.Location, err)
	}
	if err := l.reserve(in, int64(arr.Len())*8, arr.Shape()); err != nil {
		return err
	}
	in.Array = arr
	return nil
}

// readText reads a JSON document and reserves its size. Reading stops once
// the text outgrows the memory left under the limit.
func (l *Loader) readText(in *Input, r io.Reader) ([]byte, error) {
	if limit := l.Resources.MemoryLimit(); limit > 0 {
		remaining := max(limit-l.Resources.MemoryUsage(), 0)
		r = io.LimitReader(r, remaining+1)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("source: read %s: %w", in.Location, err)
	}
	if err := l.Resources.TryAcquireMemory(int64(buf.Len())); err != nil {
		return nil, fmt.Errorf("source: %s: %w", in.Location, &fvec.AllocationError{
			Msg: fmt.Sprintf("no budget for JSON text of %d+ bytes: %v", buf.Len(), err),
		})
	}
	return buf.Bytes(), nil
}

// reserve accounts a decoded payload against the memory budget.
func (l *Loader) reserve(in *Input, bytes int64, shape []int) error {
	if err := l.Resources.TryAcquireMemory(bytes); err != nil {
		channels, length := 1, 0
		switch {
		case len(shape) == 1:
			length = shape[0]
		case len(shape) >= 2:
			channels, length = shape[0], shape[1]
		}
		return fmt.Errorf("source: %s: %w", in.Location, &fvec.AllocationError{
			Length:   length,
			Channels: channels,
			Msg:      fmt.Sprintf("no budget for %d byte payload: %v", bytes, err),
		})
	}
	in.bytes = bytes
	return nil
}
