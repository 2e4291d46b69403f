package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/fvec/internal/mem"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// ErrTooLarge is returned by ReadAll for blobs that do not fit in memory.
var ErrTooLarge = errors.New("blobstore: blob too large")

// DefaultChunkSize is the read size used by NewReader and ReadAll.
const DefaultChunkSize = 1 << 20

// Store opens immutable blobs by name.
// Implementations must be safe for concurrent use.
type Store interface {
	Open(ctx context.Context, name string) (Blob, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	// ReadAt reads len(p) bytes starting at off. It follows io.ReaderAt
	// semantics and returns io.EOF when fewer bytes are available.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// Size returns the size of the blob in bytes.
	Size() int64
	io.Closer
}

// Mappable is an optional interface for Blobs that support memory mapping.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed.
	Bytes() ([]byte, error)
}

// ReadAll returns the contents of b. Mappable blobs are returned without
// copying; others are read into a 64-byte aligned buffer.
func ReadAll(ctx context.Context, b Blob) ([]byte, error) {
	if m, ok := b.(Mappable); ok {
		return m.Bytes()
	}

	size := b.Size()
	if size < 0 || size > int64(^uint(0)>>1) {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}
	buf := mem.AllocAligned(int(size))

	for off := 0; off < len(buf); {
		end := min(off+DefaultChunkSize, len(buf))
		n, err := b.ReadAt(ctx, buf[off:end], int64(off))
		off += n
		if err != nil {
			if errors.Is(err, io.EOF) && off == len(buf) {
				break
			}
			return nil, err
		}
	}
	return buf, nil
}

// Reader reads a Blob sequentially.
type Reader struct {
	ctx  context.Context
	blob Blob
	off  int64
}

// NewReader returns a Reader over b starting at offset 0.
func NewReader(ctx context.Context, b Blob) *Reader {
	return &Reader{ctx: ctx, blob: b}
}

// Read implements io.Reader. Each call issues at most one ranged read of
// up to DefaultChunkSize bytes.
func (r *Reader) Read(p []byte) (int, error) {
	if r.off >= r.blob.Size() {
		return 0, io.EOF
	}
	if len(p) > DefaultChunkSize {
		p = p[:DefaultChunkSize]
	}
	n, err := r.blob.ReadAt(r.ctx, p, r.off)
	r.off += int64(n)
	if errors.Is(err, io.EOF) && n > 0 {
		err = nil
	}
	return n, err
}
