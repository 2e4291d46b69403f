package codec

import (
	"io"
	"sync"
)

// Appender is implemented by codecs that can encode into a caller buffer.
type Appender interface {
	Append(dst []byte, v any) ([]byte, error)
}

// LineWriter writes one encoded value per line (JSON Lines). It is safe for
// concurrent use; lines are never interleaved.
type LineWriter struct {
	mu  sync.Mutex
	w   io.Writer
	c   Codec
	buf []byte
}

// NewLineWriter returns a LineWriter encoding with c (Default if nil).
func NewLineWriter(w io.Writer, c Codec) *LineWriter {
	if c == nil {
		c = Default
	}
	return &LineWriter{w: w, c: c}
}

// Write encodes v followed by a newline.
func (lw *LineWriter) Write(v any) error {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	var err error
	if a, ok := lw.c.(Appender); ok {
		lw.buf, err = a.Append(lw.buf[:0], v)
	} else {
		var b []byte
		b, err = lw.c.Marshal(v)
		lw.buf = append(lw.buf[:0], b...)
	}
	if err != nil {
		return err
	}
	lw.buf = append(lw.buf, '\n')
	_, err = lw.w.Write(lw.buf)
	return err
}
