package archive

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Writer is the inverse of Reader, with the same sticky-error behavior.
type Writer struct {
	w   io.Writer
	buf [8]byte
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) write(b []byte) {
	if w.err != nil {
		return
	}
	if _, err := w.w.Write(b); err != nil {
		w.err = fmt.Errorf("archive: write: %w", err)
	}
}

func (w *Writer) WriteUint32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[:4], v)
	w.write(w.buf[:4])
}

func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteTag writes a 4-byte marker.
func (w *Writer) WriteTag(tag string) {
	if w.err != nil {
		return
	}
	if len(tag) != TagLen {
		w.err = fmt.Errorf("archive: tag %q is not %d bytes", tag, TagLen)
		return
	}
	w.write([]byte(tag))
}

// WriteString encodes s as Windows-1252 behind a uint32 length prefix.
// Strings with a NUL byte are rejected since ReadString stops at the first one.
func (w *Writer) WriteString(s string) {
	if w.err != nil {
		return
	}
	if i := strings.IndexByte(s, 0); i >= 0 {
		w.err = fmt.Errorf("%w: %q at byte %d", ErrStringNUL, s, i)
		return
	}
	raw, err := charmap.Windows1252.NewEncoder().Bytes([]byte(s))
	if err != nil {
		w.err = fmt.Errorf("archive: encode string %q: %w", s, err)
		return
	}
	if len(raw) > MaxStringLen {
		w.err = fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(raw))
		return
	}
	w.WriteUint32(uint32(len(raw)))
	w.write(raw)
}
