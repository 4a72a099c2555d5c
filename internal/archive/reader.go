// Package archive implements the little-endian stream codec shared by the
// skeleton and animation file formats.
package archive

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"golang.org/x/text/encoding/charmap"
)

var (
	// ErrTruncated is returned when the stream ends inside a value.
	ErrTruncated = errors.New("archive: unexpected end of stream")
	// ErrBadTag is returned when a leading marker does not match.
	ErrBadTag = errors.New("archive: unexpected tag")
	// ErrStringTooLong guards against corrupt length prefixes.
	ErrStringTooLong = errors.New("archive: string length exceeds limit")
	// ErrStringNUL is returned when writing a string ReadString would cut short.
	ErrStringNUL = errors.New("archive: string contains NUL")
)

// MaxStringLen is the largest length prefix ReadString accepts.
const MaxStringLen = 1 << 20

// TagLen is the width of a file marker.
const TagLen = 4

// Reader pulls fixed-width values from a byte stream.
// The first failure is sticky: later reads return zero values and Err
// keeps reporting the first error.
type Reader struct {
	r   io.Reader
	off int64
	buf [8]byte
	err error
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Err returns the first error encountered, if any.
func (r *Reader) Err() error {
	return r.err
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 {
	return r.off
}

func (r *Reader) fill(b []byte) bool {
	if r.err != nil {
		return false
	}
	n, err := io.ReadFull(r.r, b)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			r.err = fmt.Errorf("%w: need %d bytes at offset %d, got %d", ErrTruncated, len(b), r.off, n)
		} else {
			r.err = fmt.Errorf("archive: read at offset %d: %w", r.off, err)
		}
		r.off += int64(n)
		return false
	}
	r.off += int64(n)
	return true
}

func (r *Reader) ReadUint32() uint32 {
	if !r.fill(r.buf[:4]) {
		return 0
	}
	return binary.LittleEndian.Uint32(r.buf[:4])
}

func (r *Reader) ReadInt32() int32 {
	return int32(r.ReadUint32())
}

func (r *Reader) ReadFloat32() float32 {
	return math.Float32frombits(r.ReadUint32())
}

// ReadTag consumes a 4-byte marker and fails with ErrBadTag unless it equals want.
func (r *Reader) ReadTag(want string) error {
	var b [TagLen]byte
	if !r.fill(b[:]) {
		return r.err
	}
	if string(b[:]) != want {
		r.err = fmt.Errorf("%w: got %q, want %q", ErrBadTag, b[:], want)
	}
	return r.err
}

// ReadString reads a uint32 length followed by that many Windows-1252 bytes
// and returns them as UTF-8. Anything after a NUL byte is dropped.
func (r *Reader) ReadString() string {
	n := r.ReadUint32()
	if r.err != nil {
		return ""
	}
	if n > MaxStringLen {
		r.err = fmt.Errorf("%w: %d bytes at offset %d", ErrStringTooLong, n, r.off-4)
		return ""
	}
	raw := make([]byte, n)
	if !r.fill(raw) {
		return ""
	}
	for i, c := range raw {
		if c == 0 {
			raw = raw[:i]
			break
		}
	}
	s, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		r.err = fmt.Errorf("archive: decode string at offset %d: %w", r.off-int64(n), err)
		return ""
	}
	return string(s)
}
