package archive

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteTag("TEST")
	w.WriteUint32(7)
	w.WriteInt32(-1)
	w.WriteFloat32(1.5)
	w.WriteString("Épaule")
	w.WriteString("")
	require.NoError(t, w.Err())

	r := NewReader(&buf)
	require.NoError(t, r.ReadTag("TEST"))
	assert.Equal(t, uint32(7), r.ReadUint32())
	assert.Equal(t, int32(-1), r.ReadInt32())
	assert.Equal(t, float32(1.5), r.ReadFloat32())
	assert.Equal(t, "Épaule", r.ReadString())
	assert.Equal(t, "", r.ReadString())
	require.NoError(t, r.Err())
	assert.Equal(t, int64(4+4+4+4+4+6+4), r.Offset())
}

func TestWindows1252OnDisk(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteString("é")
	require.NoError(t, w.Err())
	assert.Equal(t, []byte{1, 0, 0, 0, 0xE9}, buf.Bytes())
}

func TestTruncatedIsSticky(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 2}))
	assert.Zero(t, r.ReadUint32())
	require.ErrorIs(t, r.Err(), ErrTruncated)

	first := r.Err()
	assert.Zero(t, r.ReadFloat32())
	assert.Equal(t, "", r.ReadString())
	assert.Same(t, first, r.Err())
}

func TestTruncatedString(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteUint32(10)
	buf.WriteString("abc")

	r := NewReader(&buf)
	assert.Equal(t, "", r.ReadString())
	assert.ErrorIs(t, r.Err(), ErrTruncated)
}

func TestStringTooLong(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf).WriteUint32(MaxStringLen + 1)

	r := NewReader(&buf)
	r.ReadString()
	assert.ErrorIs(t, r.Err(), ErrStringTooLong)
}

func TestStringStopsAtNUL(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{5, 0, 0, 0, 'h', 'i', 0, 'x', 'x'}))
	assert.Equal(t, "hi", r.ReadString())
	require.NoError(t, r.Err())
}

func TestBadTag(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte("NOPE")))
	err := r.ReadTag("SKEL")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadTag))
	assert.Contains(t, err.Error(), `"NOPE"`)
}

func TestWriterRejectsNUL(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteString("arm\x00left")
	assert.ErrorIs(t, w.Err(), ErrStringNUL)
	assert.Zero(t, buf.Len())

	w.WriteUint32(7)
	assert.Zero(t, buf.Len(), "writer stays failed")
}

func TestWriterRejectsUnencodable(t *testing.T) {
	w := NewWriter(&bytes.Buffer{})
	w.WriteString("骨")
	assert.Error(t, w.Err())
}
