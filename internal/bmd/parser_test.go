package bmd

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bonerig/internal/mathutil"
)

type builder struct {
	bytes.Buffer
}

func (b *builder) le(v any) {
	_ = binary.Write(&b.Buffer, binary.LittleEndian, v)
}

func (b *builder) name(s string) {
	var buf [nameLen]byte
	copy(buf[:], s)
	b.Write(buf[:])
}

func (b *builder) vec(x, y, z float32) {
	b.le([3]float32{x, y, z})
}

// sample is a plain BMD with one mesh, one two-key action and three bones:
// root, arm (child of root) and a trailing dummy.
func sample(version byte) []byte {
	var b builder
	b.WriteString("BMD")
	b.WriteByte(version)
	b.name("hero")
	b.le([3]uint16{1, 3, 1})

	b.le([5]int16{3, 1, 1, 1, 0})
	for _, v := range []struct {
		node    int16
		x, y, z float32
	}{
		{0, -1, -1, -1},
		{0, 1, 2, 3},
		{1, 0, 0, 0.5},
	} {
		b.le([2]int16{v.node, 0})
		b.vec(v.x, v.y, v.z)
	}
	b.Write(make([]byte, 20+8+triSize))
	b.name(`tex\body.jpg`)

	b.le(int16(2))
	b.WriteByte(0)

	b.WriteByte(0)
	b.name("root")
	b.le(int16(-1))
	b.vec(0, 0, 0)
	b.vec(0, 0, 0)
	b.vec(0, 0, 0)
	b.vec(0, 0, 0)

	b.WriteByte(0)
	b.name("arm")
	b.le(int16(0))
	b.vec(3, 0, 0)
	b.vec(3, 0, 0)
	b.vec(0, 0, 0)
	b.vec(0, 0, math.Pi/2)

	b.WriteByte(1)
	return b.Bytes()
}

func TestDecode(t *testing.T) {
	m, err := Decode(sample(10))
	require.NoError(t, err)

	assert.Equal(t, "hero", m.Name)
	require.Len(t, m.Meshes, 1)
	assert.Equal(t, "tex/body.jpg", m.Meshes[0].TexPath)
	assert.Equal(t, []int16{0, 0, 1}, m.Meshes[0].Nodes)
	assert.Equal(t, []Action{{Keys: 2}}, m.Actions)

	require.Len(t, m.Bones, 3)
	assert.Equal(t, "arm", m.Bones[1].Name)
	assert.Equal(t, 0, m.Bones[1].Parent)
	assert.Equal(t, [3]float32{0, 0, math.Pi / 2}, m.Bones[1].Frames[0][1].Rot)
	assert.True(t, m.Bones[2].Dummy)
}

func TestDecodeLockedPositions(t *testing.T) {
	raw := sample(10)
	// Flip the action's lock flag and splice in two root-motion positions.
	off := 4 + nameLen + 6 + 10 + 3*16 + 20 + 8 + triSize + nameLen
	require.Equal(t, byte(2), raw[off])
	var patched []byte
	patched = append(patched, raw[:off+2]...)
	patched = append(patched, 1)
	patched = append(patched, make([]byte, 2*12)...)
	patched = append(patched, raw[off+3:]...)

	m, err := Decode(patched)
	require.NoError(t, err)
	assert.True(t, m.Actions[0].LockPos)
	assert.Equal(t, "arm", m.Bones[1].Name)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte("XYZ\x0a"))
	assert.ErrorIs(t, err, ErrHeader)

	_, err = Decode(sample(12))
	assert.ErrorIs(t, err, ErrEncrypted)
	_, err = Decode(sample(15))
	assert.ErrorIs(t, err, ErrEncrypted)

	raw := sample(10)
	_, err = Decode(raw[:len(raw)-5])
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestSkeletonFromModel(t *testing.T) {
	m, err := Decode(sample(10))
	require.NoError(t, err)

	skel, err := m.Skeleton()
	require.NoError(t, err)
	require.Equal(t, 3, skel.Len())

	root := skel.Bone(0)
	assert.True(t, root.IsRoot())
	assert.Equal(t, mathutil.AABB{Min: mathutil.Vec3{-1, -1, -1}, Max: mathutil.Vec3{1, 2, 3}}, root.BoundingBox)
	assert.Equal(t, []int{1}, root.Children)

	arm := skel.Bone(1)
	assert.Equal(t, float32(3), arm.RestOffset)
	assert.Equal(t, mathutil.AABB{Min: mathutil.Vec3{0, 0, 0.5}, Max: mathutil.Vec3{0, 0, 0.5}}, arm.BoundingBox)

	dummy := skel.Bone(2)
	assert.Equal(t, "bone_002", dummy.Name)
	assert.True(t, dummy.IsRoot())
	assert.Equal(t, mathutil.AABB{}, dummy.BoundingBox)
}

func TestClipDrivesSkeleton(t *testing.T) {
	m, err := Decode(sample(10))
	require.NoError(t, err)
	skel, err := m.Skeleton()
	require.NoError(t, err)

	clip, err := m.Clip(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2*DefaultFrameTime, clip.Duration)
	assert.Len(t, clip.Tracks(), 2)

	skel.SetAnim(clip)
	skel.Animate(0)
	assert.True(t, skel.Bone(1).AnimPos.ApproxEqual(mathutil.Vec3{3, 0, 0}, 1e-9))

	skel.Animate(DefaultFrameTime)
	got := mathutil.Rotate(skel.Bone(1).AnimRot, mathutil.Vec3{1, 0, 0})
	assert.True(t, got.ApproxEqual(mathutil.Vec3{0, 1, 0}, 1e-6))

	_, err = m.Clip(1, 0)
	assert.Error(t, err)
}

func TestLoopingActionBlendsBackToFirstKey(t *testing.T) {
	m, err := Decode(sample(10))
	require.NoError(t, err)
	skel, err := m.Skeleton()
	require.NoError(t, err)

	clip, err := m.Clip(0, 0)
	require.NoError(t, err)
	clip.Loop = true
	skel.SetAnim(clip)

	// Halfway between the last key (90°) and the wrapped first key (0°).
	skel.Animate(DefaultFrameTime + DefaultFrameTime/2)
	got := mathutil.Rotate(skel.Bone(1).AnimRot, mathutil.Vec3{1, 0, 0})
	h := math.Sqrt2 / 2
	assert.True(t, got.ApproxEqual(mathutil.Vec3{h, h, 0}, 1e-6), "got %v", got)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hero.bmd")
	require.NoError(t, os.WriteFile(path, sample(10), 0o644))

	m, err := Parse(path)
	require.NoError(t, err)
	assert.Len(t, m.Bones, 3)

	_, err = Parse(filepath.Join(t.TempDir(), "missing.bmd"))
	assert.Error(t, err)
}
