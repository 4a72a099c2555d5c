package skeleton

import (
	"bytes"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"bonerig/internal/archive"
	"bonerig/internal/mathutil"
)

type record struct {
	name   string
	parent int32
	rest   float32
	box    [6]float32
}

func encode(t *testing.T, tag string, recs []record) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	w := archive.NewWriter(&buf)
	w.WriteTag(tag)
	w.WriteUint32(uint32(len(recs)))
	for _, r := range recs {
		w.WriteString(r.name)
		w.WriteInt32(r.parent)
		w.WriteFloat32(r.rest)
		for _, f := range r.box {
			w.WriteFloat32(f)
		}
	}
	require.NoError(t, w.Err())
	return &buf
}

func unitBox() [6]float32 {
	return [6]float32{-0.5, -0.5, -0.5, 0.5, 0.5, 0.5}
}

func chain(t *testing.T) *Skeleton {
	t.Helper()
	buf := encode(t, Tag, []record{
		{name: "root", parent: -1, box: unitBox()},
		{name: "child", parent: 0, box: unitBox()},
		{name: "grandchild", parent: 1, box: unitBox()},
	})
	s, err := ReadFromStream(archive.NewReader(buf))
	require.NoError(t, err)
	return s
}

// countingSource returns the same local transform for every bone it knows
// and records how many samples were taken.
type countingSource struct {
	local mathutil.Transform
	only  map[string]bool
	calls int
}

func (c *countingSource) BoneTransform(name string, _ time.Duration) (mathutil.Transform, bool) {
	c.calls++
	if c.only != nil && !c.only[name] {
		return mathutil.Transform{}, false
	}
	return c.local, true
}

func translate(x, y, z float64) mathutil.Transform {
	return mathutil.Transform{Pos: mathutil.Vec3{x, y, z}, Rot: mgl64.QuatIdent()}
}
