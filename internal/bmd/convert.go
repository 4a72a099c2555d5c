package bmd

import (
	"fmt"
	"math"
	"time"

	"bonerig/internal/anim"
	"bonerig/internal/mathutil"
	"bonerig/internal/skeleton"
)

// DefaultFrameTime is the spacing between consecutive action keys.
const DefaultFrameTime = 40 * time.Millisecond

// BoneName returns the name used for bone i in the converted skeleton.
// Dummy and unnamed bones get a positional name so that clip tracks can
// still address them.
func (m *Model) BoneName(i int) string {
	b := m.Bones[i]
	if b.Dummy || b.Name == "" {
		return fmt.Sprintf("bone_%03d", i)
	}
	return b.Name
}

// Skeleton builds a skeleton from the bone hierarchy. Each bone's bounding
// box encloses the mesh vertices bound to it; bones without vertices get a
// degenerate box at their origin. RestOffset is the length of the bone's
// first key position.
func (m *Model) Skeleton() (*skeleton.Skeleton, error) {
	boxes := m.boneBoxes()
	nodes := make([]skeleton.BoneNode, len(m.Bones))
	for i, b := range m.Bones {
		parent := b.Parent
		if b.Dummy || parent < 0 {
			parent = skeleton.NoParent
		}
		nodes[i] = skeleton.BoneNode{
			Name:        m.BoneName(i),
			Parent:      parent,
			RestOffset:  restOffset(b),
			BoundingBox: boxes[i],
		}
	}
	return skeleton.New(nodes)
}

func (m *Model) boneBoxes() []mathutil.AABB {
	boxes := make([]mathutil.AABB, len(m.Bones))
	for i := range boxes {
		boxes[i] = mathutil.EmptyAABB()
	}
	for _, mesh := range m.Meshes {
		for j, v := range mesh.Verts {
			n := int(mesh.Nodes[j])
			if n < 0 || n >= len(boxes) {
				continue
			}
			boxes[n] = boxes[n].ExpandPoint(vec(v))
		}
	}
	for i := range boxes {
		if boxes[i].IsEmpty() {
			boxes[i] = mathutil.AABB{}
		}
	}
	return boxes
}

func restOffset(b Bone) float32 {
	if len(b.Frames) == 0 || len(b.Frames[0]) == 0 {
		return 0
	}
	p := b.Frames[0][0].Pos
	return float32(math.Sqrt(float64(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])))
}

// Clip converts one action into a clip with keys spaced frameTime apart.
// The clip's duration covers every key plus one interval so that a looping
// clip blends from the last key back into the first.
func (m *Model) Clip(action int, frameTime time.Duration) (*anim.Clip, error) {
	if action < 0 || action >= len(m.Actions) {
		return nil, fmt.Errorf("bmd: action %d out of range [0,%d)", action, len(m.Actions))
	}
	if frameTime <= 0 {
		frameTime = DefaultFrameTime
	}

	var tracks []anim.Track
	for i, b := range m.Bones {
		if b.Dummy || action >= len(b.Frames) || len(b.Frames[action]) == 0 {
			continue
		}
		frames := b.Frames[action]
		keys := make([]anim.Key, len(frames))
		for k, f := range frames {
			keys[k] = anim.Key{
				Time: time.Duration(k) * frameTime,
				Pos:  vec(f.Pos),
				Rot:  mathutil.EulerToQuat(float64(f.Rot[0]), float64(f.Rot[1]), float64(f.Rot[2])),
			}
		}
		tracks = append(tracks, anim.Track{Bone: m.BoneName(i), Keys: keys})
	}

	duration := time.Duration(m.Actions[action].Keys) * frameTime
	return anim.NewClip(duration, tracks), nil
}

func vec(v [3]float32) mathutil.Vec3 {
	return mathutil.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}
