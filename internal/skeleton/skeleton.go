// Package skeleton holds a bone hierarchy and resamples its world pose
// against a bound animation source.
//
// A Skeleton is not safe for concurrent use. Animate mutates the bones that
// Bones returns; callers sharing a rig across goroutines must serialize
// access or give each goroutine its own Clone.
package skeleton

import (
	"fmt"
	"time"

	"bonerig/internal/mathutil"
)

// AnimationSource supplies interpolated local bone transforms.
// ok is false when the source has no data for the bone at t.
type AnimationSource interface {
	BoneTransform(name string, t time.Duration) (local mathutil.Transform, ok bool)
}

// Skeleton owns a flat, index-addressed bone list.
type Skeleton struct {
	bones    []BoneNode
	byName   map[string]int
	anim     AnimationSource
	lastTime time.Duration

	// evaluated is false until the first Animate and after SetAnim;
	// lastTime is meaningless while it is false.
	evaluated bool
}

// New builds a Skeleton from bones in index order. Index and Children are
// derived here; only Name, Parent, RestOffset and BoundingBox are read.
// It returns a *FormatError when a parent is out of range or the parent
// links form a cycle.
func New(bones []BoneNode) (*Skeleton, error) {
	s := &Skeleton{
		bones:    bones,
		byName:   make(map[string]int, len(bones)),
	}

	n := len(bones)
	for i := range s.bones {
		b := &s.bones[i]
		b.Index = i
		b.Children = nil
		if b.Parent != NoParent && (b.Parent < 0 || b.Parent >= n) {
			return nil, &FormatError{
				Op:  fmt.Sprintf("bone %d (%q)", i, b.Name),
				Err: fmt.Errorf("%w: %d not in [0,%d)", ErrParentRange, b.Parent, n),
			}
		}
		if _, dup := s.byName[b.Name]; !dup {
			s.byName[b.Name] = i
		}
		b.resetPose()
	}

	// Every root is reachable in fewer than n hops; anything longer loops.
	for i := range s.bones {
		p, hops := s.bones[i].Parent, 0
		for p != NoParent {
			hops++
			if hops > n {
				return nil, &FormatError{
					Op:  fmt.Sprintf("bone %d (%q)", i, s.bones[i].Name),
					Err: ErrCycle,
				}
			}
			p = s.bones[p].Parent
		}
	}

	for i := range s.bones {
		if p := s.bones[i].Parent; p != NoParent {
			s.bones[p].Children = append(s.bones[p].Children, i)
		}
	}
	return s, nil
}

// SetAnim binds src (nil unbinds) and forces the next Animate to recompute.
// The Skeleton does not own src.
func (s *Skeleton) SetAnim(src AnimationSource) {
	s.anim = src
	s.evaluated = false
}

// Anim returns the bound source, or nil.
func (s *Skeleton) Anim() AnimationSource {
	return s.anim
}

// Animate resamples every bone at t. Repeated calls with the time of the
// last evaluation return immediately.
func (s *Skeleton) Animate(t time.Duration) {
	if s.evaluated && t == s.lastTime {
		return
	}
	for i := range s.bones {
		if s.bones[i].IsRoot() {
			s.setNode(t, i, nil)
		}
	}
	s.lastTime = t
	s.evaluated = true
}

// setNode computes bone idx's world pose from its parent's, then descends.
func (s *Skeleton) setNode(t time.Duration, idx int, parent *BoneNode) {
	bone := &s.bones[idx]

	local := mathutil.Identity()
	if s.anim != nil {
		if tr, ok := s.anim.BoneTransform(bone.Name, t); ok {
			local = tr
		}
	}

	world := local
	if parent != nil {
		world = mathutil.Compose(parent.World(), local)
	}
	bone.AnimPos = world.Pos
	bone.AnimRot = world.Rot
	bone.WorldBox = bone.BoundingBox.Transform(world)

	for _, c := range bone.Children {
		s.setNode(t, c, bone)
	}
}

// Bones returns the bone list in index order. The slice aliases the
// Skeleton's storage and is rewritten by Animate.
func (s *Skeleton) Bones() []BoneNode {
	return s.bones
}

func (s *Skeleton) Len() int {
	return len(s.bones)
}

// Bone returns the bone at index i, or nil when i is out of range.
func (s *Skeleton) Bone(i int) *BoneNode {
	if i < 0 || i >= len(s.bones) {
		return nil
	}
	return &s.bones[i]
}

// BoneIndex returns the index of the first bone called name, or -1.
func (s *Skeleton) BoneIndex(name string) int {
	if i, ok := s.byName[name]; ok {
		return i
	}
	return -1
}

// Roots lists the indices of bones without a parent.
func (s *Skeleton) Roots() []int {
	var roots []int
	for i := range s.bones {
		if s.bones[i].IsRoot() {
			roots = append(roots, i)
		}
	}
	return roots
}

// Depth returns the number of ancestors of bone i.
func (s *Skeleton) Depth(i int) int {
	d := 0
	for p := s.bones[i].Parent; p != NoParent; p = s.bones[p].Parent {
		d++
	}
	return d
}

// IntersectRay returns the lowest-indexed bone whose world box the ray hits.
func (s *Skeleton) IntersectRay(ray mathutil.Ray) (int, bool) {
	for i := range s.bones {
		if s.bones[i].IntersectRay(ray) {
			return i, true
		}
	}
	return -1, false
}

// Clone returns an independent copy of the hierarchy and current pose.
// The bound animation source is shared, not copied.
func (s *Skeleton) Clone() *Skeleton {
	c := &Skeleton{
		bones:     make([]BoneNode, len(s.bones)),
		byName:    s.byName,
		anim:      s.anim,
		lastTime:  s.lastTime,
		evaluated: s.evaluated,
	}
	copy(c.bones, s.bones)
	for i := range c.bones {
		c.bones[i].Children = append([]int(nil), s.bones[i].Children...)
	}
	return c
}
