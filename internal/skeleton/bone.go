package skeleton

import (
	"github.com/go-gl/mathgl/mgl64"

	"bonerig/internal/mathutil"
)

// NoParent is the Parent value of a root bone.
const NoParent = -1

// BoneNode is one rigid segment of a Skeleton. Hierarchy links are indices
// into the owning Skeleton's bone slice.
type BoneNode struct {
	Name     string
	Index    int
	Parent   int
	Children []int

	// RestOffset is stored and written back verbatim; its meaning in the
	// file format is not known.
	RestOffset float32

	// AnimPos and AnimRot hold the world-space pose after Skeleton.Animate,
	// not the local sample.
	AnimPos mathutil.Vec3
	AnimRot mgl64.Quat

	// BoundingBox is in the bone's own frame and never changes after load.
	BoundingBox mathutil.AABB
	// WorldBox is BoundingBox carried through the current world transform.
	WorldBox mathutil.AABB
}

func (b *BoneNode) IsRoot() bool {
	return b.Parent == NoParent
}

// World returns the current world transform.
func (b *BoneNode) World() mathutil.Transform {
	return mathutil.Transform{Pos: b.AnimPos, Rot: b.AnimRot}
}

// IntersectRay performs a collision test of the ray against the bone's
// world-space bounding box. Only hit/miss is reported; picking the nearest
// of several bones is up to the caller.
func (b *BoneNode) IntersectRay(ray mathutil.Ray) bool {
	return ray.IntersectAABB(b.WorldBox)
}

func (b *BoneNode) resetPose() {
	b.AnimPos = mathutil.Vec3{}
	b.AnimRot = mgl64.QuatIdent()
	b.WorldBox = b.BoundingBox
}
