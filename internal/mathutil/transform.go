package mathutil

import "github.com/go-gl/mathgl/mgl64"

// Transform is a rigid transform: rotate by Rot, then translate by Pos.
type Transform struct {
	Pos Vec3
	Rot mgl64.Quat
}

// Identity returns the transform with no displacement and no rotation.
func Identity() Transform {
	return Transform{Rot: mgl64.QuatIdent()}
}

// Compose returns parent followed by local: the local translation is expressed
// in the parent's frame, and the rotations stack parent-first.
func Compose(parent, local Transform) Transform {
	return Transform{
		Pos: parent.Pos.Add(Rotate(parent.Rot, local.Pos)),
		Rot: parent.Rot.Mul(local.Rot).Normalize(),
	}
}

// Apply maps a point from the transform's local frame into its parent frame.
func (t Transform) Apply(p Vec3) Vec3 {
	return t.Pos.Add(Rotate(t.Rot, p))
}

// Mat4 returns the transform as a row-major affine matrix.
func (t Transform) Mat4() Mat4 {
	return FromMat3Translation(QuatToMat3(t.Rot), t.Pos)
}

// Interpolate blends a toward b: linear on position, spherical on rotation.
func Interpolate(a, b Transform, f float64) Transform {
	return Transform{
		Pos: a.Pos.Add(b.Pos.Sub(a.Pos).Scale(f)),
		Rot: Slerp(a.Rot, b.Rot, f),
	}
}

// ApproxEqual compares positions component-wise and rotations up to sign.
func (t Transform) ApproxEqual(o Transform, eps float64) bool {
	if !t.Pos.ApproxEqual(o.Pos, eps) {
		return false
	}
	r := o.Rot
	if t.Rot.Dot(r) < 0 {
		r = r.Scale(-1)
	}
	return t.Rot.ApproxEqualThreshold(r, eps)
}
