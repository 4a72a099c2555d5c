package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// EulerToQuat converts Euler XYZ (radians) to a quaternion.
func EulerToQuat(rx, ry, rz float64) mgl64.Quat {
	cx, sx := math.Cos(rx*0.5), math.Sin(rx*0.5)
	cy, sy := math.Cos(ry*0.5), math.Sin(ry*0.5)
	cz, sz := math.Cos(rz*0.5), math.Sin(rz*0.5)

	return mgl64.Quat{
		W: cx*cy*cz + sx*sy*sz,
		V: mgl64.Vec3{
			sx*cy*cz - cx*sy*sz,
			cx*sy*cz + sx*cy*sz,
			cx*cy*sz - sx*sy*cz,
		},
	}
}

// QuatToMat3 converts a unit quaternion to a row-major 3×3 rotation matrix.
func QuatToMat3(q mgl64.Quat) Mat3 {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.W
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return Mat3{
		1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy),
		2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx),
		2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy),
	}
}

// Rotate applies q to v.
func Rotate(q mgl64.Quat, v Vec3) Vec3 {
	return Vec3(q.Rotate(mgl64.Vec3(v)))
}

// QuatFromXYZW builds a quaternion from the (x, y, z, w) order used on disk.
// A zero quaternion is read as identity.
func QuatFromXYZW(x, y, z, w float64) mgl64.Quat {
	q := mgl64.Quat{W: w, V: mgl64.Vec3{x, y, z}}
	if q.Len() < Epsilon {
		return mgl64.QuatIdent()
	}
	return q.Normalize()
}

// Slerp interpolates along the shorter arc between a and b.
func Slerp(a, b mgl64.Quat, f float64) mgl64.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatSlerp(a, b, f)
}
