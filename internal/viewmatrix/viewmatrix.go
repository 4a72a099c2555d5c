package viewmatrix

import (
	"fmt"
	"math"

	"bonerig/internal/mathutil"
)

// Camera returns the view rotation for a named preset. Rigs are Y-up;
// the view looks down -Z with X to the right.
func Camera(name string) (mathutil.Mat3, error) {
	switch name {
	case "front", "":
		return mathutil.Mat3Identity(), nil
	case "side":
		return mathutil.RotY(mathutil.Deg2Rad(-90)), nil
	case "top":
		return mathutil.RotX(mathutil.Deg2Rad(90)), nil
	case "iso":
		return mathutil.Mat3Mul(mathutil.RotX(mathutil.Deg2Rad(30)), mathutil.RotY(mathutil.Deg2Rad(-45))), nil
	case "zup":
		// Z-up rigs seen from the front.
		return mathutil.ZUpToYUp, nil
	}
	return mathutil.Mat3{}, fmt.Errorf("viewmatrix: unknown camera %q", name)
}

// Projection maps world points to canvas pixels: orthographic, y down,
// depth increasing toward the viewer.
type Projection struct {
	View   mathutil.Mat3
	Center mathutil.Vec3 // view-space center of the fitted points
	Scale  float64
	Size   int
}

// Fit centers the view-space bounds of points on a size×size canvas,
// leaving margin pixels on each side.
func Fit(view mathutil.Mat3, points []mathutil.Vec3, size, margin int) Projection {
	b := mathutil.EmptyAABB()
	for _, p := range points {
		b = b.ExpandPoint(view.MulVec3(p))
	}
	if b.IsEmpty() {
		b = mathutil.AABB{}
	}

	span := math.Max(b.Max[0]-b.Min[0], b.Max[1]-b.Min[1])
	if span < 0.001 {
		span = 0.001
	}
	usable := size - 2*margin
	if usable < 1 {
		usable = 1
	}
	return Projection{
		View:   view,
		Center: b.Center(),
		Scale:  float64(usable) / span,
		Size:   size,
	}
}

// Project returns screen X, screen Y and depth for a world point.
func (p Projection) Project(v mathutil.Vec3) (x, y, z float64) {
	t := p.View.MulVec3(v)
	half := float64(p.Size) / 2
	x = (t[0]-p.Center[0])*p.Scale + half
	y = -(t[1]-p.Center[1])*p.Scale + half
	return x, y, t[2]
}

// Unproject returns the world-space ray that passes through canvas pixel
// (x, y) looking into the scene.
func (p Projection) Unproject(x, y float64) mathutil.Ray {
	half := float64(p.Size) / 2
	vx := (x-half)/p.Scale + p.Center[0]
	vy := -(y-half)/p.Scale + p.Center[1]
	inv := p.View.Transpose()
	// Start well in front of everything that was fitted.
	origin := inv.MulVec3(mathutil.Vec3{vx, vy, p.Center[2] + 1e6})
	dir := inv.MulVec3(mathutil.Vec3{0, 0, -1})
	return mathutil.Ray{Origin: origin, Dir: dir}
}
