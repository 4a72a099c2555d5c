package viewmatrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bonerig/internal/mathutil"
)

func TestCameraPresets(t *testing.T) {
	for _, name := range []string{"front", "side", "top", "iso", "zup"} {
		m, err := Camera(name)
		require.NoError(t, err, name)
		r0, r1, r2 := mathutil.Vec3{m[0], m[1], m[2]}, mathutil.Vec3{m[3], m[4], m[5]}, mathutil.Vec3{m[6], m[7], m[8]}
		assert.InDelta(t, 1, r0.Len(), 1e-9, name)
		assert.InDelta(t, 1, r1.Len(), 1e-9, name)
		assert.True(t, r0.Cross(r1).ApproxEqual(r2, 1e-9), "%s is not a right-handed rotation", name)
	}
	_, err := Camera("fisheye")
	assert.Error(t, err)
}

func TestFitCentersPoints(t *testing.T) {
	pts := []mathutil.Vec3{{-1, -1, 0}, {1, 1, 0}}
	p := Fit(mathutil.Mat3Identity(), pts, 100, 10)

	x, y, _ := p.Project(mathutil.Vec3{0, 0, 0})
	assert.InDelta(t, 50, x, 1e-9)
	assert.InDelta(t, 50, y, 1e-9)

	x, y, _ = p.Project(mathutil.Vec3{1, 1, 0})
	assert.InDelta(t, 90, x, 1e-9)
	assert.InDelta(t, 10, y, 1e-9, "y grows downward")
}

func TestUnprojectHitsProjectedPoint(t *testing.T) {
	view, err := Camera("iso")
	require.NoError(t, err)
	box := mathutil.AABB{Min: mathutil.Vec3{2, 3, 4}, Max: mathutil.Vec3{3, 4, 5}}
	p := Fit(view, []mathutil.Vec3{{-5, -5, -5}, {5, 5, 5}}, 200, 0)

	x, y, _ := p.Project(box.Center())
	assert.True(t, p.Unproject(x, y).IntersectAABB(box))
	assert.False(t, p.Unproject(x+60, y).IntersectAABB(box))
}

func TestFitEmpty(t *testing.T) {
	p := Fit(mathutil.Mat3Identity(), nil, 64, 4)
	x, y, _ := p.Project(mathutil.Vec3{})
	assert.InDelta(t, 32, x, 1e-9)
	assert.InDelta(t, 32, y, 1e-9)
}
