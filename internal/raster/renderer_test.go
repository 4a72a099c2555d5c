package raster

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bonerig/internal/mathutil"
	"bonerig/internal/skeleton"
)

func TestRasterizeTriangleDepthTest(t *testing.T) {
	fb := NewFrameBuffer(8, 8)
	lc := DefaultLightConfig()
	far := [3][3]float64{{0, 0, 0}, {8, 0, 0}, {0, 8, 0}}
	near := [3][3]float64{{0, 0, 1}, {8, 0, 1}, {0, 8, 1}}

	RasterizeTriangle(fb, near, color.NRGBA{R: 255, A: 255}, &lc)
	red := fb.Color[0]
	RasterizeTriangle(fb, far, color.NRGBA{B: 255, A: 255}, &lc)

	assert.Equal(t, uint8(255), fb.Color[3])
	assert.Equal(t, red, fb.Color[0], "farther triangle must not overwrite")
	assert.Zero(t, fb.Color[(7*8+7)*4+3], "outside the triangle stays transparent")
}

func TestRenderPoseDrawsBones(t *testing.T) {
	box := mathutil.AABB{Min: mathutil.Vec3{-0.5, -0.5, -0.5}, Max: mathutil.Vec3{0.5, 0.5, 0.5}}
	s, err := skeleton.New([]skeleton.BoneNode{
		{Name: "root", Parent: skeleton.NoParent, BoundingBox: box},
		{Name: "tip", Parent: 0, BoundingBox: box},
	})
	require.NoError(t, err)
	s.Animate(0)

	img := RenderPose(s, mathutil.Mat3Identity(), Options{Size: 32, Supersample: 1, Margin: 2, Highlight: 1})
	require.Equal(t, 32, img.Bounds().Dx())

	center := img.NRGBAAt(16, 16)
	assert.Equal(t, uint8(255), center.A)
	assert.Zero(t, img.NRGBAAt(0, 0).A)
}

type offsets map[string]mathutil.Transform

func (o offsets) BoneTransform(name string, _ time.Duration) (mathutil.Transform, bool) {
	tr, ok := o[name]
	return tr, ok
}

func TestRenderPoseColorsByDepth(t *testing.T) {
	box := mathutil.AABB{Min: mathutil.Vec3{-0.5, -0.5, -0.5}, Max: mathutil.Vec3{0.5, 0.5, 0.5}}
	s, err := skeleton.New([]skeleton.BoneNode{
		{Name: "root", Parent: skeleton.NoParent, BoundingBox: box},
		{Name: "tip", Parent: 0, BoundingBox: box},
	})
	require.NoError(t, err)
	s.SetAnim(offsets{"tip": {Pos: mathutil.Vec3{2, 0, 0}, Rot: mathutil.Identity().Rot}})
	s.Animate(0)

	img := RenderPose(s, mathutil.Mat3Identity(), Options{Size: 32, Supersample: 1, Margin: 2, Highlight: -1})

	root, tip := img.NRGBAAt(7, 16), img.NRGBAAt(25, 16)
	require.Equal(t, uint8(255), root.A)
	require.Equal(t, uint8(255), tip.A)
	assert.NotEqual(t, root, tip, "depth 0 and depth 1 use different palette entries")
}

func TestRenderPoseEmpty(t *testing.T) {
	s, err := skeleton.New(nil)
	require.NoError(t, err)
	img := RenderPose(s, mathutil.Mat3Identity(), Options{Size: 16})
	assert.Equal(t, 16, img.Bounds().Dy())
	for i := 3; i < len(img.Pix); i += 4 {
		require.Zero(t, img.Pix[i])
	}
}
