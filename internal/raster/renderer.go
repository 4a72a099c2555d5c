package raster

import (
	"image"
	"image/color"

	"bonerig/internal/mathutil"
	"bonerig/internal/skeleton"
	"bonerig/internal/viewmatrix"
)

// Options controls RenderPose.
type Options struct {
	Size        int // output edge in pixels, before supersampling
	Supersample int
	Margin      int // pixels kept clear on each side, before supersampling
	Highlight   int // bone drawn in HighlightColor; -1 for none
}

// HighlightColor marks a picked bone.
var HighlightColor = color.NRGBA{R: 235, G: 70, B: 60, A: 255}

// palette colors bones by hierarchy depth.
var palette = []color.NRGBA{
	{R: 170, G: 175, B: 190, A: 255},
	{R: 120, G: 160, B: 215, A: 255},
	{R: 110, G: 190, B: 150, A: 255},
	{R: 215, G: 185, B: 105, A: 255},
	{R: 185, G: 130, B: 200, A: 255},
}

// boxFaces lists each face of an AABB as corner indices (see AABB.Corners).
var boxFaces = [6][4]int{
	{0, 2, 6, 4}, // -X
	{1, 5, 7, 3}, // +X
	{0, 4, 5, 1}, // -Y
	{2, 3, 7, 6}, // +Y
	{0, 1, 3, 2}, // -Z
	{4, 6, 7, 5}, // +Z
}

// FitPose returns the projection RenderPose uses for a size×size canvas.
func FitPose(skel *skeleton.Skeleton, view mathutil.Mat3, size, margin int) viewmatrix.Projection {
	bones := skel.Bones()
	pts := make([]mathutil.Vec3, 0, len(bones)*9)
	for i := range bones {
		pts = append(pts, bones[i].AnimPos)
		if !bones[i].WorldBox.IsEmpty() {
			c := bones[i].WorldBox.Corners()
			pts = append(pts, c[:]...)
		}
	}
	return viewmatrix.Fit(view, pts, size, margin)
}

// RenderPose draws the world box of every bone at its current pose.
// The skeleton must already be animated for the wanted time.
func RenderPose(skel *skeleton.Skeleton, view mathutil.Mat3, opt Options) *image.NRGBA {
	ss := opt.Supersample
	if ss < 1 {
		ss = 1
	}
	renderSize := opt.Size * ss
	proj := FitPose(skel, view, renderSize, opt.Margin*ss)

	fb := NewFrameBuffer(renderSize, renderSize)
	lc := DefaultLightConfig()

	bones := skel.Bones()
	for i := range bones {
		b := &bones[i]
		if b.WorldBox.IsEmpty() {
			continue
		}

		var scr [8][3]float64
		for k, c := range b.WorldBox.Corners() {
			x, y, z := proj.Project(c)
			scr[k] = [3]float64{x, y, z}
		}

		col := palette[skel.Depth(i)%len(palette)]
		if i == opt.Highlight {
			col = HighlightColor
		}

		for _, f := range boxFaces {
			RasterizeTriangle(fb, [3][3]float64{scr[f[0]], scr[f[1]], scr[f[2]]}, col, &lc)
			RasterizeTriangle(fb, [3][3]float64{scr[f[0]], scr[f[2]], scr[f[3]]}, col, &lc)
		}
	}

	return fb.Image()
}
