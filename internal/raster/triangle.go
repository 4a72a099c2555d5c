package raster

import (
	"image/color"
	"math"

	"bonerig/internal/mathutil"
)

// RasterizeTriangle fills one flat-shaded, z-buffered triangle.
// Vertices are (screen x, screen y, depth); larger depth is nearer.
func RasterizeTriangle(fb *FrameBuffer, v [3][3]float64, base color.NRGBA, lc *LightConfig) {
	x0, y0, z0 := v[0][0], v[0][1], v[0][2]
	x1, y1, z1 := v[1][0], v[1][1], v[1][2]
	x2, y2, z2 := v[2][0], v[2][1], v[2][2]

	// Face normal for flat shading
	e1 := mathutil.Vec3{x1 - x0, y1 - y0, z1 - z0}
	e2 := mathutil.Vec3{x2 - x0, y2 - y0, z2 - z0}
	n := e1.Cross(e2)
	nl := n.Len()
	if nl < 1e-8 {
		return
	}
	// Screen y points down; flip it back so the lights read in view space.
	shade := lc.ComputeShade(mathutil.Vec3{n[0] / nl, -n[1] / nl, n[2] / nl})

	// Shaded color is the same for the whole face.
	exposure := lc.Exposure
	invGamma := lc.InvGamma
	cr := clamp255(math.Pow(ACESTonemap(srgbToLinear[base.R]*shade*exposure), invGamma) * 255)
	cg := clamp255(math.Pow(ACESTonemap(srgbToLinear[base.G]*shade*exposure), invGamma) * 255)
	cb := clamp255(math.Pow(ACESTonemap(srgbToLinear[base.B]*shade*exposure), invGamma) * 255)

	// Bounding box
	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = cr
			fb.Color[pxIdx+1] = cg
			fb.Color[pxIdx+2] = cb
			fb.Color[pxIdx+3] = base.A
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
