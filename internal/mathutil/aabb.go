package mathutil

import "math"

// AABB is an axis-aligned box given by its minimum and maximum corners.
type AABB struct {
	Min Vec3
	Max Vec3
}

// EmptyAABB returns a box that contains nothing; expanding it by a point
// yields the degenerate box at that point.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty is true when max < min on any axis.
func (b AABB) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// ExpandPoint grows the box to include p.
func (b AABB) ExpandPoint(p Vec3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Corners lists the eight corners; bit 0 of the index selects max X,
// bit 1 max Y and bit 2 max Z.
func (b AABB) Corners() [8]Vec3 {
	var c [8]Vec3
	for i := 0; i < 8; i++ {
		for k := 0; k < 3; k++ {
			if i&(1<<k) != 0 {
				c[i][k] = b.Max[k]
			} else {
				c[i][k] = b.Min[k]
			}
		}
	}
	return c
}

// Transform returns the axis-aligned box enclosing all eight corners of b
// after mapping them through t.
func (b AABB) Transform(t Transform) AABB {
	if b.IsEmpty() {
		return b
	}
	out := EmptyAABB()
	for _, c := range b.Corners() {
		out = out.ExpandPoint(t.Apply(c))
	}
	return out
}
