package mathutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Ray is a half-line Origin + t·Dir for t >= 0. Dir need not be normalized.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point at parameter t.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// SlabInterval clips the ray's parametric line against each pair of
// axis-aligned planes of b in turn. It returns the surviving interval and
// false when the line misses the box or the box lies entirely behind the origin.
func (r Ray) SlabInterval(b AABB) (tmin, tmax float64, ok bool) {
	if b.IsEmpty() {
		return 0, 0, false
	}
	tmin, tmax = math.Inf(-1), math.Inf(1)

	for k := 0; k < 3; k++ {
		o, d := r.Origin[k], r.Dir[k]
		if math.Abs(d) < Epsilon {
			// Parallel to this slab: the origin must already be between its planes.
			if o < b.Min[k] || o > b.Max[k] {
				return 0, 0, false
			}
			continue
		}
		inv := 1 / d
		t1 := (b.Min[k] - o) * inv
		t2 := (b.Max[k] - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, 0, false
		}
	}

	if tmax < 0 {
		return 0, 0, false
	}
	return tmin, tmax, true
}

// IntersectAABB reports whether the ray meets b at some t >= 0.
func (r Ray) IntersectAABB(b AABB) bool {
	_, _, ok := r.SlabInterval(b)
	return ok
}

// Entry returns the distance and point where the ray first touches b.
// A ray that starts inside the box enters at its origin (t = 0).
func (r Ray) Entry(b AABB) (float64, Vec3, bool) {
	tmin, _, ok := r.SlabInterval(b)
	if !ok {
		return 0, Vec3{}, false
	}
	t := math.Max(tmin, 0)
	return t, r.At(t), true
}

// ParseRay reads "ox,oy,oz,dx,dy,dz".
func ParseRay(s string) (Ray, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 6 {
		return Ray{}, fmt.Errorf("ray %q: want 6 comma-separated numbers, got %d", s, len(parts))
	}
	var v [6]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Ray{}, fmt.Errorf("ray %q: %w", s, err)
		}
		v[i] = f
	}
	r := Ray{Origin: Vec3{v[0], v[1], v[2]}, Dir: Vec3{v[3], v[4], v[5]}}
	if r.Dir.Len() < Epsilon {
		return Ray{}, fmt.Errorf("ray %q: zero direction", s)
	}
	return r, nil
}
