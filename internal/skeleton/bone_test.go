package skeleton

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bonerig/internal/mathutil"
)

func TestBoneIntersectRay(t *testing.T) {
	s := chain(t)
	s.SetAnim(&countingSource{local: translate(0, 0, 4)})
	s.Animate(0)
	b := &s.Bones()[0]
	center := b.WorldBox.Center()
	assert.True(t, center.ApproxEqual(mathutil.Vec3{0, 0, 4}, 1e-9))

	tests := []struct {
		name string
		ray  mathutil.Ray
		hit  bool
	}{
		{"through center", mathutil.Ray{Origin: mathutil.Vec3{-10, 0, 4}, Dir: mathutil.Vec3{1, 0, 0}}, true},
		{"from above", mathutil.Ray{Origin: mathutil.Vec3{0, 0, 20}, Dir: mathutil.Vec3{0, 0, -1}}, true},
		{"parallel offset beyond extent", mathutil.Ray{Origin: mathutil.Vec3{-10, 2, 6}, Dir: mathutil.Vec3{1, 0, 0}}, false},
		{"rest box position", mathutil.Ray{Origin: mathutil.Vec3{-10, 0, 0}, Dir: mathutil.Vec3{1, 0, 0}}, false},
		{"behind origin", mathutil.Ray{Origin: mathutil.Vec3{10, 0, 4}, Dir: mathutil.Vec3{1, 0, 0}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hit, b.IntersectRay(tt.ray))
		})
	}
}

func TestBoneWorldMatrix(t *testing.T) {
	s := chain(t)
	s.SetAnim(&countingSource{local: translate(1, 2, 3)})
	s.Animate(0)
	m := s.Bones()[1].World().Mat4()
	assert.True(t, mathutil.Vec3{m[3], m[7], m[11]}.ApproxEqual(mathutil.Vec3{2, 4, 6}, 1e-12))
}
