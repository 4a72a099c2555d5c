package anim

import (
	"time"

	"bonerig/internal/mathutil"
)

// Pose is a time-independent source: each named bone holds one local transform.
type Pose map[string]mathutil.Transform

func (p Pose) BoneTransform(name string, _ time.Duration) (mathutil.Transform, bool) {
	tr, ok := p[name]
	return tr, ok
}

// At freezes c at time t into a Pose.
func (c *Clip) At(t time.Duration) Pose {
	p := make(Pose, len(c.tracks))
	for _, tr := range c.tracks {
		if x, ok := c.BoneTransform(tr.Bone, t); ok {
			p[tr.Bone] = x
		}
	}
	return p
}
