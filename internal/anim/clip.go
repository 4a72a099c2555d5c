// Package anim provides animation sources for skeleton.Skeleton: keyframed
// clips read from disk and static poses.
package anim

import (
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"bonerig/internal/mathutil"
)

// Key is one authored sample of a bone's local transform.
type Key struct {
	Time time.Duration
	Pos  mathutil.Vec3
	Rot  mgl64.Quat
}

func (k Key) transform() mathutil.Transform {
	return mathutil.Transform{Pos: k.Pos, Rot: k.Rot}
}

// Track is the key list for one bone, sorted by time.
type Track struct {
	Bone string
	Keys []Key
}

// Clip is a set of per-bone tracks. A Clip is read-only after construction
// and may be shared by several skeletons, including across goroutines.
type Clip struct {
	Duration time.Duration
	// Loop wraps sample times into [0, Duration).
	Loop bool

	tracks []Track
	byBone map[string]int
}

// NewClip indexes tracks by bone name. Keys must already be sorted by time.
func NewClip(duration time.Duration, tracks []Track) *Clip {
	c := &Clip{
		Duration: duration,
		tracks:   tracks,
		byBone:   make(map[string]int, len(tracks)),
	}
	for i, tr := range tracks {
		c.byBone[tr.Bone] = i
	}
	return c
}

func (c *Clip) Tracks() []Track {
	return c.tracks
}

// BoneTransform samples the named bone at t. Times before the first key
// hold the first key and times after the last hold the last; in between,
// position is interpolated linearly and rotation spherically. A looping
// clip instead blends from the last key back into the first across the
// gap between the last key and Duration.
func (c *Clip) BoneTransform(name string, t time.Duration) (mathutil.Transform, bool) {
	i, ok := c.byBone[name]
	if !ok {
		return mathutil.Transform{}, false
	}
	keys := c.tracks[i].Keys
	if len(keys) == 0 {
		return mathutil.Transform{}, false
	}

	if c.Loop && c.Duration > 0 {
		t %= c.Duration
		if t < 0 {
			t += c.Duration
		}
	}

	// First key strictly after t.
	j := sort.Search(len(keys), func(k int) bool { return keys[k].Time > t })
	if j == 0 || j == len(keys) {
		if tr, ok := c.wrap(keys, t, j == 0); ok {
			return tr, true
		}
		if j == 0 {
			return keys[0].transform(), true
		}
		return keys[len(keys)-1].transform(), true
	}

	a, b := keys[j-1], keys[j]
	f := float64(t-a.Time) / float64(b.Time-a.Time)
	return mathutil.Interpolate(a.transform(), b.transform(), f), true
}

// wrap blends across the loop seam: from the last key at its time to the
// first key at Duration plus the first key's time. before is set when t lies
// ahead of the first key rather than past the last one.
func (c *Clip) wrap(keys []Key, t time.Duration, before bool) (mathutil.Transform, bool) {
	last := keys[len(keys)-1]
	if !c.Loop || c.Duration <= 0 || last.Time >= c.Duration {
		return mathutil.Transform{}, false
	}
	gap := c.Duration - last.Time + keys[0].Time
	elapsed := t - last.Time
	if before {
		elapsed = c.Duration - last.Time + t
	}
	f := float64(elapsed) / float64(gap)
	return mathutil.Interpolate(last.transform(), keys[0].transform(), f), true
}
