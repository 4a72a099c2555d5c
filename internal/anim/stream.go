package anim

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"bonerig/internal/archive"
	"bonerig/internal/mathutil"
)

// Tag is the leading marker of a clip stream.
const Tag = "BANI"

const (
	maxTracks = 1 << 16
	maxKeys   = 1 << 20
)

// Read parses a clip:
//
//	tag "BANI"
//	duration u32 (ms)
//	trackCount u32
//	trackCount × { bone string, keyCount u32,
//	               keyCount × { time u32 (ms), rot 4×f32 (x y z w), pos 3×f32 } }
//
// Key times within a track must not decrease.
func Read(r *archive.Reader) (*Clip, error) {
	if err := r.ReadTag(Tag); err != nil {
		return nil, fmt.Errorf("anim: %w", err)
	}
	duration := ms(r.ReadUint32())
	count := r.ReadUint32()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("anim: read header: %w", err)
	}
	if count > maxTracks {
		return nil, fmt.Errorf("anim: %d tracks exceeds limit %d", count, maxTracks)
	}

	tracks := make([]Track, count)
	for i := range tracks {
		tr := &tracks[i]
		tr.Bone = r.ReadString()
		n := r.ReadUint32()
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("anim: read track %d: %w", i, err)
		}
		if n > maxKeys {
			return nil, fmt.Errorf("anim: track %q: %d keys exceeds limit %d", tr.Bone, n, maxKeys)
		}
		tr.Keys = make([]Key, n)
		for k := range tr.Keys {
			key := &tr.Keys[k]
			key.Time = ms(r.ReadUint32())
			x, y, z, w := r.ReadFloat32(), r.ReadFloat32(), r.ReadFloat32(), r.ReadFloat32()
			key.Rot = mathutil.QuatFromXYZW(float64(x), float64(y), float64(z), float64(w))
			for c := 0; c < 3; c++ {
				key.Pos[c] = float64(r.ReadFloat32())
			}
			if err := r.Err(); err != nil {
				return nil, fmt.Errorf("anim: read track %q key %d: %w", tr.Bone, k, err)
			}
			if k > 0 && key.Time < tr.Keys[k-1].Time {
				return nil, fmt.Errorf("anim: track %q: key %d at %v precedes %v", tr.Bone, k, key.Time, tr.Keys[k-1].Time)
			}
		}
	}

	return NewClip(duration, tracks), nil
}

// Load reads a clip file from disk.
func Load(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("anim: open %s: %w", path, err)
	}
	defer f.Close()

	c, err := Read(archive.NewReader(bufio.NewReader(f)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Write encodes the clip in the format Read accepts.
func (c *Clip) Write(w *archive.Writer) error {
	w.WriteTag(Tag)
	w.WriteUint32(uint32(c.Duration.Milliseconds()))
	w.WriteUint32(uint32(len(c.tracks)))
	for _, tr := range c.tracks {
		w.WriteString(tr.Bone)
		w.WriteUint32(uint32(len(tr.Keys)))
		for _, k := range tr.Keys {
			w.WriteUint32(uint32(k.Time.Milliseconds()))
			w.WriteFloat32(float32(k.Rot.V[0]))
			w.WriteFloat32(float32(k.Rot.V[1]))
			w.WriteFloat32(float32(k.Rot.V[2]))
			w.WriteFloat32(float32(k.Rot.W))
			for i := 0; i < 3; i++ {
				w.WriteFloat32(float32(k.Pos[i]))
			}
		}
	}
	if err := w.Err(); err != nil {
		return fmt.Errorf("anim: write: %w", err)
	}
	return nil
}

func ms(v uint32) time.Duration {
	return time.Duration(v) * time.Millisecond
}

// Save writes the clip to path, replacing any existing file.
func (c *Clip) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("anim: create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := c.Write(archive.NewWriter(bw)); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("anim: flush %s: %w", path, err)
	}
	return f.Close()
}
