package skeleton

import (
	"bufio"
	"fmt"
	"os"

	"bonerig/internal/archive"
	"bonerig/internal/mathutil"
)

// Tag is the leading marker of a skeleton stream.
const Tag = "SKEL"

// maxBones rejects absurd counts before allocating.
const maxBones = 1 << 16

// ReadFromStream parses a skeleton:
//
//	tag "SKEL"
//	boneCount u32
//	boneCount × { name string, parent i32, restOffset f32, bbox 6×f32 (min xyz, max xyz) }
//
// Any failure is reported as a *FormatError and no Skeleton is returned.
func ReadFromStream(r *archive.Reader) (*Skeleton, error) {
	if err := r.ReadTag(Tag); err != nil {
		return nil, &FormatError{Op: "read tag", Err: err}
	}

	count := r.ReadUint32()
	if err := r.Err(); err != nil {
		return nil, &FormatError{Op: "read bone count", Err: err}
	}
	if count > maxBones {
		return nil, &FormatError{Op: "read bone count", Err: fmt.Errorf("%d bones exceeds limit %d", count, maxBones)}
	}

	bones := make([]BoneNode, count)
	for i := range bones {
		b := &bones[i]
		start := r.Offset()
		b.Name = r.ReadString()
		b.Parent = int(r.ReadInt32())
		b.RestOffset = r.ReadFloat32()
		for k := 0; k < 3; k++ {
			b.BoundingBox.Min[k] = float64(r.ReadFloat32())
		}
		for k := 0; k < 3; k++ {
			b.BoundingBox.Max[k] = float64(r.ReadFloat32())
		}
		if err := r.Err(); err != nil {
			return nil, &FormatError{Op: fmt.Sprintf("read bone %d at offset %d", i, start), Err: err}
		}
	}

	return New(bones)
}

// Load reads a skeleton file from disk.
func Load(path string) (*Skeleton, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("skeleton: open %s: %w", path, err)
	}
	defer f.Close()

	s, err := ReadFromStream(archive.NewReader(bufio.NewReader(f)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// WriteToStream writes the hierarchy in the format ReadFromStream accepts.
// Bounding boxes are narrowed to float32; RestOffset is written unchanged.
func (s *Skeleton) WriteToStream(w *archive.Writer) error {
	w.WriteTag(Tag)
	w.WriteUint32(uint32(len(s.bones)))
	for i := range s.bones {
		b := &s.bones[i]
		w.WriteString(b.Name)
		w.WriteInt32(int32(b.Parent))
		w.WriteFloat32(b.RestOffset)
		writeVec(w, b.BoundingBox.Min)
		writeVec(w, b.BoundingBox.Max)
	}
	if err := w.Err(); err != nil {
		return fmt.Errorf("skeleton: write: %w", err)
	}
	return nil
}

// Save writes the skeleton to path, replacing any existing file.
func (s *Skeleton) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("skeleton: create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := s.WriteToStream(archive.NewWriter(bw)); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("skeleton: flush %s: %w", path, err)
	}
	return f.Close()
}

func writeVec(w *archive.Writer, v mathutil.Vec3) {
	for k := 0; k < 3; k++ {
		w.WriteFloat32(float32(v[k]))
	}
}
