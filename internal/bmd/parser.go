// Package bmd imports skeletons and animations from BMD model files.
package bmd

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

var (
	ErrHeader    = errors.New("bmd: invalid header")
	ErrEncrypted = errors.New("bmd: encrypted file versions are not supported")
	ErrTruncated = errors.New("bmd: unexpected end of data")
)

const (
	nameLen     = 32
	triSize     = 64
	maxMeshes   = 100
	encryptedV1 = 12
	encryptedV2 = 15
)

// Parse reads a BMD file. Only the plain layout (version 10 and other
// unencrypted versions) is accepted.
func Parse(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bmd: read %s: %w", path, err)
	}
	m, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Decode parses an in-memory BMD image.
func Decode(raw []byte) (*Model, error) {
	if len(raw) < 4 || string(raw[:3]) != "BMD" {
		return nil, ErrHeader
	}
	switch raw[3] {
	case encryptedV1, encryptedV2:
		return nil, fmt.Errorf("%w (version %d)", ErrEncrypted, raw[3])
	}

	r := &reader{data: raw[4:]}
	m, err := r.parse()
	if err != nil {
		return nil, err
	}
	if r.short {
		return nil, ErrTruncated
	}
	return m, nil
}

type reader struct {
	data  []byte
	off   int
	short bool
}

func (r *reader) take(n int) []byte {
	if r.off+n > len(r.data) {
		r.off = len(r.data)
		r.short = true
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) skip(n int) {
	r.take(n)
}

func (r *reader) readStr(n int) string {
	s := r.take(n)
	if i := indexZero(s); i >= 0 {
		s = s[:i]
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(s)
	if err != nil {
		return string(s)
	}
	return string(out)
}

func indexZero(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return -1
}

func (r *reader) readI16() int16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(b))
}

func (r *reader) readU16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *reader) readF32() float32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func (r *reader) readByte() byte {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) readVec() [3]float32 {
	return [3]float32{r.readF32(), r.readF32(), r.readF32()}
}

func (r *reader) parse() (*Model, error) {
	m := &Model{Name: r.readStr(nameLen)}
	meshCount := int(r.readU16())
	boneCount := int(r.readU16())
	actionCount := int(r.readU16())

	if meshCount > maxMeshes {
		return nil, fmt.Errorf("bmd: invalid mesh count %d", meshCount)
	}

	m.Meshes = make([]Mesh, 0, meshCount)
	for i := 0; i < meshCount && !r.short; i++ {
		nv := int(r.readI16())
		nn := int(r.readI16())
		ntc := int(r.readI16())
		nt := int(r.readI16())
		_ = r.readI16() // texture index
		if nv < 0 || nn < 0 || ntc < 0 || nt < 0 {
			return nil, fmt.Errorf("bmd: mesh %d: negative element count", i)
		}

		// Vertices: node:i16, pad:i16, x, y, z:f32
		verts := make([][3]float32, nv)
		nodes := make([]int16, nv)
		for j := 0; j < nv; j++ {
			nodes[j] = r.readI16()
			_ = r.readI16()
			verts[j] = r.readVec()
		}

		// Normals are 20 bytes, texcoords 8, triangles 64.
		r.skip(nn * 20)
		r.skip(ntc * 8)
		r.skip(nt * triSize)

		texPath := strings.ReplaceAll(r.readStr(nameLen), "\\", "/")
		m.Meshes = append(m.Meshes, Mesh{Verts: verts, Nodes: nodes, TexPath: texPath})
	}

	m.Actions = make([]Action, actionCount)
	for a := 0; a < actionCount && !r.short; a++ {
		keys := int(r.readI16())
		if keys < 0 {
			return nil, fmt.Errorf("bmd: action %d: negative key count", a)
		}
		lock := r.readByte() > 0
		if lock {
			r.skip(keys * 12) // root-motion positions
		}
		m.Actions[a] = Action{Keys: keys, LockPos: lock}
	}

	m.Bones = make([]Bone, 0, boneCount)
	for b := 0; b < boneCount && !r.short; b++ {
		if r.readByte() > 0 {
			m.Bones = append(m.Bones, Bone{Parent: -1, Dummy: true})
			continue
		}

		bone := Bone{
			Name:   r.readStr(nameLen),
			Parent: int(r.readI16()),
			Frames: make([][]Frame, actionCount),
		}
		for a, act := range m.Actions {
			frames := make([]Frame, act.Keys)
			for k := range frames {
				frames[k].Pos = r.readVec()
			}
			for k := range frames {
				frames[k].Rot = r.readVec()
			}
			bone.Frames[a] = frames
		}
		m.Bones = append(m.Bones, bone)
	}

	return m, nil
}
