package bmd

// Model is the skeletal part of a BMD file: bone hierarchy, per-action
// keyframes and the vertices each bone carries.
type Model struct {
	Name    string
	Meshes  []Mesh
	Actions []Action
	Bones   []Bone
}

// Mesh keeps only what is needed to size bone bounding boxes.
// Vertex positions are in the frame of the bone named by Nodes[i].
type Mesh struct {
	Verts   [][3]float32
	Nodes   []int16
	TexPath string
}

// Action describes one animation stored in the file.
type Action struct {
	Keys    int
	LockPos bool
}

// Frame is one keyframe of a bone: local position and Euler XYZ rotation
// in radians.
type Frame struct {
	Pos [3]float32
	Rot [3]float32
}

// Bone holds one hierarchy entry. Dummy bones are placeholders with no name,
// parent or keys. Frames is indexed by action, then by key.
type Bone struct {
	Name   string
	Parent int
	Dummy  bool
	Frames [][]Frame
}
