package mathutil

import "math"

// Epsilon is the length below which vectors and ray directions are treated as zero.
const Epsilon = 1e-12

// ZUpToYUp converts a Z-up rig to the Y-up view space: Rx(-90°)
var ZUpToYUp = RotX(math.Pi / -2)
