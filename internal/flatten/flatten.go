// Package flatten turns a scene graph into a world-space triangle soup:
// parallel position and normal sequences, three entries per triangle.
package flatten

import (
	gomath "math"

	"github.com/Faultbox/avatar-forge/internal/scene"
	"github.com/Faultbox/avatar-forge/pkg/math"
)

// Precision is the number of decimal digits every coordinate is rounded to.
const Precision = 6

// Stream is a flattened scene. Positions[i] pairs with Normals[i].
type Stream struct {
	Positions [][3]float64
	Normals   [][3]float64
}

// VertexCount returns the number of emitted vertices.
func (s Stream) VertexCount() int {
	return len(s.Positions)
}

// TriangleCount returns the number of complete triangles.
func (s Stream) TriangleCount() int {
	return len(s.Positions) / 3
}

// Round6 rounds v to Precision decimal digits.
func Round6(v float64) float64 {
	const scale = 1e6
	r := gomath.Round(v*scale) / scale
	if r == 0 {
		return 0 // drop negative zero so output is byte-stable
	}
	return r
}

// Flatten visits g depth-first and emits every geometry-carrying node in
// world space. Indexed meshes are expanded; normals go through the
// inverse-transpose of the world matrix and are renormalised. Nodes
// without geometry only contribute their transform.
func Flatten(g *scene.Graph) Stream {
	var s Stream
	g.Walk(func(n *scene.Node, world math.Mat4) bool {
		if n.Mesh == nil || len(n.Mesh.Positions) == 0 {
			return true
		}
		appendMesh(&s, n, world)
		return true
	})
	return s
}

func appendMesh(s *Stream, n *scene.Node, world math.Mat4) {
	mesh := n.Mesh.Expand()
	normalMat := world.NormalMatrix()
	count := len(mesh.Positions) - len(mesh.Positions)%3

	for i := 0; i < count; i++ {
		p := world.TransformPoint(mesh.Positions[i])
		nv := math.V3(normalMat.TransformDirection(mesh.Normals[i])).Normalize()
		s.Positions = append(s.Positions, round3(p))
		s.Normals = append(s.Normals, round3(nv.Array()))
	}
}

func round3(v [3]float32) [3]float64 {
	return [3]float64{
		Round6(float64(v[0])),
		Round6(float64(v[1])),
		Round6(float64(v[2])),
	}
}
