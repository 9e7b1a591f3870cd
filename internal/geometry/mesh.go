// Package geometry generates the indexed primitive meshes the avatar is
// assembled from: spheres, capsules, cylinders and planes.
package geometry

import (
	"github.com/Faultbox/avatar-forge/pkg/math"
)

// Mesh holds indexed triangle geometry. Normals and UVs parallel
// Positions; UVs may be empty.
type Mesh struct {
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Indices   []uint32
}

// VertexCount returns the number of stored (indexed) vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	if m.Indexed() {
		return len(m.Indices) / 3
	}
	return len(m.Positions) / 3
}

// Indexed reports whether the mesh uses an index buffer.
func (m *Mesh) Indexed() bool {
	return m.Indices != nil
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Positions: append([][3]float32(nil), m.Positions...),
		Normals:   append([][3]float32(nil), m.Normals...),
	}
	if m.UVs != nil {
		c.UVs = append([][2]float32(nil), m.UVs...)
	}
	if m.Indices != nil {
		c.Indices = append([]uint32(nil), m.Indices...)
	}
	return c
}

// Expand returns a non-indexed copy: every triangle gets its own three
// vertices in index order. Non-indexed meshes are copied as-is.
func (m *Mesh) Expand() *Mesh {
	if !m.Indexed() {
		return m.Clone()
	}
	out := &Mesh{
		Positions: make([][3]float32, len(m.Indices)),
		Normals:   make([][3]float32, len(m.Indices)),
	}
	hasUV := len(m.UVs) == len(m.Positions)
	if hasUV {
		out.UVs = make([][2]float32, len(m.Indices))
	}
	for i, idx := range m.Indices {
		out.Positions[i] = m.Positions[idx]
		out.Normals[i] = m.Normals[idx]
		if hasUV {
			out.UVs[i] = m.UVs[idx]
		}
	}
	return out
}

// ComputeNormals recomputes smooth per-vertex normals by accumulating
// area-weighted face normals over shared indices.
func (m *Mesh) ComputeNormals() {
	if len(m.Normals) != len(m.Positions) {
		m.Normals = make([][3]float32, len(m.Positions))
	}
	for i := range m.Normals {
		m.Normals[i] = [3]float32{}
	}

	tri := func(a, b, c uint32) {
		p0 := math.V3(m.Positions[a])
		e1 := math.V3(m.Positions[b]).Sub(p0)
		e2 := math.V3(m.Positions[c]).Sub(p0)
		n := e1.Cross(e2) // not normalized: larger faces weigh more
		for _, idx := range [3]uint32{a, b, c} {
			m.Normals[idx] = math.V3(m.Normals[idx]).Add(n).Array()
		}
	}

	if m.Indexed() {
		for i := 0; i+2 < len(m.Indices); i += 3 {
			tri(m.Indices[i], m.Indices[i+1], m.Indices[i+2])
		}
	} else {
		for i := 0; i+2 < len(m.Positions); i += 3 {
			tri(uint32(i), uint32(i+1), uint32(i+2))
		}
	}

	for i := range m.Normals {
		m.Normals[i] = math.V3(m.Normals[i]).Normalize().Array()
	}
}

// Bounds returns the axis-aligned bounding box of the positions.
func (m *Mesh) Bounds() (min, max [3]float32) {
	if len(m.Positions) == 0 {
		return
	}
	min, max = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		for k := 0; k < 3; k++ {
			if p[k] < min[k] {
				min[k] = p[k]
			}
			if p[k] > max[k] {
				max[k] = p[k]
			}
		}
	}
	return
}
