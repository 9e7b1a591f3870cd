// Package scene holds the avatar scene graph: an arena of nodes linked by
// index, each carrying a local transform and optionally geometry and a
// material.
package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/avatar-forge/internal/geometry"
	"github.com/Faultbox/avatar-forge/pkg/math"
)

// ErrReleased is returned when a released graph is used.
var ErrReleased = errors.New("scene graph released")

// NodeID indexes a node in its graph's arena.
type NodeID int

// NoParent marks the root.
const NoParent NodeID = -1

// Kind tags the node variant.
type Kind int

const (
	KindGroup      Kind = iota // transform only
	KindPrimitive              // fixed procedural shape
	KindDeformable             // shape with a rest buffer, deformed per frame
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "Group"
	case KindPrimitive:
		return "Primitive"
	case KindDeformable:
		return "Deformable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Shape names the primitive a node was generated from.
type Shape string

const (
	ShapeNone     Shape = ""
	ShapeSphere   Shape = "sphere"
	ShapeCapsule  Shape = "capsule"
	ShapeCylinder Shape = "cylinder"
	ShapePlane    Shape = "plane"
)

// Transform is a node's local position, XYZ Euler rotation (radians) and
// scale.
type Transform struct {
	Position math.Vec3
	Rotation math.Vec3
	Scale    math.Vec3
}

// IdentityTransform has unit scale and no offset or rotation.
func IdentityTransform() Transform {
	return Transform{Scale: math.Vec3{X: 1, Y: 1, Z: 1}}
}

// Matrix returns the local matrix T * R * S.
func (t Transform) Matrix() math.Mat4 {
	return math.Compose(t.Position, t.Rotation, t.Scale)
}

// Node is one entry in the arena.
type Node struct {
	ID        NodeID
	Name      string
	Kind      Kind
	Shape     Shape
	Parent    NodeID
	Children  []NodeID
	Transform Transform
	Visible   bool
	Mesh      *geometry.Mesh
	Material  *Material

	// Rest holds the undeformed positions of a deformable node, captured
	// once when the node is added.
	Rest [][3]float32
}

// Graph is an arena-backed scene tree. Node 0 is the root.
type Graph struct {
	nodes    []Node
	released bool
}

// New creates a graph with a root group of the given name.
func New(rootName string) *Graph {
	g := &Graph{}
	g.nodes = append(g.nodes, Node{
		ID:        0,
		Name:      rootName,
		Kind:      KindGroup,
		Parent:    NoParent,
		Transform: IdentityTransform(),
		Visible:   true,
	})
	return g
}

// Root returns the root node id.
func (g *Graph) Root() NodeID {
	return 0
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns a pointer into the arena. The pointer is invalidated by the
// next Add call.
func (g *Graph) Node(id NodeID) *Node {
	return &g.nodes[id]
}

func (g *Graph) add(parent NodeID, n Node) NodeID {
	id := NodeID(len(g.nodes))
	n.ID = id
	n.Parent = parent
	n.Visible = true
	g.nodes = append(g.nodes, n)
	g.nodes[parent].Children = append(g.nodes[parent].Children, id)
	return id
}

// AddGroup adds a transform-only node.
func (g *Graph) AddGroup(parent NodeID, name string, t Transform) NodeID {
	return g.add(parent, Node{Name: name, Kind: KindGroup, Transform: t})
}

// AddPrimitive adds a node with fixed geometry.
func (g *Graph) AddPrimitive(parent NodeID, name string, shape Shape, t Transform, mesh *geometry.Mesh, mat *Material) NodeID {
	return g.add(parent, Node{Name: name, Kind: KindPrimitive, Shape: shape, Transform: t, Mesh: mesh, Material: mat})
}

// AddDeformable adds a node whose positions are animated. The current
// positions are copied into the rest buffer.
func (g *Graph) AddDeformable(parent NodeID, name string, shape Shape, t Transform, mesh *geometry.Mesh, mat *Material) NodeID {
	rest := append([][3]float32(nil), mesh.Positions...)
	return g.add(parent, Node{Name: name, Kind: KindDeformable, Shape: shape, Transform: t, Mesh: mesh, Material: mat, Rest: rest})
}

// Find returns the first node with the given name in arena order.
func (g *Graph) Find(name string) (NodeID, bool) {
	for i := range g.nodes {
		if g.nodes[i].Name == name {
			return NodeID(i), true
		}
	}
	return NoParent, false
}

// Children returns the child ids of a node.
func (g *Graph) Children(id NodeID) []NodeID {
	return g.nodes[id].Children
}

// WorldMatrix composes the local matrices from the root down to id.
func (g *Graph) WorldMatrix(id NodeID) math.Mat4 {
	m := g.nodes[id].Transform.Matrix()
	for p := g.nodes[id].Parent; p != NoParent; p = g.nodes[p].Parent {
		m = g.nodes[p].Transform.Matrix().Mul(m)
	}
	return m
}

// Walk visits every node depth-first, children in insertion order, passing
// the node's accumulated world matrix. Returning false stops the walk.
func (g *Graph) Walk(fn func(n *Node, world math.Mat4) bool) {
	if len(g.nodes) == 0 {
		return
	}
	g.walk(g.Root(), math.Identity(), fn)
}

func (g *Graph) walk(id NodeID, parent math.Mat4, fn func(*Node, math.Mat4) bool) bool {
	n := &g.nodes[id]
	world := parent.Mul(n.Transform.Matrix())
	if !fn(n, world) {
		return false
	}
	for _, c := range n.Children {
		if !g.walk(c, world, fn) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy: meshes, rest buffers and materials are
// duplicated so the copy can be read while the original keeps animating.
func (g *Graph) Clone() *Graph {
	c := &Graph{nodes: make([]Node, len(g.nodes)), released: g.released}
	mats := make(map[*Material]*Material)
	for i, n := range g.nodes {
		n.Children = append([]NodeID(nil), n.Children...)
		if n.Mesh != nil {
			n.Mesh = n.Mesh.Clone()
		}
		if n.Rest != nil {
			n.Rest = append([][3]float32(nil), n.Rest...)
		}
		if n.Material != nil {
			m, ok := mats[n.Material]
			if !ok {
				cp := *n.Material
				m = &cp
				mats[n.Material] = m
			}
			n.Material = m
		}
		c.nodes[i] = n
	}
	return c
}

// Release disposes every mesh and material the graph owns. Released
// graphs keep their node structure but drop geometry buffers. Calling
// Release twice is a no-op.
func (g *Graph) Release() {
	if g.released {
		return
	}
	for i := range g.nodes {
		n := &g.nodes[i]
		n.Mesh = nil
		n.Rest = nil
		if n.Material != nil {
			n.Material.released = true
			n.Material = nil
		}
	}
	g.released = true
}

// Released reports whether Release has been called.
func (g *Graph) Released() bool {
	return g.released
}

// Stats summarises a graph.
type Stats struct {
	Nodes     int
	Meshes    int
	Materials int
	Vertices  int
	Triangles int
}

// Stats counts nodes, distinct materials and geometry.
func (g *Graph) Stats() Stats {
	s := Stats{Nodes: len(g.nodes)}
	mats := make(map[*Material]struct{})
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.Mesh != nil {
			s.Meshes++
			s.Vertices += n.Mesh.VertexCount()
			s.Triangles += n.Mesh.TriangleCount()
		}
		if n.Material != nil {
			mats[n.Material] = struct{}{}
		}
	}
	s.Materials = len(mats)
	return s
}

// SetVisible toggles a node. Hidden nodes are skipped by exporters that
// honour visibility; their children are hidden with them.
func (g *Graph) SetVisible(id NodeID, visible bool) {
	g.nodes[id].Visible = visible
}
